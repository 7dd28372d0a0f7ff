package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParseSort turns "-createdAt,name" (or space separated) into ORDER BY columns.
// Fields missing from allowed are ignored; the fallback order applies when nothing is left.
func ParseSort(order string, allowed map[string]string, fallback string) []clause.OrderByColumn {
	columns := parseSortFields(order, allowed)
	if len(columns) == 0 {
		columns = parseSortFields(fallback, allowed)
	}
	return columns
}

func parseSortFields(order string, allowed map[string]string) []clause.OrderByColumn {
	var columns []clause.OrderByColumn
	fields := strings.FieldsFunc(order, func(r rune) bool { return r == ',' || r == ' ' })
	for _, field := range fields {
		desc := false
		if strings.HasPrefix(field, "-") {
			desc = true
			field = field[1:]
		} else if strings.HasPrefix(field, "+") {
			field = field[1:]
		}
		column, ok := allowed[field]
		if !ok {
			continue
		}
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
	return columns
}

func applySort(db *gorm.DB, columns []clause.OrderByColumn) *gorm.DB {
	if len(columns) == 0 {
		return db
	}
	return db.Order(clause.OrderBy{Columns: columns})
}

// containsPattern builds a lowercase LIKE pattern matching term anywhere, with wildcards escaped
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}
