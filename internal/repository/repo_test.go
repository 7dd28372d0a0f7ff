package repository

import (
	"testing"

	"go-sales-inventory/internal/model"
	"go-sales-inventory/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestParseSort(t *testing.T) {
	cols := ParseSort("-stock, name bogus", ProductSortFields, DefaultProductSort)
	require.Len(t, cols, 2)
	assert.Equal(t, "stock", cols[0].Column.Name)
	assert.True(t, cols[0].Desc)
	assert.Equal(t, "name", cols[1].Column.Name)
	assert.False(t, cols[1].Desc)

	cols = ParseSort("bogus", ProductSortFields, DefaultProductSort)
	require.Len(t, cols, 1)
	assert.Equal(t, "created_at", cols[0].Column.Name)
	assert.True(t, cols[0].Desc)

	cols = ParseSort("", SaleSortFields, DefaultSaleSort)
	require.Len(t, cols, 1)
	assert.Equal(t, "date", cols[0].Column.Name)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%widget%", containsPattern("WidGet"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
}
