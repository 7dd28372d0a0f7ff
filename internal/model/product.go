package model

import (
	"strings"

	"github.com/google/uuid"
)

type Unit string

const (
	UnitEach     Unit = "Unit"
	UnitKilogram Unit = "Kilogram"
	UnitLiter    Unit = "Liter"
	UnitMeter    Unit = "Meter"
	UnitBox      Unit = "Box"
	UnitPackage  Unit = "Package"
)

// Units lists every accepted unit of measure, in display order
var Units = []Unit{UnitEach, UnitKilogram, UnitLiter, UnitMeter, UnitBox, UnitPackage}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

type Product struct {
	BaseModel
	Code     string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Unit     Unit    `gorm:"type:varchar(20);not null;default:Unit" json:"unit"`
	Stock    int     `gorm:"not null;default:0;index" json:"stock"`
	Price    float64 `gorm:"not null;default:0" json:"price"`
	Supplier string  `gorm:"type:varchar(255);not null" json:"supplier"`
}

// NormalizeCode trims and uppercases a product code so lookups are case-insensitive
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasStock reports whether quantity units can be taken from the product
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// LineProduct is the read-only projection of a product shown inside sale lines
type LineProduct struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
	Unit Unit      `json:"unit,omitempty"`
}

func (LineProduct) TableName() string {
	return "products"
}
