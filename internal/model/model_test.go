package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaleRecalculate(t *testing.T) {
	sale := &Sale{Lines: []SaleLine{
		{Quantity: 3, UnitPrice: 5},
		{Quantity: 2, UnitPrice: 0},
		{Quantity: 1, UnitPrice: 2.5},
	}}
	sale.Recalculate()

	assert.Equal(t, 15.0, sale.Lines[0].Subtotal)
	assert.Equal(t, 0.0, sale.Lines[1].Subtotal)
	assert.Equal(t, 2.5, sale.Lines[2].Subtotal)
	assert.Equal(t, 17.5, sale.Total)
	assert.Equal(t, 2, sale.Lines[2].Position)
}

func TestSaleBeforeSaveKeepsTotalWithoutLines(t *testing.T) {
	sale := &Sale{Total: 42}
	assert.NoError(t, sale.BeforeSave(nil))
	assert.Equal(t, 42.0, sale.Total)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "AB-12", NormalizeCode("  ab-12 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestProductHasStock(t *testing.T) {
	p := &Product{Stock: 7}
	assert.True(t, p.HasStock(7))
	assert.False(t, p.HasStock(8))
}

func TestEnumsValid(t *testing.T) {
	for _, u := range Units {
		assert.True(t, u.Valid(), u)
	}
	assert.False(t, Unit("Gallon").Valid())

	assert.True(t, SalePending.Valid())
	assert.True(t, SaleCancelled.Valid())
	assert.False(t, SaleStatus("Shipped").Valid())
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("secret123"))
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("other"))
}
