package repository

import (
	"context"
	"testing"
	"time"

	"go-sales-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSale(date time.Time, status model.SaleStatus, lines ...model.SaleLine) *model.Sale {
	return &model.Sale{
		Date:   date,
		Seller: "Ana",
		Buyer:  "Bob",
		Status: status,
		Lines:  lines,
	}
}

func TestSaleRepo_CreateComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	products := NewProductRepo(db)
	sales := NewSaleRepo(db)
	ctx := context.Background()

	widget := newProduct("A1", "Widget", 10)
	require.NoError(t, products.Create(ctx, widget))

	sale := newSale(time.Now().UTC(), model.SalePending,
		model.SaleLine{ProductID: widget.ID, ProductName: widget.Name, Quantity: 3, UnitPrice: 5},
		model.SaleLine{ProductID: widget.ID, ProductName: widget.Name, Quantity: 1, UnitPrice: 2.5},
	)
	require.NoError(t, sales.Create(ctx, sale))
	assert.Equal(t, 17.5, sale.Total)

	found, err := sales.FindByID(ctx, sale.ID, DetailProductColumns)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, 15.0, found.Lines[0].Subtotal)
	assert.Equal(t, 2.5, found.Lines[1].Subtotal)
	assert.Equal(t, 17.5, found.Total)
	require.NotNil(t, found.Lines[0].Product)
	assert.Equal(t, "A1", found.Lines[0].Product.Code)
	assert.Equal(t, model.UnitEach, found.Lines[0].Product.Unit)
}

func TestSaleRepo_FindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	products := NewProductRepo(db)
	sales := NewSaleRepo(db)
	ctx := context.Background()

	widget := newProduct("A1", "Widget", 10)
	require.NoError(t, products.Create(ctx, widget))
	line := model.SaleLine{ProductID: widget.ID, ProductName: widget.Name, Quantity: 1, UnitPrice: 5}

	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, sales.Create(ctx, newSale(jan, model.SalePending, line)))
	require.NoError(t, sales.Create(ctx, newSale(feb, model.SaleCompleted, line)))
	require.NoError(t, sales.Create(ctx, newSale(mar, model.SaleCompleted, line)))

	all, err := sales.FindAll(ctx, SaleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.Equal(mar), "newest date first")
	require.Len(t, all[0].Lines, 1)
	require.NotNil(t, all[0].Lines[0].Product)
	assert.Equal(t, "Widget", all[0].Lines[0].Product.Name)
	assert.Empty(t, all[0].Lines[0].Product.Unit, "list projection has no unit")

	completed, err := sales.FindAll(ctx, SaleFilter{Status: model.SaleCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	ranged, err := sales.FindAll(ctx, SaleFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.True(t, ranged[0].Date.Equal(feb))

	asc, err := sales.FindAll(ctx, SaleFilter{Sort: "date"})
	require.NoError(t, err)
	assert.True(t, asc[0].Date.Equal(jan))
}

func TestSaleRepo_OrphanedProductResolvesToNil(t *testing.T) {
	db := setupTestDB(t)
	products := NewProductRepo(db)
	sales := NewSaleRepo(db)
	ctx := context.Background()

	widget := newProduct("A1", "Widget", 10)
	require.NoError(t, products.Create(ctx, widget))
	sale := newSale(time.Now().UTC(), model.SalePending,
		model.SaleLine{ProductID: widget.ID, ProductName: widget.Name, Quantity: 1, UnitPrice: 5})
	require.NoError(t, sales.Create(ctx, sale))
	require.NoError(t, products.Delete(ctx, widget.ID))

	found, err := sales.FindByID(ctx, sale.ID, DetailProductColumns)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Nil(t, found.Lines[0].Product)
	assert.Equal(t, "Widget", found.Lines[0].ProductName)
}

func TestSaleRepo_UpdateDetailsAndDelete(t *testing.T) {
	db := setupTestDB(t)
	products := NewProductRepo(db)
	sales := NewSaleRepo(db)
	ctx := context.Background()

	widget := newProduct("A1", "Widget", 10)
	require.NoError(t, products.Create(ctx, widget))
	sale := newSale(time.Now().UTC(), model.SalePending,
		model.SaleLine{ProductID: widget.ID, ProductName: widget.Name, Quantity: 2, UnitPrice: 5})
	require.NoError(t, sales.Create(ctx, sale))

	sale.Status = model.SaleCompleted
	sale.IssueInvoice = true
	sale.Buyer = "Carol"
	require.NoError(t, sales.UpdateDetails(ctx, sale))

	found, err := sales.FindByID(ctx, sale.ID, DetailProductColumns)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, found.Status)
	assert.True(t, found.IssueInvoice)
	assert.Equal(t, "Carol", found.Buyer)
	assert.Equal(t, 10.0, found.Total)
	assert.Len(t, found.Lines, 1)

	require.NoError(t, sales.Delete(ctx, sale.ID))
	assert.ErrorIs(t, sales.Delete(ctx, sale.ID), ErrNotFound)

	var lineCount int64
	require.NoError(t, db.Model(&model.SaleLine{}).Where("sale_id = ?", sale.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	_, err = sales.FindByID(ctx, uuid.New(), DetailProductColumns)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleRepo_Statistics(t *testing.T) {
	db := setupTestDB(t)
	products := NewProductRepo(db)
	sales := NewSaleRepo(db)
	ctx := context.Background()

	stats, err := sales.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatistics{}, *stats)

	widget := newProduct("A1", "Widget", 10)
	require.NoError(t, products.Create(ctx, widget))
	line := func(q int) model.SaleLine {
		return model.SaleLine{ProductID: widget.ID, ProductName: widget.Name, Quantity: q, UnitPrice: 5}
	}
	now := time.Now().UTC()
	require.NoError(t, sales.Create(ctx, newSale(now, model.SalePending, line(1))))
	require.NoError(t, sales.Create(ctx, newSale(now, model.SaleCompleted, line(2))))
	require.NoError(t, sales.Create(ctx, newSale(now, model.SaleCompleted, line(3))))
	require.NoError(t, sales.Create(ctx, newSale(now, model.SaleCancelled, line(4))))

	stats, err = sales.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalSales)
	assert.Equal(t, int64(1), stats.PendingSales)
	assert.Equal(t, int64(2), stats.CompletedSales)
	assert.Equal(t, 25.0, stats.TotalRevenue)
}
