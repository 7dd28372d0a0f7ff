package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"go-sales-inventory/internal/model"
	"go-sales-inventory/internal/repository"
	"go-sales-inventory/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() { database.Close(db) })
	return db
}

type fixture struct {
	db        *gorm.DB
	inventory InventoryService
	sales     SaleService
	cache     *memoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	productRepo := repository.NewProductRepo(db)
	cache := newMemoryCache()
	return &fixture{
		db:        db,
		inventory: NewInventoryService(productRepo, db, nil),
		sales:     NewSaleService(repository.NewSaleRepo(db), productRepo, db, nil, cache),
		cache:     cache,
	}
}

func (f *fixture) product(t *testing.T, code string, stock int, price float64) *model.Product {
	t.Helper()

	p, err := f.inventory.CreateProduct(context.Background(), &CreateProductRequest{
		Code:     code,
		Name:     "Product " + code,
		Stock:    stock,
		Price:    &price,
		Supplier: "Acme",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, p *model.Product) int {
	t.Helper()

	current, err := f.inventory.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	return current.Stock
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

// memoryCache is a StatsCache kept in process memory
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	m.deletes++
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}
