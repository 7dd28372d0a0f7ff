package repository

import (
	"context"

	"go-sales-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductSortFields maps accepted sort keys to columns
var ProductSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"code":      "code",
	"name":      "name",
	"unit":      "unit",
	"stock":     "stock",
	"price":     "price",
	"supplier":  "supplier",
}

const DefaultProductSort = "-createdAt"

type ProductFilter struct {
	Search string
	Sort   string
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx returns a repository bound to an open transaction
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate("create product", r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	products := []model.Product{}
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(code) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	q = applySort(q, ParseSort(filter.Sort, ProductSortFields, DefaultProductSort))
	if err := q.Find(&products).Error; err != nil {
		return nil, translate("find products", err)
	}
	return products, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate("find product", err)
	}
	return &product, nil
}

// FindByCode matches the normalized code, so callers may pass any case
func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", model.NormalizeCode(code)).Error; err != nil {
		return nil, translate("find product by code", err)
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, translate("find low stock products", err)
	}
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return translate("update product", r.db.WithContext(ctx).Save(product).Error)
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return translate("delete product", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock takes quantity units in a single conditional UPDATE. It
// reports false when the product is missing or holds fewer than quantity units.
func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if err := result.Error; err != nil {
		return false, translate("decrement stock", err)
	}
	return result.RowsAffected == 1, nil
}

// IncrementStock returns quantity units to the product; false means the product no longer exists
func (r *productRepo) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if err := result.Error; err != nil {
		return false, translate("increment stock", err)
	}
	return result.RowsAffected == 1, nil
}
