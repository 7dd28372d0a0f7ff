package repository

import (
	"context"
	"time"

	"go-sales-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleSortFields maps accepted sort keys to columns
var SaleSortFields = map[string]string{
	"date":      "date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"total":     "total",
	"seller":    "seller",
	"buyer":     "buyer",
	"status":    "status",
}

const DefaultSaleSort = "-date"

type SaleFilter struct {
	Status   model.SaleStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     string
}

// Columns of the product projection attached to sale lines
var (
	ListProductColumns   = []string{"id", "code", "name"}
	DetailProductColumns = []string{"id", "code", "name", "unit"}
)

type SaleRepository interface {
	WithTx(tx *gorm.DB) SaleRepository
	Create(ctx context.Context, sale *model.Sale) error
	FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	FindByID(ctx context.Context, id uuid.UUID, productColumns []string) (*model.Sale, error)
	UpdateDetails(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context) (*model.SaleStatistics, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) WithTx(tx *gorm.DB) SaleRepository {
	return &saleRepo{tx}
}

// preloadLines loads lines in sale order with the requested product projection
func preloadLines(db *gorm.DB, productColumns []string) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lines.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select(productColumns)
		})
}

// Create inserts the sale and its lines; subtotals and total are derived by the model hook
func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return translate("create sale", r.db.WithContext(ctx).Create(sale).Error)
}

func (r *saleRepo) FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	sales := []model.Sale{}
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", *filter.DateTo)
	}
	q = applySort(q, ParseSort(filter.Sort, SaleSortFields, DefaultSaleSort))
	if err := preloadLines(q, ListProductColumns).Find(&sales).Error; err != nil {
		return nil, translate("find sales", err)
	}
	return sales, nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID, productColumns []string) (*model.Sale, error) {
	var sale model.Sale
	err := preloadLines(r.db.WithContext(ctx), productColumns).First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, translate("find sale", err)
	}
	return &sale, nil
}

// UpdateDetails writes the mutable sale fields. Lines are never rewritten here.
func (r *saleRepo) UpdateDetails(ctx context.Context, sale *model.Sale) error {
	result := r.db.WithContext(ctx).Model(sale).
		Select("status", "seller", "buyer", "issue_invoice", "total", "updated_at").
		Updates(sale)
	if err := result.Error; err != nil {
		return translate("update sale", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&model.SaleLine{}).Error; err != nil {
		return translate("delete sale lines", err)
	}
	result := db.Delete(&model.Sale{}, "id = ?", id)
	if err := result.Error; err != nil {
		return translate("delete sale", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepo) Statistics(ctx context.Context) (*model.SaleStatistics, error) {
	var stats model.SaleStatistics
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Sale{}).Count(&stats.TotalSales).Error; err != nil {
		return nil, translate("count sales", err)
	}
	if err := db.Model(&model.Sale{}).Where("status = ?", model.SalePending).Count(&stats.PendingSales).Error; err != nil {
		return nil, translate("count pending sales", err)
	}
	if err := db.Model(&model.Sale{}).Where("status = ?", model.SaleCompleted).Count(&stats.CompletedSales).Error; err != nil {
		return nil, translate("count completed sales", err)
	}
	err := db.Model(&model.Sale{}).
		Where("status = ?", model.SaleCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, translate("sum revenue", err)
	}
	return &stats, nil
}
