package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-sales-inventory/internal/model"
	"go-sales-inventory/internal/repository"
	"go-sales-inventory/internal/ws"
	"go-sales-inventory/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultLowStockThreshold = 10

type CreateProductRequest struct {
	Code     string     `json:"code" validate:"required,notblank,max=50"`
	Name     string     `json:"name" validate:"required,notblank,max=255"`
	Unit     model.Unit `json:"unit" validate:"omitempty,oneof=Unit Kilogram Liter Meter Box Package"`
	Stock    int        `json:"stock" validate:"min=0"`
	Price    *float64   `json:"price" validate:"required,min=0"`
	Supplier string     `json:"supplier" validate:"required,notblank,max=255"`
}

// UpdateProductRequest carries only the fields being changed
type UpdateProductRequest struct {
	Code     *string     `json:"code" validate:"omitempty,notblank,max=50"`
	Name     *string     `json:"name" validate:"omitempty,notblank,max=255"`
	Unit     *model.Unit `json:"unit" validate:"omitempty,oneof=Unit Kilogram Liter Meter Box Package"`
	Stock    *int        `json:"stock" validate:"omitempty,min=0"`
	Price    *float64    `json:"price" validate:"omitempty,min=0"`
	Supplier *string     `json:"supplier" validate:"omitempty,notblank,max=255"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	ListProducts(ctx context.Context, search, sort string) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(validator.Describe(errs))
	}
	return nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	code := model.NormalizeCode(req.Code)
	existing, err := s.productRepo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a product with code %s already exists", ErrDuplicateKey, code)
	}

	unit := req.Unit
	if unit == "" {
		unit = model.UnitEach
	}
	product := &model.Product{
		Code:     code,
		Name:     strings.TrimSpace(req.Name),
		Unit:     unit,
		Stock:    req.Stock,
		Price:    *req.Price,
		Supplier: strings.TrimSpace(req.Supplier),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, mapRepoErr(err, "product")
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    product,
		Message: fmt.Sprintf("product '%s' created with %d in stock", product.Name, product.Stock),
	})
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, search, sort string) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, repository.ProductFilter{
		Search: strings.TrimSpace(search),
		Sort:   sort,
	})
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	return product, mapRepoErr(err, "product")
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *model.Product
	var oldStock int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, "product")
		}
		oldStock = existing.Stock

		if req.Code != nil {
			code := model.NormalizeCode(*req.Code)
			other, err := repo.FindByCode(ctx, code)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if other != nil && other.ID != existing.ID {
				return fmt.Errorf("%w: another product already uses code %s", ErrDuplicateKey, code)
			}
			existing.Code = code
		}
		if req.Name != nil {
			existing.Name = strings.TrimSpace(*req.Name)
		}
		if req.Unit != nil {
			existing.Unit = *req.Unit
		}
		if req.Stock != nil {
			existing.Stock = *req.Stock
		}
		if req.Price != nil {
			existing.Price = *req.Price
		}
		if req.Supplier != nil {
			existing.Supplier = strings.TrimSpace(*req.Supplier)
		}

		if err := repo.Update(ctx, existing); err != nil {
			return mapRepoErr(err, "product")
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "product_updated",
		Data: map[string]interface{}{
			"product":   updated,
			"old_stock": oldStock,
			"new_stock": updated.Stock,
		},
		Message: fmt.Sprintf("product '%s' updated", updated.Name),
	})
	return updated, nil
}

// DeleteProduct removes the product even when sales still reference it; those
// lines keep their name snapshot and resolve to no product afterwards.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var deleted *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, "product")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return mapRepoErr(err, "product")
		}
		deleted = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_deleted",
		Data:    deleted,
		Message: fmt.Sprintf("product '%s' deleted", deleted.Name),
	})
	return deleted, nil
}

func (s *inventoryService) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return s.productRepo.FindLowStock(ctx, threshold)
}
