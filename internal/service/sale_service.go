package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"go-sales-inventory/internal/model"
	"go-sales-inventory/internal/repository"
	"go-sales-inventory/internal/ws"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const statisticsCacheKey = "sales:statistics"

type SaleLineRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	UnitPrice *float64  `json:"unitPrice" validate:"omitempty,min=0"` // defaults to the product price
}

type CreateSaleRequest struct {
	Date         *time.Time        `json:"date"`
	Seller       string            `json:"seller" validate:"required,notblank,max=255"`
	Buyer        string            `json:"buyer" validate:"required,notblank,max=255"`
	Lines        []SaleLineRequest `json:"lines" validate:"dive"`
	Status       model.SaleStatus  `json:"status" validate:"omitempty,oneof=Pending Completed Cancelled"`
	IssueInvoice *bool             `json:"issueInvoice"`
}

// UpdateSaleRequest lists the only fields a sale accepts after creation
type UpdateSaleRequest struct {
	Status       *model.SaleStatus `json:"status" validate:"omitempty,oneof=Pending Completed Cancelled"`
	Seller       *string           `json:"seller" validate:"omitempty,notblank,max=255"`
	Buyer        *string           `json:"buyer" validate:"omitempty,notblank,max=255"`
	IssueInvoice *bool             `json:"issueInvoice"`
}

type SaleListFilter struct {
	Status   model.SaleStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     string
}

// StatsCache stores the statistics snapshot between sale mutations
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

type SaleService interface {
	CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Sale, error)
	ListSales(ctx context.Context, filter SaleListFilter) ([]model.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req *UpdateSaleRequest) (*model.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	Statistics(ctx context.Context) (*model.SaleStatistics, error)
}

type saleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	cache       StatsCache
	sfGroup     singleflight.Group
	// bumped by every sale mutation before the cached statistics are dropped
	generation atomic.Uint64
}

// NewSaleService wires the sale flows. cache may be nil to always read statistics from the store.
func NewSaleService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub, cache StatsCache) SaleService {
	return &saleService{
		saleRepo:    sRepo,
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
		cache:       cache,
	}
}

type stockChange struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	NewStock  int       `json:"new_stock,omitempty"`
}

// CreateSale takes stock for every line and stores the sale in one transaction,
// so a failing line leaves every product untouched.
func (s *saleService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Sale, error) {
	if len(req.Lines) == 0 {
		return nil, validationError("a sale must include at least one product line")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}
	status := req.Status
	if status == "" {
		status = model.SalePending
	}
	issueInvoice := req.IssueInvoice != nil && *req.IssueInvoice

	sale := &model.Sale{
		Date:         date,
		Seller:       strings.TrimSpace(req.Seller),
		Buyer:        strings.TrimSpace(req.Buyer),
		Status:       status,
		IssueInvoice: issueInvoice,
		Lines:        make([]model.SaleLine, 0, len(req.Lines)),
	}
	changes := make([]stockChange, 0, len(req.Lines))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		for _, item := range req.Lines {
			product, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				return mapRepoErr(err, fmt.Sprintf("product with id %s", item.ProductID))
			}
			if !product.HasStock(item.Quantity) {
				return &InsufficientStockError{Product: product.Name, Available: product.Stock, Requested: item.Quantity}
			}

			taken, err := products.DecrementStock(ctx, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !taken {
				// stock moved between the read and the conditional update
				current, err := products.FindByID(ctx, product.ID)
				if err != nil {
					return mapRepoErr(err, fmt.Sprintf("product with id %s", item.ProductID))
				}
				return &InsufficientStockError{Product: current.Name, Available: current.Stock, Requested: item.Quantity}
			}

			unitPrice := product.Price
			if item.UnitPrice != nil {
				unitPrice = *item.UnitPrice
			}
			sale.Lines = append(sale.Lines, model.SaleLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
			})
			changes = append(changes, stockChange{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  -item.Quantity,
				NewStock:  product.Stock - item.Quantity,
			})
		}

		sale.Recalculate()
		return mapRepoErr(s.saleRepo.WithTx(tx).Create(ctx, sale), "sale")
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStatistics(ctx)
	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "sale_created",
		Data: map[string]interface{}{
			"sale_id": sale.ID,
			"total":   sale.Total,
			"changes": changes,
		},
		Message: fmt.Sprintf("%s sold %d line(s) to %s", sale.Seller, len(sale.Lines), sale.Buyer),
	})

	return s.GetSale(ctx, sale.ID)
}

func (s *saleService) ListSales(ctx context.Context, filter SaleListFilter) ([]model.Sale, error) {
	return s.saleRepo.FindAll(ctx, repository.SaleFilter{
		Status:   filter.Status,
		DateFrom: utc(filter.DateFrom),
		DateTo:   utc(filter.DateTo),
		Sort:     filter.Sort,
	})
}

// sale dates are stored in UTC, bounds must match
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id, repository.DetailProductColumns)
	return sale, mapRepoErr(err, "sale")
}

// UpdateSale changes status, seller, buyer or invoice flag. Any status may follow any other.
func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, req *UpdateSaleRequest) (*model.Sale, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *model.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.saleRepo.WithTx(tx)

		sale, err := repo.FindByID(ctx, id, repository.ListProductColumns)
		if err != nil {
			return mapRepoErr(err, "sale")
		}
		if req.Status != nil {
			sale.Status = *req.Status
		}
		if req.Seller != nil {
			sale.Seller = strings.TrimSpace(*req.Seller)
		}
		if req.Buyer != nil {
			sale.Buyer = strings.TrimSpace(*req.Buyer)
		}
		if req.IssueInvoice != nil {
			sale.IssueInvoice = *req.IssueInvoice
		}

		sale.Recalculate()
		if err := repo.UpdateDetails(ctx, sale); err != nil {
			return mapRepoErr(err, "sale")
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStatistics(ctx)
	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "sale_updated",
		Data:    map[string]interface{}{"sale_id": updated.ID, "status": updated.Status},
		Message: fmt.Sprintf("sale %s is now %s", updated.ID, updated.Status),
	})
	return updated, nil
}

// DeleteSale returns every line's quantity to its product and removes the sale.
// Lines whose product no longer exists are skipped.
func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var deleted *model.Sale
	var changes []stockChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales := s.saleRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)

		sale, err := sales.FindByID(ctx, id, repository.DetailProductColumns)
		if err != nil {
			return mapRepoErr(err, "sale")
		}

		for _, line := range sale.Lines {
			restored, err := products.IncrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !restored {
				log.Printf("sale %s: product %s no longer exists, stock not restored", sale.ID, line.ProductID)
				continue
			}
			changes = append(changes, stockChange{ProductID: line.ProductID, Name: line.ProductName, Quantity: line.Quantity})
		}

		if err := sales.Delete(ctx, sale.ID); err != nil {
			return mapRepoErr(err, "sale")
		}
		deleted = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStatistics(ctx)
	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "sale_deleted",
		Data:    map[string]interface{}{"sale_id": deleted.ID, "changes": changes},
		Message: fmt.Sprintf("sale %s deleted and stock restored", deleted.ID),
	})
	return deleted, nil
}

// Statistics reads through the cache; concurrent misses share one store query
func (s *saleService) Statistics(ctx context.Context) (*model.SaleStatistics, error) {
	if s.cache != nil {
		var cached model.SaleStatistics
		found, err := s.cache.Get(ctx, statisticsCacheKey, &cached)
		if err != nil {
			log.Printf("[sales] statistics cache error: %v", err)
		}
		if found {
			return &cached, nil
		}
	}

	// a flight started before a mutation must not be joined or cached after it
	gen := s.generation.Load()
	val, err, _ := s.sfGroup.Do(fmt.Sprintf("%s:%d", statisticsCacheKey, gen), func() (interface{}, error) {
		return s.saleRepo.Statistics(ctx)
	})
	if err != nil {
		return nil, err
	}
	stats, ok := val.(*model.SaleStatistics)
	if !ok {
		return nil, errors.New("unexpected statistics result")
	}

	if s.cache != nil && s.generation.Load() == gen {
		if err := s.cache.Set(ctx, statisticsCacheKey, stats); err != nil {
			log.Printf("[sales] failed to cache statistics: %v", err)
		}
		// a mutation between the check and the write deleted the key too early
		if s.generation.Load() != gen {
			s.dropStatistics(ctx)
		}
	}
	// callers sharing the flight must not alias one another
	copied := *stats
	return &copied, nil
}

func (s *saleService) invalidateStatistics(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	s.dropStatistics(ctx)
}

func (s *saleService) dropStatistics(ctx context.Context) {
	if err := s.cache.Delete(ctx, statisticsCacheKey); err != nil {
		log.Printf("[sales] failed to invalidate statistics cache: %v", err)
	}
}
