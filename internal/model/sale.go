package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "Pending"
	SaleCompleted SaleStatus = "Completed"
	SaleCancelled SaleStatus = "Cancelled"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SalePending, SaleCompleted, SaleCancelled:
		return true
	}
	return false
}

type Sale struct {
	BaseModel
	Date         time.Time  `gorm:"not null;index" json:"date"`
	Seller       string     `gorm:"type:varchar(255);not null;index" json:"seller"`
	Buyer        string     `gorm:"type:varchar(255);not null" json:"buyer"`
	Status       SaleStatus `gorm:"type:varchar(20);not null;default:Pending;index" json:"status"`
	IssueInvoice bool       `gorm:"not null;default:false" json:"issueInvoice"`
	Total        float64    `gorm:"not null;default:0" json:"total"`

	Lines []SaleLine `gorm:"foreignKey:SaleID" json:"lines"`
}

// SaleLine is one product entry of a sale. ProductName is captured when the
// sale is created and is not updated when the product is later renamed.
type SaleLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null" json:"-"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unitPrice"`
	Subtotal    float64   `gorm:"not null" json:"subtotal"`

	// Resolved for display only, nil once the product has been deleted
	Product *LineProduct `gorm:"foreignKey:ProductID" json:"product"`
}

func (l *SaleLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// Recalculate derives every line subtotal and the sale total
func (s *Sale) Recalculate() {
	var total float64
	for i := range s.Lines {
		s.Lines[i].Position = i
		s.Lines[i].Subtotal = float64(s.Lines[i].Quantity) * s.Lines[i].UnitPrice
		total += s.Lines[i].Subtotal
	}
	s.Total = total
}

// BeforeSave keeps subtotals and total consistent on every write that carries the lines
func (s *Sale) BeforeSave(tx *gorm.DB) (err error) {
	if len(s.Lines) > 0 {
		s.Recalculate()
	}
	return
}

// SaleStatistics aggregates sale counts and completed revenue
type SaleStatistics struct {
	TotalSales     int64   `json:"totalSales"`
	PendingSales   int64   `json:"pendingSales"`
	CompletedSales int64   `json:"completedSales"`
	TotalRevenue   float64 `json:"totalRevenue"`
}
