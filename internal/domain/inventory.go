package domain

import (
	"context"
	"time"
)

// Item represents one stocked product. Quantity never goes negative; the
// sale path enforces that at write time.
type Item struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Sale represents one completed transaction against one item. Rows are
// immutable once written; Amount is the price at the moment of sale and is
// never recomputed.
type Sale struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"itemId"`
	ItemName string    `json:"itemName,omitempty"`
	Quantity int       `json:"quantity"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

// Summary aggregates sales over a date range.
type Summary struct {
	TotalSales   int64   `json:"totalSales"`
	TotalRevenue float64 `json:"totalRevenue"`
	AverageSale  float64 `json:"averageSale"`
}

// ItemTotals is one row of the detailed report: per-item totals over a range.
type ItemTotals struct {
	ItemName     string  `json:"itemName"`
	QuantitySold int64   `json:"quantitySold"`
	TotalAmount  float64 `json:"totalAmount"`
}

// ItemRepository defines data access for inventory items
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Restock(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context, threshold int) ([]*Item, error)
}

// SaleRepository defines data access for sales. RecordSale must apply the
// sale insert and the stock decrement as a single transaction.
type SaleRepository interface {
	RecordSale(ctx context.Context, itemID int64, quantity int) (*Sale, error)
	ListRecent(ctx context.Context, limit int) ([]*Sale, error)
	ResetAll(ctx context.Context) error
}

// ReportRepository defines read-only aggregation over sales. The range is
// half-open: date >= start AND date < end.
type ReportRepository interface {
	Summary(ctx context.Context, start, end time.Time) (*Summary, error)
	Detailed(ctx context.Context, start, end time.Time) ([]*ItemTotals, error)
}
