package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/observability/metrics"
	"github.com/dukapos/dukapos/pkg/cache"
)

const (
	defaultSalesLimit = 50
	maxSalesLimit     = 500
)

// SaleService records sales. The sale insert and the stock decrement are the
// only multi-step write in the system; the repository applies them in one
// database transaction.
type SaleService struct {
	saleRepo    domain.SaleRepository
	reportCache *cache.Cache
	logger      *slog.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo domain.SaleRepository, reportCache *cache.Cache, logger *slog.Logger) *SaleService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SaleService{
		saleRepo:    saleRepo,
		reportCache: reportCache,
		logger:      logger,
	}
}

// RecordSale validates the request and records the sale. Quantity is checked
// before any storage access; item existence and stock level are checked
// inside the transaction against current state.
func (s *SaleService) RecordSale(ctx context.Context, itemID int64, quantity int) (*domain.Sale, error) {
	if quantity <= 0 {
		metrics.ObserveSale("invalid_quantity")
		return nil, domain.ErrInvalidQuantity
	}

	sale, err := s.saleRepo.RecordSale(ctx, itemID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			metrics.ObserveSale("item_not_found")
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.ObserveSale("insufficient_stock")
		default:
			metrics.ObserveSale("storage_failure")
			s.logger.Error("failed to record sale",
				slog.Int64("item_id", itemID),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	metrics.ObserveSale("success")
	metrics.AddRevenue(sale.Amount)
	if s.reportCache != nil {
		s.reportCache.Invalidate("report:")
	}

	s.logger.Info("sale recorded",
		slog.Int64("sale_id", sale.ID),
		slog.Int64("item_id", sale.ItemID),
		slog.Int("quantity", sale.Quantity),
		slog.Float64("amount", sale.Amount),
	)
	return sale, nil
}

// ListRecent returns recent sales, newest first
func (s *SaleService) ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	if limit <= 0 {
		limit = defaultSalesLimit
	}
	if limit > maxSalesLimit {
		limit = maxSalesLimit
	}
	return s.saleRepo.ListRecent(ctx, limit)
}

// ResetAll deletes every inventory item and sale. The service performs no
// confirmation; callers must confirm before invoking.
func (s *SaleService) ResetAll(ctx context.Context) error {
	if err := s.saleRepo.ResetAll(ctx); err != nil {
		s.logger.Error("factory reset failed", slog.String("error", err.Error()))
		return err
	}

	metrics.ObserveReset()
	if s.reportCache != nil {
		s.reportCache.Clear()
	}

	s.logger.Warn("factory reset completed")
	return nil
}
