package worker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/observability/metrics"
	"github.com/dukapos/dukapos/internal/settings"
)

// LowStockWorker periodically scans inventory for items at or below the
// configured threshold and raises alerts. It only reads; restocking is a
// user action.
type LowStockWorker struct {
	itemRepository domain.ItemRepository
	settingsStore  *settings.Store
	logger         *slog.Logger
	interval       time.Duration
}

// NewLowStockWorker creates a new low-stock worker
func NewLowStockWorker(
	itemRepo domain.ItemRepository,
	settingsStore *settings.Store,
	logger *slog.Logger,
	interval time.Duration,
) *LowStockWorker {
	return &LowStockWorker{
		itemRepository: itemRepo,
		settingsStore:  settingsStore,
		logger:         logger,
		interval:       interval,
	}
}

// Start begins the scan loop; it returns when the context is cancelled
func (w *LowStockWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("low-stock worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("low-stock worker stopped")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *LowStockWorker) scan(ctx context.Context) {
	cfg := w.settingsStore.Get(ctx)

	items, err := w.itemRepository.LowStock(ctx, cfg.LowStockThreshold)
	if err != nil {
		w.logger.Error("low-stock scan failed", slog.String("error", err.Error()))
		return
	}

	metrics.SetLowStockItems(len(items))

	if len(items) == 0 || !cfg.NotifyLowStock {
		return
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	w.logger.Warn("items running low on stock",
		slog.Int("threshold", cfg.LowStockThreshold),
		slog.Int("count", len(items)),
		slog.String("items", strings.Join(names, ", ")),
	)
}
