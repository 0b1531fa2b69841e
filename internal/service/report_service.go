package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/featureflags"
	"github.com/dukapos/dukapos/pkg/cache"
)

// DefaultLowStockThreshold applies when the caller supplies no threshold
const DefaultLowStockThreshold = 5

const reportCacheTTL = 30 * time.Second

// Period selectors for predefined report ranges
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// DateRange selects a reporting window: either a predefined period or an
// explicit start/end date pair (YYYY-MM-DD, both inclusive).
type DateRange struct {
	Period string
	Start  string
	End    string
}

// Resolve turns the range into a half-open [start, end) timestamp pair.
// Explicit dates must be well-formed with start <= end; violations return
// domain.ErrInvalidDateRange so callers can surface them apart from storage
// failures.
func (r DateRange) Resolve(now time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch r.Period {
	case PeriodToday:
		return midnight, midnight.AddDate(0, 0, 1), nil
	case PeriodWeek:
		// Last 7 calendar days including today.
		return midnight.AddDate(0, 0, -6), midnight.AddDate(0, 0, 1), nil
	case PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), nil
	case "":
		start, err := time.ParseInLocation("2006-01-02", r.Start, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", domain.ErrInvalidDateRange, r.Start)
		}
		end, err := time.ParseInLocation("2006-01-02", r.End, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", domain.ErrInvalidDateRange, r.End)
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start after end", domain.ErrInvalidDateRange)
		}
		return start, end.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidDateRange, r.Period)
	}
}

// ReportService is the read-only aggregation surface for dashboards. It
// never mutates state.
type ReportService struct {
	reportRepo  domain.ReportRepository
	itemRepo    domain.ItemRepository
	reportCache *cache.Cache
	logger      *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo domain.ReportRepository,
	itemRepo domain.ItemRepository,
	reportCache *cache.Cache,
	logger *slog.Logger,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportService{
		reportRepo:  reportRepo,
		itemRepo:    itemRepo,
		reportCache: reportCache,
		logger:      logger,
	}
}

// SalesSummary returns count, revenue and average sale over the range. A
// range with zero sales yields an average of zero, not an error.
func (s *ReportService) SalesSummary(ctx context.Context, rng DateRange) (*domain.Summary, error) {
	start, end, err := rng.Resolve(time.Now())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:summary:%d:%d", start.Unix(), end.Unix())
	if cached, ok := s.cacheGet(key); ok {
		return cached.(*domain.Summary), nil
	}

	summary, err := s.reportRepo.Summary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if summary.TotalSales > 0 {
		summary.AverageSale = summary.TotalRevenue / float64(summary.TotalSales)
	}

	s.cacheSet(key, summary)
	return summary, nil
}

// DetailedReport returns per-item totals over the range, ordered by total
// amount descending
func (s *ReportService) DetailedReport(ctx context.Context, rng DateRange) ([]*domain.ItemTotals, error) {
	start, end, err := rng.Resolve(time.Now())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:detailed:%d:%d", start.Unix(), end.Unix())
	if cached, ok := s.cacheGet(key); ok {
		return cached.([]*domain.ItemTotals), nil
	}

	totals, err := s.reportRepo.Detailed(ctx, start, end)
	if err != nil {
		return nil, err
	}

	s.cacheSet(key, totals)
	return totals, nil
}

// LowStock returns items at or below the threshold, ascending by quantity.
// A negative threshold means the caller supplied none and falls back to the
// documented default of 5; zero is honored and lists only out-of-stock items.
func (s *ReportService) LowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	return s.itemRepo.LowStock(ctx, threshold)
}

func (s *ReportService) cacheGet(key string) (interface{}, bool) {
	if s.reportCache == nil || !featureflags.Enabled("report_cache") {
		return nil, false
	}
	return s.reportCache.Get(key)
}

func (s *ReportService) cacheSet(key string, value interface{}) {
	if s.reportCache == nil || !featureflags.Enabled("report_cache") {
		return
	}
	s.reportCache.Set(key, value, reportCacheTTL)
}
