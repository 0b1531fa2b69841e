package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/pkg/cache"
)

type memReportRepo struct {
	summary  *domain.Summary
	detailed []*domain.ItemTotals
	queries  int
}

func (m *memReportRepo) Summary(_ context.Context, start, end time.Time) (*domain.Summary, error) {
	m.queries++
	return m.summary, nil
}

func (m *memReportRepo) Detailed(_ context.Context, start, end time.Time) ([]*domain.ItemTotals, error) {
	m.queries++
	return m.detailed, nil
}

// memItemRepo implements the low-stock query with real filtering and
// ordering so the contract is exercised, not just echoed.
type memItemRepo struct {
	items         []*domain.Item
	lastThreshold int
}

func (m *memItemRepo) Create(_ context.Context, item *domain.Item) error {
	item.ID = int64(len(m.items) + 1)
	m.items = append(m.items, item)
	return nil
}

func (m *memItemRepo) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *memItemRepo) List(_ context.Context) ([]*domain.Item, error) {
	return m.items, nil
}

func (m *memItemRepo) Restock(_ context.Context, id int64, quantity int) error {
	for _, it := range m.items {
		if it.ID == id {
			it.Quantity += quantity
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *memItemRepo) Delete(_ context.Context, id int64) error {
	for i, it := range m.items {
		if it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (m *memItemRepo) LowStock(_ context.Context, threshold int) ([]*domain.Item, error) {
	m.lastThreshold = threshold
	var out []*domain.Item
	for _, it := range m.items {
		if it.Quantity <= threshold {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

func TestDateRangeResolvePeriods(t *testing.T) {
	now := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name      string
		rng       DateRange
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"today",
			DateRange{Period: PeriodToday},
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"week",
			DateRange{Period: PeriodWeek},
			time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"month",
			DateRange{Period: PeriodMonth},
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"custom inclusive dates",
			DateRange{Start: "2024-01-10", End: "2024-01-20"},
			time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.rng.Resolve(now)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Fatalf("expected [%v, %v), got [%v, %v)", tt.wantStart, tt.wantEnd, start, end)
			}
		})
	}
}

func TestDateRangeResolveRejectsBadInput(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		rng  DateRange
	}{
		{"bad start date", DateRange{Start: "not-a-date", End: "2024-01-20"}},
		{"bad end date", DateRange{Start: "2024-01-10", End: "20-01-2024"}},
		{"start after end", DateRange{Start: "2024-02-01", End: "2024-01-01"}},
		{"unknown period", DateRange{Period: "fortnight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.rng.Resolve(now)
			if !errors.Is(err, domain.ErrInvalidDateRange) {
				t.Fatalf("expected ErrInvalidDateRange, got %v", err)
			}
		})
	}
}

func TestSalesSummaryComputesAverage(t *testing.T) {
	repo := &memReportRepo{summary: &domain.Summary{TotalSales: 4, TotalRevenue: 100.0}}
	s := NewReportService(repo, &memItemRepo{}, nil, nil)

	summary, err := s.SalesSummary(context.Background(), DateRange{Period: PeriodToday})
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.AverageSale != 25.0 {
		t.Fatalf("expected average 25.0, got %v", summary.AverageSale)
	}
}

func TestSalesSummaryZeroSales(t *testing.T) {
	repo := &memReportRepo{summary: &domain.Summary{}}
	s := NewReportService(repo, &memItemRepo{}, nil, nil)

	summary, err := s.SalesSummary(context.Background(), DateRange{Period: PeriodToday})
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.AverageSale != 0 {
		t.Fatalf("expected average 0 for zero sales, got %v", summary.AverageSale)
	}
}

func TestSalesSummaryInvalidRangeSkipsStorage(t *testing.T) {
	repo := &memReportRepo{summary: &domain.Summary{}}
	s := NewReportService(repo, &memItemRepo{}, nil, nil)

	_, err := s.SalesSummary(context.Background(), DateRange{Start: "bad", End: "2024-01-01"})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if repo.queries != 0 {
		t.Fatalf("expected no storage queries for invalid range, got %d", repo.queries)
	}
}

func TestSalesSummaryUsesCacheWhenEnabled(t *testing.T) {
	t.Setenv("FLAG_REPORT_CACHE", "true")

	repo := &memReportRepo{summary: &domain.Summary{TotalSales: 1, TotalRevenue: 10}}
	s := NewReportService(repo, &memItemRepo{}, cache.New(), nil)

	for i := 0; i < 3; i++ {
		if _, err := s.SalesSummary(context.Background(), DateRange{Period: PeriodToday}); err != nil {
			t.Fatalf("summary failed: %v", err)
		}
	}

	if repo.queries != 1 {
		t.Fatalf("expected 1 storage query with cache enabled, got %d", repo.queries)
	}
}

func TestLowStockDefaultThreshold(t *testing.T) {
	itemRepo := &memItemRepo{}
	s := NewReportService(&memReportRepo{}, itemRepo, nil, nil)

	if _, err := s.LowStock(context.Background(), -1); err != nil {
		t.Fatalf("low stock failed: %v", err)
	}
	if itemRepo.lastThreshold != DefaultLowStockThreshold {
		t.Fatalf("expected default threshold %d, got %d", DefaultLowStockThreshold, itemRepo.lastThreshold)
	}
}

func TestLowStockZeroThresholdHonored(t *testing.T) {
	itemRepo := &memItemRepo{items: []*domain.Item{
		{ID: 1, Name: "Soap", Quantity: 0, Price: 2},
		{ID: 2, Name: "Rice", Quantity: 3, Price: 5},
	}}
	s := NewReportService(&memReportRepo{}, itemRepo, nil, nil)

	items, err := s.LowStock(context.Background(), 0)
	if err != nil {
		t.Fatalf("low stock failed: %v", err)
	}
	if itemRepo.lastThreshold != 0 {
		t.Fatalf("explicit zero threshold was coerced to %d", itemRepo.lastThreshold)
	}
	if len(items) != 1 || items[0].Name != "Soap" {
		t.Fatalf("expected only the out-of-stock item, got %+v", items)
	}
}

func TestLowStockFiltersAndOrders(t *testing.T) {
	itemRepo := &memItemRepo{items: []*domain.Item{
		{ID: 1, Name: "Rice", Quantity: 10, Price: 5},
		{ID: 2, Name: "Soap", Quantity: 3, Price: 2},
		{ID: 3, Name: "Salt", Quantity: 5, Price: 1},
	}}
	s := NewReportService(&memReportRepo{}, itemRepo, nil, nil)

	items, err := s.LowStock(context.Background(), 5)
	if err != nil {
		t.Fatalf("low stock failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 low-stock items, got %d", len(items))
	}
	if items[0].Quantity != 3 || items[1].Quantity != 5 {
		t.Fatalf("expected quantities [3 5], got [%d %d]", items[0].Quantity, items[1].Quantity)
	}
}

func TestDetailedReportPassesThrough(t *testing.T) {
	repo := &memReportRepo{detailed: []*domain.ItemTotals{
		{ItemName: "Soap", QuantitySold: 5, TotalAmount: 250},
		{ItemName: "Rice", QuantitySold: 2, TotalAmount: 10},
	}}
	s := NewReportService(repo, &memItemRepo{}, nil, nil)

	totals, err := s.DetailedReport(context.Background(), DateRange{Period: PeriodMonth})
	if err != nil {
		t.Fatalf("detailed report failed: %v", err)
	}
	if len(totals) != 2 || totals[0].ItemName != "Soap" {
		t.Fatalf("unexpected report rows: %+v", totals)
	}
}
