package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukapos/dukapos/internal/service"
	"github.com/dukapos/dukapos/internal/settings"
)

// ReportsHandler handles read-only report endpoints
type ReportsHandler struct {
	reportService *service.ReportService
	settingsStore *settings.Store
	logger        *slog.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(reportService *service.ReportService, settingsStore *settings.Store, logger *slog.Logger) *ReportsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportsHandler{
		reportService: reportService,
		settingsStore: settingsStore,
		logger:        logger,
	}
}

// SummaryResponse wraps the summary with the display currency from settings
type SummaryResponse struct {
	TotalSales   int64   `json:"totalSales"`
	TotalRevenue float64 `json:"totalRevenue"`
	AverageSale  float64 `json:"averageSale"`
	Currency     string  `json:"currency"`
}

func rangeFromQuery(r *http.Request) service.DateRange {
	q := r.URL.Query()
	return service.DateRange{
		Period: q.Get("period"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
}

// Summary handles GET /api/reports/summary
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.SalesSummary(r.Context(), rangeFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	currency := settings.Defaults().Currency
	if h.settingsStore != nil {
		currency = h.settingsStore.Get(r.Context()).Currency
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		TotalSales:   summary.TotalSales,
		TotalRevenue: summary.TotalRevenue,
		AverageSale:  summary.AverageSale,
		Currency:     currency,
	})
}

// Detailed handles GET /api/reports/detailed
func (h *ReportsHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	totals, err := h.reportService.DetailedReport(r.Context(), rangeFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}
