package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukapos/dukapos/internal/security/audit"
	"github.com/dukapos/dukapos/internal/security/middleware"
	"github.com/dukapos/dukapos/internal/service"
)

// SalesHandler handles sale recording and listing
type SalesHandler struct {
	saleService *service.SaleService
	auditLogger *audit.Logger
	logger      *slog.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(saleService *service.SaleService, auditLogger *audit.Logger, logger *slog.Logger) *SalesHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SalesHandler{
		saleService: saleService,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// RecordSaleRequest represents a sale request
type RecordSaleRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// Record handles POST /api/sales
func (h *SalesHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	sale, err := h.saleService.RecordSale(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.auditLogger != nil {
		username := ""
		if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
			username = claims.Username
		}
		h.auditLogger.LogSale(r.Context(), username, strconv.FormatInt(sale.ID, 10), "completed", "")
	}

	writeJSON(w, http.StatusCreated, sale)
}

// List handles GET /api/sales
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	sales, err := h.saleService.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list sales", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sales)
}
