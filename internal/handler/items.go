package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukapos/dukapos/internal/service"
	"github.com/dukapos/dukapos/internal/settings"
)

// ItemsHandler handles inventory endpoints
type ItemsHandler struct {
	inventoryService *service.InventoryService
	reportService    *service.ReportService
	settingsStore    *settings.Store
	logger           *slog.Logger
}

// NewItemsHandler creates a new inventory handler
func NewItemsHandler(
	inventoryService *service.InventoryService,
	reportService *service.ReportService,
	settingsStore *settings.Store,
	logger *slog.Logger,
) *ItemsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ItemsHandler{
		inventoryService: inventoryService,
		reportService:    reportService,
		settingsStore:    settingsStore,
		logger:           logger,
	}
}

// AddItemRequest represents an add-item request
type AddItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// RestockRequest represents a restock request
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// List handles GET /api/items
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListItems(r.Context())
	if err != nil {
		h.logger.Error("failed to list items", slog.String("error", err.Error()))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/items
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	item, err := h.inventoryService.AddItem(r.Context(), req.Name, req.Quantity, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Restock handles POST /api/items/{id}/restock
func (h *ItemsHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.inventoryService.Restock(r.Context(), id, req.Quantity); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item restocked"})
}

// Delete handles DELETE /api/items/{id}
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.inventoryService.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// LowStock handles GET /api/items/low-stock. The threshold comes from the
// query string, then the settings blob, then the documented default.
func (h *ItemsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := -1
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = n
	} else if h.settingsStore != nil {
		threshold = h.settingsStore.Get(r.Context()).LowStockThreshold
	}

	items, err := h.reportService.LowStock(r.Context(), threshold)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
