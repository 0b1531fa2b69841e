package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/security"
	"github.com/dukapos/dukapos/internal/security/middleware"
	"github.com/dukapos/dukapos/internal/settings"
)

// SettingsHandler reads and writes the settings blob
type SettingsHandler struct {
	store      *settings.Store
	authorizer *security.AuthorizationService
	logger     *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store *settings.Store, authorizer *security.AuthorizationService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsHandler{
		store:      store,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Get(r.Context()))
}

// Put handles PUT /api/settings; admin only
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.authorizer.ValidatePermission(domain.Role(claims.Role), security.PermManageSettings); err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	var req settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.store.Put(r.Context(), req); err != nil {
		h.logger.Error("failed to store settings", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store settings")
		return
	}

	writeJSON(w, http.StatusOK, req)
}
