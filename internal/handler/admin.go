package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/security"
	"github.com/dukapos/dukapos/internal/security/audit"
	"github.com/dukapos/dukapos/internal/security/middleware"
	"github.com/dukapos/dukapos/internal/service"
)

// AdminHandler handles destructive administrative operations
type AdminHandler struct {
	saleService *service.SaleService
	authorizer  *security.AuthorizationService
	auditLogger *audit.Logger
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	saleService *service.SaleService,
	authorizer *security.AuthorizationService,
	auditLogger *audit.Logger,
	logger *slog.Logger,
) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AdminHandler{
		saleService: saleService,
		authorizer:  authorizer,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// Reset handles POST /api/admin/reset. The operation is unconditional once
// authorized; any confirmation dialog belongs to the client.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.authorizer.ValidatePermission(domain.Role(claims.Role), security.PermFactoryReset); err != nil {
		h.auditLogger.LogDenied(r.Context(), claims.Username, "factory_reset")
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	if err := h.saleService.ResetAll(r.Context()); err != nil {
		h.auditLogger.LogReset(r.Context(), claims.Username, "failed", err.Error())
		writeServiceError(w, err)
		return
	}

	h.auditLogger.LogReset(r.Context(), claims.Username, "completed", "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "factory reset completed"})
}
