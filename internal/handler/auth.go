package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/observability/metrics"
	"github.com/dukapos/dukapos/internal/security/ratelimit"
	"github.com/dukapos/dukapos/internal/service"
)

const (
	loginAttemptsPerWindow = 10
	loginAttemptWindow     = time.Minute
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	limiter     *ratelimit.Limiter
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, limiter *ratelimit.Limiter, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		logger:      logger,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode register request",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	result, err := h.authService.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		metrics.ObserveAuthAttempt("register", "failure")
		h.logger.Info("registration rejected",
			slog.String("username", req.Username),
			slog.String("reason", err.Error()),
		)
		writeServiceError(w, err)
		return
	}

	metrics.ObserveAuthAttempt("register", "success")
	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Strict per-client budget; slows credential stuffing without touching
	// the generic per-user limiter.
	if h.limiter != nil && !h.limiter.AllowStrict(clientAddr(r), loginAttemptsPerWindow, loginAttemptWindow) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode login request",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.ObserveAuthAttempt("login", "failure")
		writeServiceError(w, err)
		return
	}

	metrics.ObserveAuthAttempt("login", "success")
	writeJSON(w, http.StatusOK, result)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
