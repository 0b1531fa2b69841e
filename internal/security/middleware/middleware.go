package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukapos/dukapos/internal/security/audit"
	"github.com/dukapos/dukapos/internal/security/auth"
	"github.com/dukapos/dukapos/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// isPublic reports whether a path is reachable without a session token
func isPublic(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics" ||
		strings.HasPrefix(path, "/api/auth/")
}

func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := ""
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				key = claims.Username
			}

			if !limiter.Allow(key) {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records state-changing operations before they execute
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := ""
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				username = claims.Username
			}

			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/api/sales":
				auditLog.LogSale(r.Context(), username, "", "initiated", "")
			case r.Method == http.MethodPost && r.URL.Path == "/api/admin/reset":
				auditLog.LogReset(r.Context(), username, "initiated", "")
			case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/items/"):
				// PathValue is not populated yet; the mux routes after us.
				itemID := strings.TrimPrefix(r.URL.Path, "/api/items/")
				auditLog.LogAction(r.Context(), username, "delete", "item", itemID, "initiated", "")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
