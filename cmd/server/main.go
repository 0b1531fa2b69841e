package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dukapos/dukapos/internal/handler"
	"github.com/dukapos/dukapos/internal/infrastructure/logger"
	redisinfra "github.com/dukapos/dukapos/internal/infrastructure/redis"
	"github.com/dukapos/dukapos/internal/observability/metrics"
	"github.com/dukapos/dukapos/internal/observability/tracing"
	"github.com/dukapos/dukapos/internal/reliability/retry"
	"github.com/dukapos/dukapos/internal/repository"
	"github.com/dukapos/dukapos/internal/security"
	"github.com/dukapos/dukapos/internal/security/audit"
	"github.com/dukapos/dukapos/internal/security/auth"
	"github.com/dukapos/dukapos/internal/security/middleware"
	"github.com/dukapos/dukapos/internal/security/ratelimit"
	"github.com/dukapos/dukapos/internal/service"
	"github.com/dukapos/dukapos/internal/settings"
	"github.com/dukapos/dukapos/internal/worker"
	"github.com/dukapos/dukapos/pkg/cache"
	"github.com/dukapos/dukapos/pkg/config"
	"github.com/dukapos/dukapos/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting dukapos server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, "dukapos", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to PostgreSQL; startup is the one place connections retry
	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect database",
		func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, &database.Config{
				Host:     cfg.Database.Host,
				Port:     cfg.Database.Port,
				User:     cfg.Database.User,
				Password: cfg.Database.Password,
				Database: cfg.Database.Database,
				SSLMode:  cfg.Database.SSLMode,
			}, log)
		})
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	// 5. Create schema and seed the default admin; fatal on failure
	if err := repository.Initialize(ctx, db, cfg.DefaultAdminUser, cfg.DefaultAdminPass, cfg.BcryptCost, log); err != nil {
		log.Error("failed to initialize schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Connect to Redis for the settings blob; the settings store
	// degrades to defaults when Redis is unavailable
	redisClient, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect redis",
		func(ctx context.Context) (*redisinfra.Client, error) {
			return redisinfra.NewClient(cfg.RedisURL)
		})
	if err != nil {
		log.Warn("redis unavailable, settings fall back to defaults",
			slog.String("error", err.Error()),
		)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// 7. Initialize repositories
	userRepo := repository.NewPostgresUserRepository(db, log)
	itemRepo := repository.NewPostgresItemRepository(db, log)
	saleRepo := repository.NewPostgresSaleRepository(db, log)
	reportRepo := repository.NewPostgresReportRepository(db, log)

	// 8. Initialize services
	reportCache := cache.New()
	settingsStore := settings.NewStore(redisClient, log)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "dukapos")
	authService := service.NewAuthService(userRepo, tokenManager, cfg.BcryptCost, log)
	inventoryService := service.NewInventoryService(itemRepo, log)
	saleService := service.NewSaleService(saleRepo, reportCache, log)
	reportService := service.NewReportService(reportRepo, itemRepo, reportCache, log)

	// 9. Initialize security components
	rateLimiter := ratelimit.NewLimiter(100, time.Minute)
	auditLogger := audit.NewLogger(log)
	authorizer := security.NewAuthorizationService(log)

	// 10. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, rateLimiter, log)
	itemsHandler := handler.NewItemsHandler(inventoryService, reportService, settingsStore, log)
	salesHandler := handler.NewSalesHandler(saleService, auditLogger, log)
	reportsHandler := handler.NewReportsHandler(reportService, settingsStore, log)
	settingsHandler := handler.NewSettingsHandler(settingsStore, authorizer, log)
	adminHandler := handler.NewAdminHandler(saleService, authorizer, auditLogger, log)

	// 11. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("POST /api/items/{id}/restock", itemsHandler.Restock)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("GET /api/items/low-stock", itemsHandler.LowStock)
	mux.HandleFunc("POST /api/sales", salesHandler.Record)
	mux.HandleFunc("GET /api/sales", salesHandler.List)
	mux.HandleFunc("GET /api/reports/summary", reportsHandler.Summary)
	mux.HandleFunc("GET /api/reports/detailed", reportsHandler.Detailed)
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings", settingsHandler.Put)
	mux.HandleFunc("POST /api/admin/reset", adminHandler.Reset)
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz(db))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Chain middleware: request ID -> metrics -> CORS -> JWT -> rate limit
	// -> audit -> content type -> mux. CORS sits outside auth so preflights
	// answer before the token check.
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.CORS(cfg.CORSAllowedOrigins)(
				middleware.JWTMiddleware(tokenManager, log)(
					middleware.RateLimitMiddleware(rateLimiter, log)(
						middleware.AuditMiddleware(auditLogger)(
							middleware.ValidateJSONContentType(log)(mux),
						),
					),
				),
			),
		),
		log,
	)

	// 12. Start low-stock worker in background
	lowStockWorker := worker.NewLowStockWorker(itemRepo, settingsStore, log, cfg.LowStockInterval)
	go lowStockWorker.Start(ctx)

	// 13. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "dukapos"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop low-stock worker
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
