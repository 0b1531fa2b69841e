package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, username, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("username", username),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogSale(ctx context.Context, username, saleID, status, details string) {
	al.LogAction(ctx, username, "record_sale", "sale", saleID, status, details)
}

func (al *Logger) LogReset(ctx context.Context, username, status, details string) {
	al.LogAction(ctx, username, "factory_reset", "store", "", status, details)
}

func (al *Logger) LogDenied(ctx context.Context, username, reason string) {
	al.LogAction(ctx, username, "access_denied", "api", "", "denied", reason)
}
