package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redisinfra "github.com/dukapos/dukapos/internal/infrastructure/redis"
	"github.com/dukapos/dukapos/internal/reliability/circuitbreaker"
)

const settingsKey = "dukapos:settings"

// Store persists the settings blob in Redis. Reads degrade to the
// documented defaults behind a circuit breaker, so a Redis outage never
// fails a request that only needed a currency code or a threshold.
type Store struct {
	redis   *redisinfra.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewStore creates a settings store
func NewStore(client *redisinfra.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	breaker := circuitbreaker.New(3, 1, 30*time.Second)
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("settings store circuit state changed",
			slog.Int("from", int(from)),
			slog.Int("to", int(to)),
		)
	})

	return &Store{
		redis:   client,
		breaker: breaker,
		logger:  logger,
	}
}

// Get returns the stored settings, falling back to Defaults when the store
// is unreachable or the circuit is open
func (s *Store) Get(ctx context.Context) Settings {
	if s.redis == nil || !s.breaker.AllowRequest() {
		return Defaults()
	}

	fields, err := s.redis.HGetAll(ctx, settingsKey)
	if err != nil {
		s.breaker.RecordFailure()
		s.logger.Warn("failed to read settings, using defaults",
			slog.String("error", err.Error()),
		)
		return Defaults()
	}

	s.breaker.RecordSuccess()
	return fromMap(fields)
}

// Put overwrites the stored settings blob. Writes do not degrade; the
// caller is told when the preference change did not stick.
func (s *Store) Put(ctx context.Context, settings Settings) error {
	if s.redis == nil {
		return fmt.Errorf("settings store unavailable")
	}
	if settings.LowStockThreshold <= 0 {
		return fmt.Errorf("low stock threshold must be positive")
	}

	if err := s.redis.HSet(ctx, settingsKey, settings.toMap()); err != nil {
		s.breaker.RecordFailure()
		return fmt.Errorf("failed to store settings: %w", err)
	}

	s.breaker.RecordSuccess()
	s.logger.Info("settings updated",
		slog.String("currency", settings.Currency),
		slog.Int("low_stock_threshold", settings.LowStockThreshold),
	)
	return nil
}
