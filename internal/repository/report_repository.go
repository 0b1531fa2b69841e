package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukapos/dukapos/internal/domain"
)

// PostgresReportRepository implements domain.ReportRepository using PostgreSQL
type PostgresReportRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresReportRepository creates a new report repository
func NewPostgresReportRepository(db *sql.DB, logger *slog.Logger) *PostgresReportRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReportRepository{
		db:     db,
		logger: logger,
	}
}

// Summary returns sale count and revenue for date >= start AND date < end.
// The average is computed by the caller so the zero-sales case stays a
// plain zero rather than a division error.
func (r *PostgresReportRepository) Summary(ctx context.Context, start, end time.Time) (*domain.Summary, error) {
	summary := &domain.Summary{}

	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM sales
		WHERE date >= $1 AND date < $2
	`

	err := r.db.QueryRowContext(ctx, query, start, end).Scan(
		&summary.TotalSales,
		&summary.TotalRevenue,
	)
	if err != nil {
		r.logger.Error("failed to query sales summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}

	return summary, nil
}

// Detailed returns per-item totals for the range, ordered by total amount
// descending
func (r *PostgresReportRepository) Detailed(ctx context.Context, start, end time.Time) ([]*domain.ItemTotals, error) {
	query := `
		SELECT i.name, SUM(s.quantity), SUM(s.amount)
		FROM sales s
		JOIN inventory i ON i.id = s.itemId
		WHERE s.date >= $1 AND s.date < $2
		GROUP BY i.name
		ORDER BY SUM(s.amount) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		r.logger.Error("failed to query detailed report", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query detailed report: %w", err)
	}
	defer rows.Close()

	var totals []*domain.ItemTotals
	for rows.Next() {
		row := &domain.ItemTotals{}
		if err := rows.Scan(&row.ItemName, &row.QuantitySold, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		totals = append(totals, row)
	}

	return totals, rows.Err()
}
