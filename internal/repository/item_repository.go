package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukapos/dukapos/internal/domain"
)

// PostgresItemRepository implements domain.ItemRepository using PostgreSQL
type PostgresItemRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresItemRepository creates a new inventory item repository
func NewPostgresItemRepository(db *sql.DB, logger *slog.Logger) *PostgresItemRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new inventory item
func (r *PostgresItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO inventory (name, quantity, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, item.Name, item.Quantity, item.Price).Scan(&item.ID)
	if err != nil {
		r.logger.Error("failed to create item",
			slog.String("name", item.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID
func (r *PostgresItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	item := &domain.Item{}

	query := `
		SELECT id, name, quantity, price
		FROM inventory
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Quantity,
		&item.Price,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// List returns all items ordered by name
func (r *PostgresItemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	query := `
		SELECT id, name, quantity, price
		FROM inventory
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Restock increments an item's on-hand quantity
func (r *PostgresItemRepository) Restock(ctx context.Context, id int64, quantity int) error {
	query := `
		UPDATE inventory
		SET quantity = quantity + $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to restock item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// Delete removes an item. Deletion is blocked while sales reference the
// item, so historical reports keep resolving item names.
func (r *PostgresItemRepository) Delete(ctx context.Context, id int64) error {
	var hasSales bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE itemId = $1)`, id,
	).Scan(&hasSales)
	if err != nil {
		return fmt.Errorf("failed to check item sales: %w", err)
	}
	if hasSales {
		return domain.ErrItemHasSales
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return nil
}

// LowStock returns all items with quantity at or below the threshold,
// ascending by quantity
func (r *PostgresItemRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	query := `
		SELECT id, name, quantity, price
		FROM inventory
		WHERE quantity <= $1
		ORDER BY quantity ASC, name
	`

	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		r.logger.Error("failed to query low stock",
			slog.Int("threshold", threshold),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
