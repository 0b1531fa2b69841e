package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukapos/dukapos/internal/domain"
)

// PostgresSaleRepository implements domain.SaleRepository using PostgreSQL
type PostgresSaleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSaleRepository creates a new sale repository
func NewPostgresSaleRepository(db *sql.DB, logger *slog.Logger) *PostgresSaleRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSaleRepository{
		db:     db,
		logger: logger,
	}
}

// RecordSale inserts a sale row and decrements the item's stock inside one
// transaction. The decrement is guarded (quantity >= sold) so a concurrent
// oversell rolls the insert back instead of driving stock negative.
func (r *PostgresSaleRepository) RecordSale(ctx context.Context, itemID int64, quantity int) (*domain.Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	var onHand int
	var price float64
	err = tx.QueryRowContext(ctx,
		`SELECT name, quantity, price FROM inventory WHERE id = $1`, itemID,
	).Scan(&name, &onHand, &price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to read item: %w", err)
	}

	if onHand < quantity {
		return nil, domain.ErrInsufficientStock
	}

	sale := &domain.Sale{
		ItemID:   itemID,
		ItemName: name,
		Quantity: quantity,
		Amount:   float64(quantity) * price,
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO sales (itemId, quantity, amount) VALUES ($1, $2, $3) RETURNING id, date`,
		sale.ItemID, sale.Quantity, sale.Amount,
	).Scan(&sale.ID, &sale.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $1`,
		quantity, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		// Stock changed between the read and the update; the deferred
		// rollback discards the sale insert.
		return nil, domain.ErrInsufficientStock
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return sale, nil
}

// ListRecent returns the most recent sales with item names, newest first
func (r *PostgresSaleRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	query := `
		SELECT s.id, s.itemId, i.name, s.quantity, s.amount, s.date
		FROM sales s
		JOIN inventory i ON i.id = s.itemId
		ORDER BY s.date DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("failed to list sales", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		sale := &domain.Sale{}
		err := rows.Scan(
			&sale.ID,
			&sale.ItemID,
			&sale.ItemName,
			&sale.Quantity,
			&sale.Amount,
			&sale.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

// ResetAll deletes all sales and inventory rows. Irreversible; callers are
// responsible for confirming before invoking.
func (r *PostgresSaleRepository) ResetAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Sales first: the itemId foreign key blocks the reverse order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to delete sales: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
		return fmt.Errorf("failed to delete inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	r.logger.Warn("all inventory and sales rows deleted")
	return nil
}
