package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukapos/dukapos/internal/domain"
)

// Postgres folds unquoted identifiers to lower case, so itemId/createdAt in
// DDL and queries resolve to the same columns.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL CHECK (name <> ''),
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		price NUMERIC(12,2) NOT NULL CHECK (price > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		itemId BIGINT NOT NULL REFERENCES inventory(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		amount NUMERIC(12,2) NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (date)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_item ON sales (itemId)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		createdAt TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Initialize creates the schema if absent and seeds the default
// administrator account when no users exist. Idempotent; safe to call on
// every process start. Any failure here is fatal to startup.
func Initialize(ctx context.Context, db *sql.DB, adminUsername, adminPassword string, bcryptCost int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return SeedDefaultAdmin(ctx, NewPostgresUserRepository(db, logger), adminUsername, adminPassword, bcryptCost, logger)
}

// SeedDefaultAdmin creates the default administrator when the users table is
// empty. A populated table seeds nothing, so repeated startups never
// duplicate the account.
func SeedDefaultAdmin(ctx context.Context, users domain.UserRepository, username, password string, bcryptCost int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	logger.Info("seeded default administrator account",
		slog.String("username", username),
	)
	return nil
}
