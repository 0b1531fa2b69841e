package domain

import (
	"context"
	"time"
)

// Role is a user role from a fixed enumerated set
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a login identity
type User struct {
	ID           int64  // system-assigned
	Username     string // unique, alphanumeric + underscore
	PasswordHash string // bcrypt hash, never plaintext
	Role         Role
	CreatedAt    time.Time
}

// UserRepository defines data access for users. Create returns
// ErrUsernameTaken when the username unique constraint is violated, so the
// check-then-insert race of a naive lookup never applies.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	Count(ctx context.Context) (int64, error)
}
