package domain

import "errors"

// Sentinel errors for business-rule violations. Repositories and services
// return these so callers can distinguish every failure outcome; anything
// else bubbling up from the storage layer is a storage failure.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemHasSales      = errors.New("item has recorded sales")

	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidDateRange = errors.New("invalid date range")
)
