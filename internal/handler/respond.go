package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps domain and validation errors onto HTTP statuses.
// Anything unrecognized is a storage failure and must not leak internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrItemHasSales):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, service.ErrFieldsRequired),
		errors.Is(err, service.ErrUsernameTooShort),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrUsernameInvalid),
		errors.Is(err, service.ErrUnknownRole),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrNegativeStock):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "storage failure")
	}
}
