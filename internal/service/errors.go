package service

import (
	"errors"

	"minitemu/internal/models"
)

// errorReason maps an error kind to a metric label
func errorReason(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, models.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, models.ErrAuthentication):
		return "authentication"
	case errors.Is(err, models.ErrAuthorization):
		return "authorization"
	case errors.Is(err, models.ErrEmptyCart):
		return "empty_cart"
	default:
		return "internal"
	}
}

// IsUserError reports whether err is one of the recoverable marketplace error kinds
func IsUserError(err error) bool {
	for _, kind := range []error{
		models.ErrValidation, models.ErrNotFound, models.ErrInsufficientStock,
		models.ErrDuplicateUsername, models.ErrAuthentication, models.ErrAuthorization,
		models.ErrEmptyCart,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
