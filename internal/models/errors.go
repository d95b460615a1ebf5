package models

import "errors"

// Error kinds returned by the marketplace. Callers wrap them with detail and
// classify with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrAuthentication    = errors.New("invalid credentials")
	ErrAuthorization     = errors.New("not authorized")
	ErrEmptyCart         = errors.New("cart is empty")
)
