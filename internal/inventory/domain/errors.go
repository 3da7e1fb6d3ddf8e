package domain

import "errors"

// Error kinds returned by the inventory use cases. Callers discriminate with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrPersistence       = errors.New("persistence failure")
)

// ValidationError carries the offending field so forms can highlight it
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
