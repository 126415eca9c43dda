package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error categories. Every error returned by a service matches exactly one of
// these with errors.Is, or is an unexpected store failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrPermissionDenied   = errors.New("resource not found or access denied")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
)

func validationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

func notFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// notFoundOr maps a missing record to sentinel and wraps anything else.
func notFoundOr(err error, sentinel error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
