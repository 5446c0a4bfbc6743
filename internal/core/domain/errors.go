package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid request")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemUnavailable   = errors.New("item unavailable")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// ValidationError carries a caller-facing message. It matches ErrValidation
// under errors.Is so handlers can classify it without string inspection.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds a caller-facing validation error.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

var businessErrors = []error{
	ErrValidation,
	ErrUnauthenticated,
	ErrForbidden,
	ErrNotFound,
	ErrInsufficientStock,
	ErrItemUnavailable,
}

// StoreError passes business errors through unchanged and classifies
// everything else as a store failure, so a driver error never leaks its
// detail past the transaction boundary.
func StoreError(err error) error {
	for _, kind := range businessErrors {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
