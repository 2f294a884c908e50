package types

import (
	"errors"
	"fmt"
)

// Record operation errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidID         = errors.New("invalid entity ID")
	ErrInvalidData       = errors.New("invalid entity data")
	ErrReferenceNotFound = errors.New("referenced entity not found")
)

// Validation failures. Each is reported wrapped in a ValidationError so that
// callers can match either the specific cause or ErrInvalidData.
var (
	ErrNameRequired          = errors.New("name is required")
	ErrPlateRequired         = errors.New("plate is required")
	ErrPlateTaken            = errors.New("plate already registered")
	ErrVehicleClientMismatch = errors.New("vehicle does not belong to client")
	ErrInvalidStatus         = errors.New("invalid status value")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrNegativeStock         = errors.New("stock must not be negative")
	ErrNegativePrice         = errors.New("price must not be negative")
	ErrInvalidYear           = errors.New("year must not be negative")
	ErrInvalidEntryDate      = errors.New("entry date must be formatted as YYYY-MM-DD")
)

// ValidationError reports a rejected field. It unwraps to both
// ErrInvalidData and the specific cause.
type ValidationError struct {
	Field string
	Err   error
}

// Invalid builds a ValidationError for field.
func Invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidData, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidData, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidData, e.Err}
}
