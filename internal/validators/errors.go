package validators

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned when Validate receives a value it has no
	// rules for.
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrValidation is the kind sentinel matched by every *ValidationError.
	ErrValidation = errors.New("validation error")
)

// ValidationError reports one malformed or missing input field. Field uses
// the JSON name of the field ("phoneNumber", not "PhoneNumber").
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
