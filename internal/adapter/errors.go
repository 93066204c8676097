package adapter

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-blog-auth/internal/service"
)

// ErrUnexpectedStatus is the kind of any error response the service layer
// has no kind for.
var ErrUnexpectedStatus = errors.New("unexpected status")

// APIError is an error response of the API.
type APIError struct {
	StatusCode int
	Message    string
	// Field is set for validation and uniqueness failures.
	Field string

	kind error
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("http %d: %s (field %s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Is matches the service error kind of the response status.
func (e *APIError) Is(target error) bool {
	return target == e.kind
}

var statusKinds = map[int]error{
	400: service.ErrValidation,
	401: service.ErrUnauthenticated,
	403: service.ErrDenied,
	404: service.ErrNotFound,
	409: service.ErrUniqueness,
}
