package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
)

// Error kinds. Every error returned by the services matches at most one of
// them with errors.Is; anything else is an internal failure.
var (
	ErrValidation      = validators.ErrValidation
	ErrUniqueness      = store.ErrUniqueness
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrDenied          = errors.New("denied")
	ErrNotFound        = errors.New("not found")

	// ErrCredential is the hashing-primitive failure. The services never
	// return it; they fold it into a mismatch or a validation error.
	ErrCredential = crypto.ErrCredential
)

type (
	ValidationError = validators.ValidationError
	UniquenessError = store.UniquenessError
)

// Authentication failure reasons. They are kept apart for audit logging and
// collapsed into InvalidCredentialsMessage for clients.
const (
	ReasonNoSuchAccount  = "no such account"
	ReasonBadCredentials = "bad credentials"
	ReasonNoSession      = "invalid or missing session"
)

// InvalidCredentialsMessage is the only login failure text shown to clients.
const InvalidCredentialsMessage = "invalid credentials"

// Authorization denial reasons.
const (
	ReasonNotAdmin  = "admin privileges required"
	ReasonSelf      = "cannot act on self"
	ReasonProtected = "protected account"
)

// AuthError reports a failed login or a missing, invalid or expired session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// Public is the message safe to show to an untrusted caller. Both login
// failure reasons map to the same text.
func (e *AuthError) Public() string {
	switch e.Reason {
	case ReasonNoSuchAccount, ReasonBadCredentials:
		return InvalidCredentialsMessage
	}
	return "authentication required"
}

// DeniedError reports an authorization failure.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("denied: %s", e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}

func newAuthError(reason string) error {
	return &AuthError{Reason: reason}
}

func newDeniedError(reason string) error {
	return &DeniedError{Reason: reason}
}
