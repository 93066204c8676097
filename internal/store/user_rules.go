package store

import (
	"strings"

	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/models"
)

// checkShape enforces the field shapes every stored user must satisfy,
// independently of whatever validation the caller already ran.
func checkShape(u models.User) error {
	if validators.IsBlank(u.Username) {
		return validators.NewValidationError(FieldUsername, "must not be blank")
	}
	if !validators.IsEmailShape(u.Email) {
		return validators.NewValidationError(FieldEmail, "must be a valid email address")
	}
	if !validators.IsPhone10(u.PhoneNumber) {
		return validators.NewValidationError(FieldPhoneNumber, "must be exactly 10 digits")
	}
	if !u.Gender.Valid() {
		return validators.NewValidationError("gender", "must be one of: male female other")
	}
	return nil
}

// foldKey is the comparison key of case-insensitive unique fields.
func foldKey(s string) string {
	return strings.ToLower(s)
}

// collision returns the first unique field of candidate already held by
// other, or "" when they do not collide.
func collision(candidate, other models.User) string {
	switch {
	case foldKey(candidate.Username) == foldKey(other.Username):
		return FieldUsername
	case foldKey(candidate.Email) == foldKey(other.Email):
		return FieldEmail
	case candidate.PhoneNumber == other.PhoneNumber:
		return FieldPhoneNumber
	}
	return ""
}
