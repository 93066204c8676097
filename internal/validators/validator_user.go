// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-blog-auth/models"
)

// Custom tag names registered on the underlying validator.
const (
	TagNotBlank   = "notblank"
	TagEmailShape = "email_shape"
	TagPhone10    = "phone10"
)

// UserValidator validates account forms (signup, login, profile and admin
// payloads) using struct tags evaluated by go-playground/validator.
type UserValidator struct {
	validate *validator.Validate
}

// NewUserValidator returns a [Validator] for account payloads with the
// notblank, email_shape and phone10 tags registered.
func NewUserValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// registration only fails on empty tags or nil funcs
	_ = v.RegisterValidation(TagNotBlank, func(fl validator.FieldLevel) bool {
		return !IsBlank(fl.Field().String())
	})
	_ = v.RegisterValidation(TagEmailShape, func(fl validator.FieldLevel) bool {
		return IsEmailShape(fl.Field().String())
	})
	_ = v.RegisterValidation(TagPhone10, func(fl validator.FieldLevel) bool {
		return IsPhone10(fl.Field().String())
	})

	return &UserValidator{validate: v}
}

// Validate implements [Validator]. obj must be one of the account payload
// types from the models package (value or pointer). When fields are given,
// only those struct fields (Go names) are checked.
//
// The first failing field is returned as a *ValidationError.
func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch obj.(type) {
	case models.SignupRequest, *models.SignupRequest,
		models.LoginRequest, *models.LoginRequest,
		models.ProfileUpdateRequest, *models.ProfileUpdateRequest,
		models.DeleteAccountRequest, *models.DeleteAccountRequest,
		models.AdminCreateUserRequest, *models.AdminCreateUserRequest,
		models.UserUpdate, *models.UserUpdate:
	default:
		return ErrUnsupportedType
	}

	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}

	return translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	fe := fieldErrs[0]
	return NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case TagNotBlank:
		return "must not be blank"
	case TagEmailShape:
		return "must be a valid email address"
	case TagPhone10:
		return "must be exactly 10 digits"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
