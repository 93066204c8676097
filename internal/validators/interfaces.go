// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides abstractions for input validation and
// enforcement of account field rules across the application.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - ValidationError: the typed failure naming the offending field.
//   - Shape helpers (IsEmailShape, IsPhone10) shared by the identity store,
//     which enforces the same shapes independently of any transport.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named struct fields.
	Validate(context.Context, any, ...string) error
}
