// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Transport-level request errors. They never reach the service layer.
var (
	// ErrInvalidJSON is returned when the request body is not valid JSON
	// for the expected payload.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrMissingUserID is returned when an admin route lacks the {id}
	// path parameter.
	ErrMissingUserID = errors.New("user id is required")
)
