// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a typed client for the blog auth HTTP API.
//
// [AuthClient] keeps the session cookie in its own cookie jar, so a single
// client behaves like one browser: Login starts a session and every later
// call carries it until Logout or DeleteAccount.
//
// Error responses are mapped back to the error kinds of the service layer,
// so callers can use [errors.Is] with service.ErrValidation,
// service.ErrUniqueness, service.ErrUnauthenticated, service.ErrDenied and
// service.ErrNotFound. The concrete error is an [*APIError].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-blog-auth/models"
)

// AuthClient is the account-facing part of the blog auth API.
type AuthClient interface {
	// Signup registers a new account. It does not log in.
	Signup(ctx context.Context, req models.SignupRequest) (models.User, error)

	// Login starts a session and stores the session cookie in the client.
	Login(ctx context.Context, emailOrUsername, password string) (models.User, error)

	// Me returns the logged-in user, or false when the client holds no valid
	// session.
	Me(ctx context.Context) (models.User, bool, error)

	// UpdateProfile replaces the username, email and phone number of the
	// logged-in user.
	UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (models.User, error)

	// Logout ends the current session. It succeeds without a session.
	Logout(ctx context.Context) error

	// DeleteAccount deletes the logged-in account after re-checking its
	// password.
	DeleteAccount(ctx context.Context, password string) error
}
