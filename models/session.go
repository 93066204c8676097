// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session represents one authenticated login.
//
// Token is the opaque credential presented by the client. Durable backends
// never store it in clear; they key sessions by the SHA-256 of the token, and
// the token field of a resolved session is filled from the caller's input.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is zero when sessions do not expire.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// IsExpiredAt reports whether the session is expired at t.
func (s Session) IsExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && !t.Before(s.ExpiresAt)
}

// StoredSession is the persisted form of a session, keyed by the token hash.
type StoredSession struct {
	TokenHash string    `json:"token_hash"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// IsExpiredAt reports whether the stored session is expired at t.
func (s StoredSession) IsExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && !t.Before(s.ExpiresAt)
}

// WithToken returns the session view of s carrying the raw token.
func (s StoredSession) WithToken(token string) Session {
	return Session{
		Token:     token,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
