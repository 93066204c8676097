// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// UserResponse wraps a single user. User is nil when no one is logged in.
type UserResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`

	// Field names the offending field for validation and uniqueness errors.
	Field string `json:"field,omitempty"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
}

// UserListResponse is an unpaged list of users.
type UserListResponse struct {
	Users []User `json:"users"`
}

// DeleteUserResponse acknowledges an admin deletion.
type DeleteUserResponse struct {
	Message       string `json:"message"`
	DeletedUserID string `json:"deletedUserId"`
}

// RevokedSessionsResponse reports how many sessions were revoked.
type RevokedSessionsResponse struct {
	Message string `json:"message"`
	Revoked int    `json:"revoked"`
}
