// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SignupRequest carries the fields required to register a new account.
// Validation tags are evaluated by the validators package.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,notblank,max=64"`
	Email       string `json:"email" validate:"required,email_shape"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone10"`
	Gender      Gender `json:"gender" validate:"required,oneof=male female other"`
	Password    string `json:"password" validate:"required,notblank,min=8,max=72"`
}

// LoginRequest carries login credentials. EmailOrUsername is treated as an
// email when it contains '@'.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required,notblank"`
	Password        string `json:"password" validate:"required,notblank"`
}

// ProfileUpdateRequest carries the three self-service mutable fields.
type ProfileUpdateRequest struct {
	Username    string `json:"username" validate:"required,notblank,max=64"`
	Email       string `json:"email" validate:"required,email_shape"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone10"`
}

// DeleteAccountRequest carries the password re-entry required to delete
// one's own account.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminCreateUserRequest is a signup performed by an administrator, who may
// grant admin privileges at creation.
type AdminCreateUserRequest struct {
	SignupRequest
	IsAdmin bool `json:"isAdmin"`
}

// UserListQuery selects a page of users for the admin panel.
type UserListQuery struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search"`
}
