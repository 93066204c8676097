// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Gender is the enumerated gender of an account. It is fixed at creation
// and cannot be changed by the owning user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User represents one registered account.
//
// PasswordHash is a one-way digest produced by the credential hasher. It is
// excluded from JSON so that no external-facing representation ever carries
// it; use [User.Public] when handing a user to a transport layer.
type User struct {
	// ID is the opaque unique identifier assigned at creation. Immutable.
	ID string `json:"id"`

	// Username is unique across all users, compared case-insensitively.
	Username string `json:"username"`

	// Email is unique across all users, compared case-insensitively.
	Email string `json:"email"`

	// PhoneNumber is unique across all users, compared exactly.
	PhoneNumber string `json:"phoneNumber"`

	// Gender is set at creation and is not mutable through self-service paths.
	Gender Gender `json:"gender"`

	// PasswordHash is the derived credential. Never serialized.
	PasswordHash string `json:"-"`

	// IsAdmin is the privilege flag.
	IsAdmin bool `json:"isAdmin"`

	// CreatedAt is the creation timestamp. Immutable.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Public returns a copy of the user with the password hash cleared.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserUpdate is a partial update of a user record. Nil fields are left
// untouched.
type UserUpdate struct {
	Username    *string `json:"username,omitempty" validate:"omitnil,notblank,max=64"`
	Email       *string `json:"email,omitempty" validate:"omitnil,email_shape"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitnil,phone10"`
	Gender      *Gender `json:"gender,omitempty" validate:"omitnil,oneof=male female other"`
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.PhoneNumber == nil && u.Gender == nil
}

// Apply returns a copy of user with the non-nil fields of u applied.
func (u UserUpdate) Apply(user User) User {
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.PhoneNumber != nil {
		user.PhoneNumber = *u.PhoneNumber
	}
	if u.Gender != nil {
		user.Gender = *u.Gender
	}
	return user
}
