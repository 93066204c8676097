// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxPasswordBytes is the longest input bcrypt reads.
const bcryptMaxPasswordBytes = 72

// bcryptHasher is the bcrypt implementation of [PasswordHasher].
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a [PasswordHasher] backed by bcrypt with the given
// work factor. A cost outside [bcrypt.MinCost, bcrypt.MaxCost] falls back to
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash implements [PasswordHasher].
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > bcryptMaxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", ErrCredential, bcryptMaxPasswordBytes)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCredential, err)
	}

	return string(digest), nil
}

// Verify implements [PasswordHasher].
func (h *bcryptHasher) Verify(plaintext, digest string) (bool, error) {
	if len(plaintext) > bcryptMaxPasswordBytes {
		return false, fmt.Errorf("%w: password longer than %d bytes", ErrCredential, bcryptMaxPasswordBytes)
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrCredential, err)
	}
}
