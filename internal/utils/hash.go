// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the amount of randomness in a session token. Tokens are
// hex-encoded, so their string form is twice as long.
const TokenBytes = 32

// GenerateToken returns a fresh opaque session token: TokenBytes bytes read
// from crypto/rand, hex-encoded.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating session token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a session token.
// Durable session backends and snapshots key records by this digest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
