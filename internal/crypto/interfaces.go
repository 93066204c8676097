package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher derives and checks one-way password digests.
//
// Implementations embed their parameters (salt, cost) in the digest itself,
// so a digest produced under one cost setting still verifies after the
// setting changes.
type PasswordHasher interface {
	// Hash produces a salted digest of plaintext. Input the algorithm cannot
	// accept (bcrypt stops at 72 bytes) fails with ErrCredential.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. The comparison is
	// constant-time. A malformed digest or unacceptable input yields
	// (false, ErrCredential); callers must treat that as a mismatch.
	Verify(plaintext, digest string) (bool, error)
}
