package crypto

import "errors"

// ErrCredential is returned when a password cannot be hashed or a digest
// cannot be parsed.
var ErrCredential = errors.New("credential error")
