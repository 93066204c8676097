package store

import (
	"context"

	"github.com/MKhiriev/go-blog-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/repositories_mock.go -package=mock

// UserRepository is the identity store. It exclusively owns user records and
// enforces the uniqueness invariant: username and email are unique
// case-insensitively, phone number exactly.
//
// Lookups report absence as (models.User{}, false, nil). Mutations are
// serialized per repository.
type UserRepository interface {
	// Create validates email and phone shape, rejects collisions with a
	// *UniquenessError naming the field, and persists the user. An empty ID
	// is replaced by a fresh one; a zero CreatedAt is set to now.
	Create(ctx context.Context, candidate models.User) (models.User, error)

	FindByID(ctx context.Context, id string) (models.User, bool, error)
	FindByUsername(ctx context.Context, username string) (models.User, bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, bool, error)
	FindByPhone(ctx context.Context, phone string) (models.User, bool, error)

	// Update applies the non-nil fields of upd to the user with id. The
	// record itself is excluded from the collision check. Returns
	// ErrUserNotFound when id is absent.
	Update(ctx context.Context, id string, upd models.UserUpdate) (models.User, error)

	// Delete removes the user and reports whether it existed. Sessions are
	// not touched.
	Delete(ctx context.Context, id string) (bool, error)

	// SetAdminFlag sets the privilege flag and reports whether the user
	// existed.
	SetAdminFlag(ctx context.Context, id string, value bool) (bool, error)

	// List returns every user ordered by creation time, then id. Password
	// hashes are included.
	List(ctx context.Context) ([]models.User, error)

	// Load replaces the repository contents with users.
	Load(ctx context.Context, users []models.User) error
}

// SessionRepository is the session registry. It exclusively owns session
// records; tokens are opaque and resolve to at most one session.
type SessionRepository interface {
	// Issue creates a session for userID under a fresh, never-issued token.
	Issue(ctx context.Context, userID string) (models.Session, error)

	// Resolve looks up token. Unknown and expired tokens report false; an
	// expired session is deleted on the way.
	Resolve(ctx context.Context, token string) (models.Session, bool, error)

	// Revoke deletes the session of token and reports whether it existed.
	Revoke(ctx context.Context, token string) (bool, error)

	// RevokeAllForUser deletes every session of userID and returns how many
	// there were.
	RevokeAllForUser(ctx context.Context, userID string) (int, error)

	// List returns every live session keyed by token hash.
	List(ctx context.Context) ([]models.StoredSession, error)

	// Load replaces the registry contents with sessions.
	Load(ctx context.Context, sessions []models.StoredSession) error
}

// IDGenerator produces identifiers for new users.
type IDGenerator interface {
	Generate() string
}

// TokenGenerator produces opaque session tokens.
type TokenGenerator func() (string, error)
