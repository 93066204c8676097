package store

import (
	"context"
)

// rootGuard refuses to delete or demote the root admin. Every other call
// goes straight to the wrapped repository.
type rootGuard struct {
	UserRepository
	rootID string
}

// NewRootGuard wraps users so that the account rootID can be neither deleted
// nor stripped of its admin flag. An empty rootID returns users unchanged.
func NewRootGuard(users UserRepository, rootID string) UserRepository {
	if rootID == "" {
		return users
	}
	return &rootGuard{UserRepository: users, rootID: rootID}
}

func (g *rootGuard) Delete(ctx context.Context, id string) (bool, error) {
	if id == g.rootID {
		return false, ErrProtectedAccount
	}
	return g.UserRepository.Delete(ctx, id)
}

func (g *rootGuard) SetAdminFlag(ctx context.Context, id string, value bool) (bool, error) {
	if id == g.rootID && !value {
		return false, ErrProtectedAccount
	}
	return g.UserRepository.SetAdminFlag(ctx, id, value)
}
