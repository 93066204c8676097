package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/models"
)

// Dependencies are the collaborators shared by the services.
type Dependencies struct {
	Users     store.UserRepository
	Sessions  store.SessionRepository
	Hasher    crypto.PasswordHasher
	Validator validators.Validator
	Cascader  ContentCascader
	Metrics   *Metrics

	// RootAdminID is the reserved id of the protected root admin.
	RootAdminID string
}

func normalizeSignup(req models.SignupRequest) models.SignupRequest {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	return req
}

func normalizeUpdate(upd models.UserUpdate) models.UserUpdate {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	upd.Username = trim(upd.Username)
	upd.Email = trim(upd.Email)
	upd.PhoneNumber = trim(upd.PhoneNumber)
	return upd
}

// hashPassword derives the stored digest. Input the hasher cannot accept is
// reported against the password field.
func (d Dependencies) hashPassword(plaintext string) (string, error) {
	digest, err := d.Hasher.Hash(plaintext)
	if errors.Is(err, ErrCredential) {
		return "", validators.NewValidationError("password", "is too long")
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return digest, nil
}

// verifyPassword reports whether plaintext matches digest. Hasher failures
// count as a mismatch.
func (d Dependencies) verifyPassword(ctx context.Context, plaintext, digest string) bool {
	ok, err := d.Hasher.Verify(plaintext, digest)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("password verification failed")
		return false
	}
	return ok
}

// createAccount validates req, hashes its password and stores the user.
func (d Dependencies) createAccount(ctx context.Context, req models.SignupRequest, isAdmin bool) (models.User, error) {
	req = normalizeSignup(req)
	if err := d.Validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	digest, err := d.hashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	created, err := d.Users.Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Gender:       req.Gender,
		PasswordHash: digest,
		IsAdmin:      isAdmin,
	})
	if err != nil {
		return models.User{}, err
	}

	return created.Public(), nil
}

// removeAccount deletes the user, revokes all their sessions and signals the
// content cascade. It reports whether the user existed.
func (d Dependencies) removeAccount(ctx context.Context, userID string) (bool, error) {
	log := logger.FromContext(ctx)

	deleted, err := d.Users.Delete(ctx, userID)
	if errors.Is(err, store.ErrProtectedAccount) {
		return false, newDeniedError(ReasonProtected)
	}
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}

	revoked, err := d.Sessions.RevokeAllForUser(ctx, userID)
	if err != nil {
		return deleted, fmt.Errorf("revoking sessions: %w", err)
	}

	if !deleted {
		return false, nil
	}

	log.Info().Str("user_id", userID).Int("revoked_sessions", revoked).Msg("account removed")

	// the account is gone either way; a lost signal is logged and counted
	if d.Cascader != nil {
		if err := d.Cascader.CascadeDelete(ctx, userID); err != nil {
			d.Metrics.cascadeFailed()
			log.Err(err).Str("user_id", userID).Msg("content cascade signal failed")
		}
	}

	return true, nil
}
