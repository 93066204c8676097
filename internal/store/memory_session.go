// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

// maxTokenAttempts bounds how often Issue asks the generator for a token
// before giving up on collisions.
const maxTokenAttempts = 3

// memorySessionRepository is the in-memory implementation of
// [SessionRepository]. Sessions are keyed by the SHA-256 hash of their token
// so that snapshots never contain live credentials.
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.StoredSession

	tokens TokenGenerator
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewMemorySessionRepository constructs an empty in-memory
// [SessionRepository]. Sessions expire ttl after issue; ttl <= 0 disables
// expiry.
func NewMemorySessionRepository(ttl time.Duration, log *logger.Logger) SessionRepository {
	log.Debug().Dur("ttl", ttl).Msg("creating in-memory session repository")
	return newMemorySessionRepository(utils.GenerateToken, ttl, time.Now, log)
}

func newMemorySessionRepository(tokens TokenGenerator, ttl time.Duration, now func() time.Time, log *logger.Logger) *memorySessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]models.StoredSession),
		tokens:   tokens,
		ttl:      ttl,
		now:      now,
		logger:   log,
	}
}

func (r *memorySessionRepository) Issue(_ context.Context, userID string) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range maxTokenAttempts {
		token, err := r.tokens()
		if err != nil {
			return models.Session{}, err
		}

		hash := utils.HashToken(token)
		if _, taken := r.sessions[hash]; taken {
			continue
		}

		stored := newStoredSession(hash, userID, r.now(), r.ttl)
		r.sessions[hash] = stored

		return stored.WithToken(token), nil
	}

	return models.Session{}, ErrTokenExhausted
}

func (r *memorySessionRepository) Resolve(ctx context.Context, token string) (models.Session, bool, error) {
	hash := utils.HashToken(token)

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[hash]
	if !ok {
		return models.Session{}, false, nil
	}

	if stored.IsExpiredAt(r.now()) {
		delete(r.sessions, hash)
		logger.FromContext(ctx).Debug().Str("user_id", stored.UserID).Msg("expired session dropped")
		return models.Session{}, false, nil
	}

	return stored.WithToken(token), true, nil
}

func (r *memorySessionRepository) Revoke(_ context.Context, token string) (bool, error) {
	hash := utils.HashToken(token)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[hash]; !ok {
		return false, nil
	}
	delete(r.sessions, hash)

	return true, nil
}

func (r *memorySessionRepository) RevokeAllForUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for hash, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, hash)
			count++
		}
	}

	return count, nil
}

func (r *memorySessionRepository) List(_ context.Context) ([]models.StoredSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	sessions := make([]models.StoredSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		if !s.IsExpiredAt(now) {
			sessions = append(sessions, s)
		}
	}
	sortSessions(sessions)

	return sessions, nil
}

func (r *memorySessionRepository) Load(_ context.Context, sessions []models.StoredSession) error {
	fresh := make(map[string]models.StoredSession, len(sessions))
	for _, s := range sessions {
		if s.TokenHash == "" || s.UserID == "" {
			return fmt.Errorf("loading sessions: incomplete record")
		}
		fresh[s.TokenHash] = s
	}

	r.mu.Lock()
	r.sessions = fresh
	r.mu.Unlock()

	return nil
}
