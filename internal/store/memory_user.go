// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/models"
)

// memoryUserRepository is the in-memory implementation of [UserRepository].
// Users are kept in a map keyed by id with secondary indexes for the three
// unique fields. A single RWMutex serializes mutations; lookups share the
// read lock.
type memoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUsername map[string]string
	byEmail    map[string]string
	byPhone    map[string]string

	ids    IDGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewMemoryUserRepository constructs an empty in-memory [UserRepository].
func NewMemoryUserRepository(ids IDGenerator, log *logger.Logger) UserRepository {
	log.Debug().Msg("creating in-memory user repository")
	return newMemoryUserRepository(ids, time.Now, log)
}

func newMemoryUserRepository(ids IDGenerator, now func() time.Time, log *logger.Logger) *memoryUserRepository {
	return &memoryUserRepository{
		byID:       make(map[string]models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		byPhone:    make(map[string]string),
		ids:        ids,
		now:        now,
		logger:     log,
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, candidate models.User) (models.User, error) {
	if err := checkShape(candidate); err != nil {
		return models.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if candidate.ID == "" {
		candidate.ID = r.ids.Generate()
	}
	if _, exists := r.byID[candidate.ID]; exists {
		return models.User{}, &UniquenessError{Field: FieldID}
	}
	if field := r.collisionLocked(candidate, ""); field != "" {
		return models.User{}, &UniquenessError{Field: field}
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = r.now().UTC()
	}

	r.putLocked(candidate)
	logger.FromContext(ctx).Debug().Str("user_id", candidate.ID).Msg("user created")

	return candidate, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	return u, ok, nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (models.User, bool, error) {
	return r.findByIndex(r.byUsername, foldKey(username))
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, bool, error) {
	return r.findByIndex(r.byEmail, foldKey(email))
}

func (r *memoryUserRepository) FindByPhone(_ context.Context, phone string) (models.User, bool, error) {
	return r.findByIndex(r.byPhone, phone)
}

func (r *memoryUserRepository) findByIndex(index map[string]string, key string) (models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return models.User{}, false, nil
	}
	u, ok := r.byID[id]
	return u, ok, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	updated := upd.Apply(current)
	if err := checkShape(updated); err != nil {
		return models.User{}, err
	}
	if field := r.collisionLocked(updated, id); field != "" {
		return models.User{}, &UniquenessError{Field: field}
	}

	r.removeLocked(current)
	r.putLocked(updated)
	logger.FromContext(ctx).Debug().Str("user_id", id).Msg("user updated")

	return updated, nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return false, nil
	}

	r.removeLocked(u)
	logger.FromContext(ctx).Debug().Str("user_id", id).Msg("user deleted")

	return true, nil
}

func (r *memoryUserRepository) SetAdminFlag(_ context.Context, id string, value bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return false, nil
	}

	u.IsAdmin = value
	r.byID[id] = u

	return true, nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	users := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	r.mu.RUnlock()

	sortUsers(users)
	return users, nil
}

func (r *memoryUserRepository) Load(_ context.Context, users []models.User) error {
	fresh := newMemoryUserRepository(r.ids, r.now, r.logger)
	for _, u := range users {
		if u.ID == "" {
			return fmt.Errorf("loading users: empty id")
		}
		if _, exists := fresh.byID[u.ID]; exists {
			return fmt.Errorf("loading users: %w", &UniquenessError{Field: FieldID})
		}
		if field := fresh.collisionLocked(u, ""); field != "" {
			return fmt.Errorf("loading user %s: %w", u.ID, &UniquenessError{Field: field})
		}
		fresh.putLocked(u)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = fresh.byID
	r.byUsername = fresh.byUsername
	r.byEmail = fresh.byEmail
	r.byPhone = fresh.byPhone

	return nil
}

// collisionLocked reports the first unique field of u held by a user other
// than exceptID.
func (r *memoryUserRepository) collisionLocked(u models.User, exceptID string) string {
	if id, ok := r.byUsername[foldKey(u.Username)]; ok && id != exceptID {
		return FieldUsername
	}
	if id, ok := r.byEmail[foldKey(u.Email)]; ok && id != exceptID {
		return FieldEmail
	}
	if id, ok := r.byPhone[u.PhoneNumber]; ok && id != exceptID {
		return FieldPhoneNumber
	}
	return ""
}

func (r *memoryUserRepository) putLocked(u models.User) {
	r.byID[u.ID] = u
	r.byUsername[foldKey(u.Username)] = u.ID
	r.byEmail[foldKey(u.Email)] = u.ID
	r.byPhone[u.PhoneNumber] = u.ID
}

func (r *memoryUserRepository) removeLocked(u models.User) {
	delete(r.byID, u.ID)
	delete(r.byUsername, foldKey(u.Username))
	delete(r.byEmail, foldKey(u.Email))
	delete(r.byPhone, u.PhoneNumber)
}

// sortUsers orders users by creation time, then id.
func sortUsers(users []models.User) {
	slices.SortFunc(users, func(a, b models.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
