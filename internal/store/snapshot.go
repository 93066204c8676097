package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-blog-auth/models"
)

// snapshotVersion is bumped whenever the file layout changes.
const snapshotVersion = 1

// Snapshot is the on-disk image of both stores.
type Snapshot struct {
	Version  int                    `json:"version"`
	TakenAt  time.Time              `json:"taken_at"`
	Users    []snapshotUser         `json:"users"`
	Sessions []models.StoredSession `json:"sessions"`
}

// snapshotUser mirrors models.User but keeps the password hash, which the
// public JSON form omits.
type snapshotUser struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PhoneNumber  string        `json:"phone_number"`
	Gender       models.Gender `json:"gender"`
	PasswordHash string        `json:"password_hash"`
	IsAdmin      bool          `json:"is_admin"`
	CreatedAt    time.Time     `json:"created_at"`
}

func toSnapshotUser(u models.User) snapshotUser {
	return snapshotUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		Gender:       u.Gender,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
	}
}

func (s snapshotUser) model() models.User {
	return models.User{
		ID:           s.ID,
		Username:     s.Username,
		Email:        s.Email,
		PhoneNumber:  s.PhoneNumber,
		Gender:       s.Gender,
		PasswordHash: s.PasswordHash,
		IsAdmin:      s.IsAdmin,
		CreatedAt:    s.CreatedAt,
	}
}

// TakeSnapshot reads the full contents of users and sessions. A nil
// repository is left out of the snapshot.
func TakeSnapshot(ctx context.Context, users UserRepository, sessions SessionRepository) (Snapshot, error) {
	snap := Snapshot{
		Version: snapshotVersion,
		TakenAt: time.Now().UTC(),
	}

	if users != nil {
		allUsers, err := users.List(ctx)
		if err != nil {
			return Snapshot{}, fmt.Errorf("listing users: %w", err)
		}
		snap.Users = make([]snapshotUser, 0, len(allUsers))
		for _, u := range allUsers {
			snap.Users = append(snap.Users, toSnapshotUser(u))
		}
	}

	if sessions != nil {
		allSessions, err := sessions.List(ctx)
		if err != nil {
			return Snapshot{}, fmt.Errorf("listing sessions: %w", err)
		}
		snap.Sessions = allSessions
	}

	return snap, nil
}

// SaveSnapshot writes a snapshot of both stores to path. The file is written
// to a temporary sibling first and renamed into place, so readers never see
// a partial snapshot.
func SaveSnapshot(ctx context.Context, path string, users UserRepository, sessions SessionRepository) error {
	snap, err := TakeSnapshot(ctx, users, sessions)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming snapshot: %w", err)
	}

	return nil
}

// ReadSnapshot decodes the snapshot at path. ok is false when the file does
// not exist.
func ReadSnapshot(path string) (snap Snapshot, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("reading snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return Snapshot{}, false, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	return snap, true, nil
}

// RestoreSnapshot loads the snapshot at path into users and sessions and
// reports whether a snapshot was found. A nil repository is left untouched.
// Nothing is loaded when decoding fails.
func RestoreSnapshot(ctx context.Context, path string, users UserRepository, sessions SessionRepository) (bool, error) {
	snap, ok, err := ReadSnapshot(path)
	if err != nil || !ok {
		return false, err
	}

	if users != nil {
		restored := make([]models.User, 0, len(snap.Users))
		for _, u := range snap.Users {
			restored = append(restored, u.model())
		}
		if err := users.Load(ctx, restored); err != nil {
			return false, fmt.Errorf("loading users: %w", err)
		}
	}
	if sessions != nil {
		if err := sessions.Load(ctx, snap.Sessions); err != nil {
			return false, fmt.Errorf("loading sessions: %w", err)
		}
	}

	return true, nil
}
