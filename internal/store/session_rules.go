package store

import (
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-blog-auth/models"
)

// newStoredSession builds the record for a session issued at now. A
// non-positive ttl leaves ExpiresAt zero.
func newStoredSession(tokenHash, userID string, now time.Time, ttl time.Duration) models.StoredSession {
	now = now.UTC()
	s := models.StoredSession{
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// sortSessions orders sessions by creation time, then token hash.
func sortSessions(sessions []models.StoredSession) {
	slices.SortFunc(sessions, func(a, b models.StoredSession) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.TokenHash, b.TokenHash)
	})
}
