package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/models"
)

func newTestMemorySessions(tokens TokenGenerator, ttl time.Duration) (*memorySessionRepository, *fakeClock) {
	clock := newFakeClock()
	return newMemorySessionRepository(tokens, ttl, clock.Now, logger.Nop()), clock
}

func TestMemorySessions_IssueAndResolve(t *testing.T) {
	repo, clock := newTestMemorySessions(utils.GenerateToken, time.Hour)
	ctx := context.Background()

	s, err := repo.Issue(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, s.Token, 2*utils.TokenBytes)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, clock.Now(), s.CreatedAt)
	assert.Equal(t, clock.Now().Add(time.Hour), s.ExpiresAt)

	got, ok, err := repo.Resolve(ctx, s.Token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok, err = repo.Resolve(ctx, "not-a-token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessions_StoresOnlyTokenHash(t *testing.T) {
	repo, _ := newTestMemorySessions(fixedTokens("tok-1"), time.Hour)

	_, err := repo.Issue(context.Background(), "u-1")
	require.NoError(t, err)

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, utils.HashToken("tok-1"), sessions[0].TokenHash)
	assert.NotContains(t, sessions[0].TokenHash, "tok-1")
}

func TestMemorySessions_IssueRetriesCollidingTokens(t *testing.T) {
	repo, _ := newTestMemorySessions(fixedTokens("same", "same", "fresh"), 0)
	ctx := context.Background()

	first, err := repo.Issue(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "same", first.Token)

	second, err := repo.Issue(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.Token)
}

func TestMemorySessions_IssueGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo, _ := newTestMemorySessions(fixedTokens("same"), 0)
	ctx := context.Background()

	_, err := repo.Issue(ctx, "u-1")
	require.NoError(t, err)

	_, err = repo.Issue(ctx, "u-2")
	assert.ErrorIs(t, err, ErrTokenExhausted)
}

func TestMemorySessions_IssuePropagatesGeneratorError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	repo, _ := newTestMemorySessions(func() (string, error) { return "", boom }, 0)

	_, err := repo.Issue(context.Background(), "u-1")
	assert.ErrorIs(t, err, boom)
}

func TestMemorySessions_ExpiryIsLazy(t *testing.T) {
	repo, clock := newTestMemorySessions(utils.GenerateToken, time.Hour)
	ctx := context.Background()

	s, err := repo.Issue(ctx, "u-1")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, ok, err := repo.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok, err = repo.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	// dropped on resolve, so it cannot be revoked any more
	revoked, err := repo.Revoke(ctx, s.Token)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemorySessions_NonPositiveTTLNeverExpires(t *testing.T) {
	repo, clock := newTestMemorySessions(utils.GenerateToken, -1)
	ctx := context.Background()

	s, err := repo.Issue(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())

	clock.Advance(10 * 365 * 24 * time.Hour)
	_, ok, err := repo.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemorySessions_Revoke(t *testing.T) {
	repo, _ := newTestMemorySessions(utils.GenerateToken, 0)
	ctx := context.Background()

	s, err := repo.Issue(ctx, "u-1")
	require.NoError(t, err)

	revoked, err := repo.Revoke(ctx, s.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.Revoke(ctx, s.Token)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, ok, _ := repo.Resolve(ctx, s.Token)
	assert.False(t, ok)
}

func TestMemorySessions_RevokeAllForUser(t *testing.T) {
	repo, _ := newTestMemorySessions(utils.GenerateToken, 0)
	ctx := context.Background()

	a1, _ := repo.Issue(ctx, "alice")
	a2, _ := repo.Issue(ctx, "alice")
	b1, _ := repo.Issue(ctx, "bob")

	n, err := repo.RevokeAllForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, tok := range []string{a1.Token, a2.Token} {
		_, ok, _ := repo.Resolve(ctx, tok)
		assert.False(t, ok)
	}
	_, ok, _ := repo.Resolve(ctx, b1.Token)
	assert.True(t, ok)

	n, err = repo.RevokeAllForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemorySessions_LoadReplacesContents(t *testing.T) {
	repo, clock := newTestMemorySessions(utils.GenerateToken, 0)
	ctx := context.Background()

	old, _ := repo.Issue(ctx, "u-1")

	restored := models.StoredSession{
		TokenHash: utils.HashToken("restored"),
		UserID:    "u-2",
		CreatedAt: clock.Now(),
	}
	require.NoError(t, repo.Load(ctx, []models.StoredSession{restored}))

	_, ok, _ := repo.Resolve(ctx, old.Token)
	assert.False(t, ok)

	got, ok, err := repo.Resolve(ctx, "restored")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u-2", got.UserID)

	err = repo.Load(ctx, []models.StoredSession{{TokenHash: "x"}})
	assert.Error(t, err)
}
