package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/mock"
	"github.com/MKhiriev/go-blog-auth/models"
)

func newTestGate(ctrl *gomock.Controller) (AuthorizationGate, *mock.MockUserRepository, *mock.MockSessionRepository) {
	users := mock.NewMockUserRepository(ctrl)
	sessions := mock.NewMockSessionRepository(ctrl)
	gate := NewAuthorizationGate(Dependencies{Users: users, Sessions: sessions, RootAdminID: testRootID}, logger.Nop())
	return gate, users, sessions
}

func TestAuthorizationGate_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate, users, sessions := newTestGate(ctrl)
	ctx := context.Background()

	t.Run("empty token never reaches the store", func(t *testing.T) {
		_, _, err := gate.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown token", func(t *testing.T) {
		sessions.EXPECT().Resolve(ctx, "stale").Return(models.Session{}, false, nil)
		_, _, err := gate.Authenticate(ctx, "stale")

		var aerr *AuthError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, ReasonNoSession, aerr.Reason)
	})

	t.Run("live session", func(t *testing.T) {
		sessions.EXPECT().Resolve(ctx, "tok").Return(models.Session{Token: "tok", UserID: "u-1"}, true, nil)
		users.EXPECT().FindByID(ctx, "u-1").Return(storedAlice(), true, nil)

		user, session, err := gate.Authenticate(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "tok", session.Token)
	})
}

func TestAuthorizationGate_IsAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate, users, sessions := newTestGate(ctrl)
	ctx := context.Background()

	sessions.EXPECT().Resolve(ctx, "tok").Return(models.Session{UserID: "u-1"}, true, nil)
	users.EXPECT().FindByID(ctx, "u-1").Return(storedAlice(), true, nil)
	sessions.EXPECT().Resolve(ctx, "broken").Return(models.Session{}, false, assert.AnError)

	assert.True(t, gate.IsAuthenticated(ctx, "tok"))
	assert.False(t, gate.IsAuthenticated(ctx, "broken"))
	assert.False(t, gate.IsAuthenticated(ctx, ""))
}

func TestAuthorizationGate_RequireAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate, users, sessions := newTestGate(ctrl)
	ctx := context.Background()

	admin := storedAlice()
	admin.IsAdmin = true

	sessions.EXPECT().Resolve(ctx, "admin").Return(models.Session{UserID: "u-1"}, true, nil)
	users.EXPECT().FindByID(ctx, "u-1").Return(admin, true, nil)

	got, err := gate.RequireAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.Empty(t, got.PasswordHash)

	sessions.EXPECT().Resolve(ctx, "user").Return(models.Session{UserID: "u-1"}, true, nil)
	users.EXPECT().FindByID(ctx, "u-1").Return(storedAlice(), true, nil)

	_, err = gate.RequireAdmin(ctx, "user")
	assert.ErrorIs(t, err, ErrDenied)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizationGate_AuthorizeAdminMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate, _, _ := newTestGate(ctrl)

	tests := []struct {
		name    string
		actorID string
		target  string
		reason  string
	}{
		{name: "ordinary target", actorID: "u-1", target: "u-2"},
		{name: "self", actorID: "u-1", target: "u-1", reason: ReasonSelf},
		{name: "root admin", actorID: "u-1", target: testRootID, reason: ReasonProtected},
		{name: "root acting on self", actorID: testRootID, target: testRootID, reason: ReasonSelf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.AuthorizeAdminMutation(models.User{ID: tt.actorID, IsAdmin: true}, tt.target)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var denied *DeniedError
			require.ErrorAs(t, err, &denied)
			assert.Equal(t, tt.reason, denied.Reason)
			assert.ErrorIs(t, err, ErrDenied)
		})
	}
}
