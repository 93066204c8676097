package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/models"
)

// authorizationGate is the concrete implementation of [AuthorizationGate].
type authorizationGate struct {
	users       store.UserRepository
	sessions    store.SessionRepository
	rootAdminID string
	logger      *logger.Logger
}

// NewAuthorizationGate constructs an [AuthorizationGate] over the two
// stores.
func NewAuthorizationGate(deps Dependencies, log *logger.Logger) AuthorizationGate {
	return &authorizationGate{
		users:       deps.Users,
		sessions:    deps.Sessions,
		rootAdminID: deps.RootAdminID,
		logger:      log,
	}
}

// Authenticate implements [AuthorizationGate]. The returned user still
// carries its password hash; call Public before handing it out.
func (g *authorizationGate) Authenticate(ctx context.Context, token string) (models.User, models.Session, error) {
	if token == "" {
		return models.User{}, models.Session{}, newAuthError(ReasonNoSession)
	}

	session, ok, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		return models.User{}, models.Session{}, fmt.Errorf("resolving session: %w", err)
	}
	if !ok {
		return models.User{}, models.Session{}, newAuthError(ReasonNoSession)
	}

	user, ok, err := g.users.FindByID(ctx, session.UserID)
	if err != nil {
		return models.User{}, models.Session{}, fmt.Errorf("resolving session owner: %w", err)
	}
	if !ok {
		logger.FromContext(ctx).Debug().Str("user_id", session.UserID).Msg("session of a deleted user")
		return models.User{}, models.Session{}, newAuthError(ReasonNoSession)
	}

	return user, session, nil
}

func (g *authorizationGate) IsAuthenticated(ctx context.Context, token string) bool {
	_, _, err := g.Authenticate(ctx, token)
	return err == nil
}

func (g *authorizationGate) RequireAdmin(ctx context.Context, token string) (models.User, error) {
	user, _, err := g.Authenticate(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if !user.IsAdmin {
		logger.FromContext(ctx).Info().Str("user_id", user.ID).Msg("admin access denied")
		return models.User{}, newDeniedError(ReasonNotAdmin)
	}

	return user.Public(), nil
}

// AuthorizeAdminMutation implements [AuthorizationGate]. The self check runs
// first, so an admin targeting themselves is told so even when they are the
// root admin.
func (g *authorizationGate) AuthorizeAdminMutation(actor models.User, targetID string) error {
	if actor.ID == targetID {
		return newDeniedError(ReasonSelf)
	}
	if targetID == g.rootAdminID {
		return newDeniedError(ReasonProtected)
	}
	return nil
}
