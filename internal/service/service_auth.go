package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/models"
)

// authService is the concrete implementation of [AuthService].
type authService struct {
	Dependencies
	gate   AuthorizationGate
	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] using gate to resolve session
// tokens.
func NewAuthService(deps Dependencies, gate AuthorizationGate, log *logger.Logger) AuthService {
	return &authService{
		Dependencies: deps,
		gate:         gate,
		logger:       log,
	}
}

func (a *authService) Signup(ctx context.Context, req models.SignupRequest) (models.User, error) {
	user, err := a.createAccount(ctx, req, false)
	a.Metrics.observeAuth("signup", err)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("signup rejected")
		return models.User{}, err
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID).Msg("user signed up")
	return user, nil
}

func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Session, error) {
	user, session, err := a.login(ctx, req)
	a.Metrics.observeAuth("login", err)
	return user, session, err
}

func (a *authService) login(ctx context.Context, req models.LoginRequest) (models.User, models.Session, error) {
	log := logger.FromContext(ctx)

	req.EmailOrUsername = strings.TrimSpace(req.EmailOrUsername)
	if err := a.Validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Session{}, err
	}

	var (
		user  models.User
		found bool
		err   error
	)
	if strings.Contains(req.EmailOrUsername, "@") {
		user, found, err = a.Users.FindByEmail(ctx, req.EmailOrUsername)
	} else {
		user, found, err = a.Users.FindByUsername(ctx, req.EmailOrUsername)
	}
	if err != nil {
		return models.User{}, models.Session{}, fmt.Errorf("looking up account: %w", err)
	}

	if !found {
		log.Info().Str("reason", ReasonNoSuchAccount).Msg("login failed")
		return models.User{}, models.Session{}, newAuthError(ReasonNoSuchAccount)
	}
	if !a.verifyPassword(ctx, req.Password, user.PasswordHash) {
		log.Info().Str("reason", ReasonBadCredentials).Str("user_id", user.ID).Msg("login failed")
		return models.User{}, models.Session{}, newAuthError(ReasonBadCredentials)
	}

	session, err := a.Sessions.Issue(ctx, user.ID)
	if err != nil {
		return models.User{}, models.Session{}, fmt.Errorf("issuing session: %w", err)
	}

	// the account may have been removed while the password was being checked
	if _, still, err := a.Users.FindByID(ctx, user.ID); err != nil || !still {
		if _, rerr := a.Sessions.Revoke(ctx, session.Token); rerr != nil {
			log.Err(rerr).Str("user_id", user.ID).Msg("revoking orphaned session")
		}
		if err != nil {
			return models.User{}, models.Session{}, fmt.Errorf("looking up account: %w", err)
		}
		log.Info().Str("reason", ReasonNoSuchAccount).Str("user_id", user.ID).Msg("login failed")
		return models.User{}, models.Session{}, newAuthError(ReasonNoSuchAccount)
	}

	log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user.Public(), session, nil
}

func (a *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	revoked, err := a.Sessions.Revoke(ctx, token)
	a.Metrics.observeAuth("logout", err)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	logger.FromContext(ctx).Debug().Bool("revoked", revoked).Msg("logout")
	return nil
}

func (a *authService) LogoutAll(ctx context.Context, token string) (int, error) {
	user, _, err := a.gate.Authenticate(ctx, token)
	if err != nil {
		a.Metrics.observeAuth("logout_all", err)
		return 0, err
	}

	count, err := a.Sessions.RevokeAllForUser(ctx, user.ID)
	a.Metrics.observeAuth("logout_all", err)
	if err != nil {
		return 0, fmt.Errorf("revoking sessions: %w", err)
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID).Int("revoked", count).Msg("logged out everywhere")
	return count, nil
}

func (a *authService) WhoAmI(ctx context.Context, token string) (models.User, bool, error) {
	user, _, err := a.gate.Authenticate(ctx, token)
	if errors.Is(err, ErrUnauthenticated) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}

	return user.Public(), true, nil
}

func (a *authService) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdateRequest) (models.User, error) {
	user, err := a.updateProfile(ctx, token, req)
	a.Metrics.observeAuth("update_profile", err)
	return user, err
}

func (a *authService) updateProfile(ctx context.Context, token string, req models.ProfileUpdateRequest) (models.User, error) {
	user, _, err := a.gate.Authenticate(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := a.Validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	updated, err := a.Users.Update(ctx, user.ID, models.UserUpdate{
		Username:    &req.Username,
		Email:       &req.Email,
		PhoneNumber: &req.PhoneNumber,
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID).Msg("profile updated")
	return updated.Public(), nil
}

func (a *authService) DeleteAccount(ctx context.Context, token, password string) error {
	err := a.deleteAccount(ctx, token, password)
	a.Metrics.observeAuth("delete_account", err)
	return err
}

func (a *authService) deleteAccount(ctx context.Context, token, password string) error {
	user, _, err := a.gate.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	if err := a.Validator.Validate(ctx, models.DeleteAccountRequest{Password: password}); err != nil {
		return err
	}
	if !a.verifyPassword(ctx, password, user.PasswordHash) {
		logger.FromContext(ctx).Info().Str("reason", ReasonBadCredentials).Str("user_id", user.ID).Msg("account deletion refused")
		return newAuthError(ReasonBadCredentials)
	}
	if user.ID == a.RootAdminID {
		return newDeniedError(ReasonProtected)
	}

	if _, err := a.removeAccount(ctx, user.ID); err != nil {
		return err
	}

	return nil
}
