package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// adminService is the concrete implementation of [AdminService]. Mutations
// that read a user before writing it are serialized by mu.
type adminService struct {
	Dependencies
	gate   AuthorizationGate
	mu     sync.Mutex
	logger *logger.Logger
}

// NewAdminService constructs an [AdminService].
func NewAdminService(deps Dependencies, gate AuthorizationGate, log *logger.Logger) AdminService {
	return &adminService{
		Dependencies: deps,
		gate:         gate,
		logger:       log,
	}
}

func (s *adminService) ListUsers(ctx context.Context, token string, query models.UserListQuery) (models.UserPage, error) {
	if _, err := s.gate.RequireAdmin(ctx, token); err != nil {
		s.Metrics.observeAdmin("list_users", err)
		return models.UserPage{}, err
	}

	users, err := s.Users.List(ctx)
	if err != nil {
		return models.UserPage{}, fmt.Errorf("listing users: %w", err)
	}

	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Username), search) || strings.Contains(strings.ToLower(u.Email), search) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	return paginate(users, query.Page, query.Limit), nil
}

// paginate cuts one page out of users, which must already be sorted.
func paginate(users []models.User, page, limit int) models.UserPage {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	limit = min(limit, maxPageLimit)
	page = max(page, 1)

	total := len(users)
	totalPages := (total + limit - 1) / limit

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	out := make([]models.User, 0, end-start)
	for _, u := range users[start:end] {
		out = append(out, u.Public())
	}

	return models.UserPage{
		Users:      out,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func (s *adminService) ListAdmins(ctx context.Context, token string) ([]models.User, error) {
	if _, err := s.gate.RequireAdmin(ctx, token); err != nil {
		s.Metrics.observeAdmin("list_admins", err)
		return nil, err
	}

	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	admins := make([]models.User, 0)
	for _, u := range users {
		if u.IsAdmin {
			admins = append(admins, u.Public())
		}
	}

	return admins, nil
}

func (s *adminService) CreateUser(ctx context.Context, token string, req models.AdminCreateUserRequest) (models.User, error) {
	actor, err := s.gate.RequireAdmin(ctx, token)
	if err != nil {
		s.Metrics.observeAdmin("create_user", err)
		return models.User{}, err
	}

	created, err := s.createAccount(ctx, req.SignupRequest, req.IsAdmin)
	s.Metrics.observeAdmin("create_user", err)
	if err != nil {
		return models.User{}, err
	}

	logger.FromContext(ctx).Info().
		Str("actor_id", actor.ID).
		Str("user_id", created.ID).
		Bool("is_admin", created.IsAdmin).
		Msg("user created by admin")
	return created, nil
}

func (s *adminService) UpdateUser(ctx context.Context, token, targetID string, upd models.UserUpdate) (models.User, error) {
	user, err := s.updateUser(ctx, token, targetID, upd)
	s.Metrics.observeAdmin("update_user", err)
	return user, err
}

func (s *adminService) updateUser(ctx context.Context, token, targetID string, upd models.UserUpdate) (models.User, error) {
	actor, err := s.gate.RequireAdmin(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	upd = normalizeUpdate(upd)
	if upd.IsEmpty() {
		return models.User{}, validators.NewValidationError("user", "has no fields to update")
	}
	if err := s.Validator.Validate(ctx, upd); err != nil {
		return models.User{}, err
	}

	updated, err := s.Users.Update(ctx, targetID, upd)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	logger.FromContext(ctx).Info().Str("actor_id", actor.ID).Str("user_id", targetID).Msg("user updated by admin")
	return updated.Public(), nil
}

func (s *adminService) DeleteUser(ctx context.Context, token, targetID string) error {
	err := s.deleteUser(ctx, token, targetID)
	s.Metrics.observeAdmin("delete_user", err)
	return err
}

func (s *adminService) deleteUser(ctx context.Context, token, targetID string) error {
	actor, err := s.gate.RequireAdmin(ctx, token)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeAdminMutation(actor, targetID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.removeAccount(ctx, targetID)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().
		Str("actor_id", actor.ID).
		Str("user_id", targetID).
		Bool("existed", deleted).
		Msg("user deleted by admin")
	return nil
}

func (s *adminService) ToggleAdmin(ctx context.Context, token, targetID string) (models.User, error) {
	user, err := s.toggleAdmin(ctx, token, targetID)
	s.Metrics.observeAdmin("toggle_admin", err)
	return user, err
}

func (s *adminService) toggleAdmin(ctx context.Context, token, targetID string) (models.User, error) {
	actor, err := s.gate.RequireAdmin(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if err := s.gate.AuthorizeAdminMutation(actor, targetID); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok, err := s.Users.FindByID(ctx, targetID)
	if err != nil {
		return models.User{}, fmt.Errorf("looking up user: %w", err)
	}
	if !ok {
		return models.User{}, ErrNotFound
	}

	target.IsAdmin = !target.IsAdmin
	ok, err = s.Users.SetAdminFlag(ctx, targetID, target.IsAdmin)
	if errors.Is(err, store.ErrProtectedAccount) {
		return models.User{}, newDeniedError(ReasonProtected)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("setting admin flag: %w", err)
	}
	if !ok {
		return models.User{}, ErrNotFound
	}

	// a demoted admin must log in again
	if !target.IsAdmin {
		if _, err := s.Sessions.RevokeAllForUser(ctx, targetID); err != nil {
			return models.User{}, fmt.Errorf("revoking sessions: %w", err)
		}
	}

	logger.FromContext(ctx).Info().
		Str("actor_id", actor.ID).
		Str("user_id", targetID).
		Bool("is_admin", target.IsAdmin).
		Msg("admin flag toggled")
	return target.Public(), nil
}
