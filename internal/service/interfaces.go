package service

import (
	"context"

	"github.com/MKhiriev/go-blog-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

// AuthService implements the self-service account flows. Every operation
// that acts on behalf of a logged-in user takes the opaque session token
// rather than any transport-specific credential.
type AuthService interface {
	// Signup registers a new, non-admin account.
	Signup(ctx context.Context, req models.SignupRequest) (models.User, error)

	// Login authenticates by email (when the identifier contains '@') or
	// username and issues a fresh session.
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Session, error)

	// Logout revokes exactly one session. Unknown tokens are not an error.
	Logout(ctx context.Context, token string) error

	// LogoutAll revokes every session of the token's owner.
	LogoutAll(ctx context.Context, token string) (int, error)

	// WhoAmI resolves the token to its user. A missing, invalid or expired
	// token yields (models.User{}, false, nil).
	WhoAmI(ctx context.Context, token string) (models.User, bool, error)

	// UpdateProfile changes username, email and phone of the token's owner.
	UpdateProfile(ctx context.Context, token string, req models.ProfileUpdateRequest) (models.User, error)

	// DeleteAccount removes the token's owner after re-checking password,
	// revokes their sessions and signals the content cascade.
	DeleteAccount(ctx context.Context, token, password string) error
}

// AuthorizationGate makes per-request allow/deny decisions. It holds no
// state of its own.
type AuthorizationGate interface {
	// Authenticate resolves token to a live session and an existing user.
	Authenticate(ctx context.Context, token string) (models.User, models.Session, error)

	IsAuthenticated(ctx context.Context, token string) bool

	// RequireAdmin authenticates and requires the admin flag.
	RequireAdmin(ctx context.Context, token string) (models.User, error)

	// AuthorizeAdminMutation applies self-protection and root-protection to
	// a destructive admin action by actor on targetID.
	AuthorizeAdminMutation(actor models.User, targetID string) error
}

// AdminService implements the admin panel. Every operation first passes the
// acting token through [AuthorizationGate.RequireAdmin].
type AdminService interface {
	ListUsers(ctx context.Context, token string, query models.UserListQuery) (models.UserPage, error)
	ListAdmins(ctx context.Context, token string) ([]models.User, error)
	CreateUser(ctx context.Context, token string, req models.AdminCreateUserRequest) (models.User, error)
	UpdateUser(ctx context.Context, token, targetID string, upd models.UserUpdate) (models.User, error)

	// DeleteUser is idempotent: deleting an absent id succeeds.
	DeleteUser(ctx context.Context, token, targetID string) error

	// ToggleAdmin flips the admin flag of targetID and returns the result.
	ToggleAdmin(ctx context.Context, token, targetID string) (models.User, error)
}

// ContentCascader forwards "delete everything authored by userID" to the
// external content store.
type ContentCascader interface {
	CascadeDelete(ctx context.Context, userID string) error
}
