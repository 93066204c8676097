package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/models"
)

// BootstrapRootAdmin creates the root admin from admin when all of its values
// are set and the reserved id is still free. It reports whether a user was
// created. It runs once at startup, before any request is served.
func BootstrapRootAdmin(ctx context.Context, deps Dependencies, admin config.Admin, log *logger.Logger) (bool, error) {
	if !admin.IsComplete() {
		log.Warn().Msg("root admin bootstrap skipped: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_PHONE and ADMIN_GENDER must all be set")
		return false, nil
	}

	_, exists, err := deps.Users.FindByID(ctx, deps.RootAdminID)
	if err != nil {
		return false, fmt.Errorf("looking up root admin: %w", err)
	}
	if exists {
		log.Debug().Str("user_id", deps.RootAdminID).Msg("root admin already present")
		return false, nil
	}

	digest, err := deps.hashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("root admin password: %w", err)
	}

	_, err = deps.Users.Create(ctx, models.User{
		ID:           deps.RootAdminID,
		Username:     strings.TrimSpace(admin.Username),
		Email:        strings.TrimSpace(admin.Email),
		PhoneNumber:  strings.TrimSpace(admin.Phone),
		Gender:       models.Gender(strings.ToLower(strings.TrimSpace(admin.Gender))),
		PasswordHash: digest,
		IsAdmin:      true,
	})
	if err != nil {
		return false, fmt.Errorf("creating root admin: %w", err)
	}

	log.Info().Str("user_id", deps.RootAdminID).Msg("root admin created")
	return true, nil
}
