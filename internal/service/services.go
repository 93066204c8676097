package service

import (
	"github.com/MKhiriev/go-blog-auth/internal/logger"
)

// Services bundles the auth core. Auth and Admin share Gate.
type Services struct {
	Auth  AuthService
	Admin AdminService
	Gate  AuthorizationGate
}

func NewServices(deps Dependencies, log *logger.Logger) *Services {
	gate := NewAuthorizationGate(deps, log)
	return &Services{
		Auth:  NewAuthService(deps, gate, log),
		Admin: NewAdminService(deps, gate, log),
		Gate:  gate,
	}
}
