package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/models"
)

const testRootID = "admin-1"

// recordingCascader remembers every cascade signal.
type recordingCascader struct {
	mu    sync.Mutex
	ids   []string
	fails error
}

func (c *recordingCascader) CascadeDelete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fails != nil {
		return c.fails
	}
	c.ids = append(c.ids, userID)
	return nil
}

func (c *recordingCascader) signalled() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

type fixture struct {
	deps     Dependencies
	svc      *Services
	cascader *recordingCascader
	registry *prometheus.Registry
}

// newFixture wires the services over in-memory stores and a fast bcrypt.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.Nop()
	registry := prometheus.NewRegistry()
	cascader := &recordingCascader{}
	deps := Dependencies{
		Users:       store.NewRootGuard(store.NewMemoryUserRepository(utils.NewUUIDGenerator(), log), testRootID),
		Sessions:    store.NewMemorySessionRepository(time.Hour, log),
		Hasher:      crypto.NewBcryptHasher(bcrypt.MinCost),
		Validator:   validators.NewUserValidator(),
		Cascader:    cascader,
		Metrics:     NewMetrics(registry),
		RootAdminID: testRootID,
	}

	return &fixture{
		deps:     deps,
		svc:      NewServices(deps, log),
		cascader: cascader,
		registry: registry,
	}
}

func signupReq(username, email, phone string) models.SignupRequest {
	return models.SignupRequest{
		Username:    username,
		Email:       email,
		PhoneNumber: phone,
		Gender:      models.GenderOther,
		Password:    "Secret123",
	}
}

// mustSignupAndLogin registers a user and returns them with a live token.
func (f *fixture) mustSignupAndLogin(t *testing.T, username, email, phone string) (models.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := f.svc.Auth.Signup(ctx, signupReq(username, email, phone))
	require.NoError(t, err)

	_, session, err := f.svc.Auth.Login(ctx, models.LoginRequest{EmailOrUsername: username, Password: "Secret123"})
	require.NoError(t, err)

	return user, session.Token
}

// mustRootAdmin bootstraps the root admin and returns a live token for it.
func (f *fixture) mustRootAdmin(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	created, err := BootstrapRootAdmin(ctx, f.deps, config.Admin{
		Username: "root",
		Email:    "root@blog.local",
		Password: "RootSecret1",
		Phone:    "5550000000",
		Gender:   "other",
	}, logger.Nop())
	require.NoError(t, err)
	require.True(t, created)

	_, session, err := f.svc.Auth.Login(ctx, models.LoginRequest{EmailOrUsername: "root", Password: "RootSecret1"})
	require.NoError(t, err)
	return session.Token
}
