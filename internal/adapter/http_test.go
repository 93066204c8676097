package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	apihttp "github.com/MKhiriev/go-blog-auth/internal/handler/http"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/models"
)

// newAPIServer serves the real router over memory stores.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	deps := service.Dependencies{
		Users:       store.NewMemoryUserRepository(utils.NewUUIDGenerator(), logger.Nop()),
		Sessions:    store.NewMemorySessionRepository(time.Hour, logger.Nop()),
		Hasher:      crypto.NewBcryptHasher(bcrypt.MinCost),
		Validator:   validators.NewUserValidator(),
		RootAdminID: "admin-1",
	}
	h := apihttp.NewHandler(service.NewServices(deps, logger.Nop()), apihttp.Options{SessionTTL: time.Hour}, logger.Nop())

	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, address string) AuthClient {
	t.Helper()
	c, err := NewHTTPAuthClient(Options{Address: address}, logger.Nop())
	require.NoError(t, err)
	return c
}

func aliceSignup() models.SignupRequest {
	return models.SignupRequest{
		Username:    "alice",
		Email:       "alice@x.com",
		PhoneNumber: "5551234567",
		Gender:      models.GenderFemale,
		Password:    "Secret123",
	}
}

func TestAuthClient_AccountLifecycle(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	c := newTestClient(t, srv.URL)

	created, err := c.Signup(ctx, aliceSignup())
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	_, ok, err := c.Me(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "signup does not log in")

	user, err := c.Login(ctx, "ALICE@x.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	me, ok, err := c.Me(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, me.ID)

	updated, err := c.UpdateProfile(ctx, models.ProfileUpdateRequest{
		Username:    "alice2",
		Email:       "alice2@x.com",
		PhoneNumber: "5551234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	err = c.DeleteAccount(ctx, "wrong-password")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	require.NoError(t, c.DeleteAccount(ctx, "Secret123"))

	_, ok, err = c.Me(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Login(ctx, "alice2", "Secret123")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestAuthClient_Logout(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	c := newTestClient(t, srv.URL)

	require.NoError(t, c.Logout(ctx))

	_, err := c.Signup(ctx, aliceSignup())
	require.NoError(t, err)
	_, err = c.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))

	_, ok, err := c.Me(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.UpdateProfile(ctx, models.ProfileUpdateRequest{Username: "x", Email: "x@x.com", PhoneNumber: "5551234567"})
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestAuthClient_ErrorKinds(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	c := newTestClient(t, srv.URL)

	_, err := c.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	dup := aliceSignup()
	dup.Email = "other@x.com"
	dup.PhoneNumber = "5551234568"
	_, err = c.Signup(ctx, dup)
	require.ErrorIs(t, err, service.ErrUniqueness)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "username", apiErr.Field)

	bad := aliceSignup()
	bad.Username = "bob"
	bad.Password = "short"
	_, err = c.Signup(ctx, bad)
	require.ErrorIs(t, err, service.ErrValidation)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "password", apiErr.Field)

	_, err = c.Login(ctx, "alice", "wrong-password")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, service.InvalidCredentialsMessage, apiErr.Message)
	assert.NotErrorIs(t, err, service.ErrDenied)
}

func TestMapHTTPError_PlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Logout(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.Equal(t, "http 502: upstream down", err.Error())
}

func TestNewHTTPAuthClient_Address(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
		wantErr bool
	}{
		{name: "bare host and port", address: "localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash", address: "https://blog.example.com/", want: "https://blog.example.com"},
		{name: "empty", address: "  ", wantErr: true},
		{name: "no host", address: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.address)
			if tt.wantErr {
				assert.Error(t, err)

				_, err = NewHTTPAuthClient(Options{Address: tt.address}, logger.Nop())
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
