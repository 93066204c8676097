package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/crypto"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
	"github.com/MKhiriev/go-blog-auth/internal/store"
	"github.com/MKhiriev/go-blog-auth/internal/utils"
	"github.com/MKhiriev/go-blog-auth/internal/validators"
	"github.com/MKhiriev/go-blog-auth/models"
)

const (
	testRootID       = "admin-1"
	testRootPassword = "RootSecret1"
)

type testServer struct {
	router   *chi.Mux
	deps     service.Dependencies
	registry *prometheus.Registry
}

// newTestServer wires the real services over memory stores, with a
// bootstrapped root admin, behind the router.
func newTestServer(t *testing.T, mutate ...func(*Options)) *testServer {
	t.Helper()
	return newLoggedTestServer(t, logger.Nop(), mutate...)
}

// newLoggedTestServer is newTestServer with request logging into log.
func newLoggedTestServer(t *testing.T, log *logger.Logger, mutate ...func(*Options)) *testServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	deps := service.Dependencies{
		Users:       store.NewMemoryUserRepository(utils.NewUUIDGenerator(), logger.Nop()),
		Sessions:    store.NewMemorySessionRepository(time.Hour, logger.Nop()),
		Hasher:      crypto.NewBcryptHasher(bcrypt.MinCost),
		Validator:   validators.NewUserValidator(),
		Metrics:     service.NewMetrics(registry),
		RootAdminID: testRootID,
	}

	_, err := service.BootstrapRootAdmin(context.Background(), deps, config.Admin{
		Username: "root",
		Email:    "root@blog.local",
		Password: testRootPassword,
		Phone:    "5550000000",
		Gender:   "other",
	}, logger.Nop())
	require.NoError(t, err)

	opts := Options{
		CookieName:     "session",
		SessionTTL:     time.Hour,
		RequestTimeout: 5 * time.Second,
	}
	for _, m := range mutate {
		m(&opts)
	}

	h := NewHandler(service.NewServices(deps, logger.Nop()), opts, log)
	return &testServer{router: h.Init(), deps: deps, registry: registry}
}

// do sends one request through the router. body is JSON-encoded unless it
// is already a string.
func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// login returns the session cookie of a successful login.
func (s *testServer) login(t *testing.T, identifier, password string) *http.Cookie {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{EmailOrUsername: identifier, Password: password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookie := sessionCookieOf(rec)
	require.NotNil(t, cookie)
	return cookie
}

// signupAndLogin registers username and returns its id and session cookie.
func (s *testServer) signupAndLogin(t *testing.T, username, email, phone string) (string, *http.Cookie) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/signup", models.SignupRequest{
		Username:    username,
		Email:       email,
		PhoneNumber: phone,
		Gender:      models.GenderOther,
		Password:    "Secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.UserResponse
	decodeBody(t, rec, &resp)
	return resp.User.ID, s.login(t, username, "Secret123")
}

func sessionCookieOf(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	return resp
}
