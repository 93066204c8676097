package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-blog-auth/models"
)

// ── signup ───────────────────────────────────────────────────────────────────

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	valid := models.SignupRequest{
		Username:    "alice",
		Email:       "a@x.com",
		PhoneNumber: "5551234567",
		Gender:      models.GenderFemale,
		Password:    "Secret123",
	}

	rec := s.do(t, http.MethodPost, "/api/auth/signup", valid, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "assword")
	assert.Nil(t, sessionCookieOf(rec), "signup does not log in")

	var resp models.UserResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice", resp.User.Username)
	assert.False(t, resp.User.IsAdmin)

	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{name: "duplicate username", body: func() models.SignupRequest {
			r := valid
			r.Username, r.Email, r.PhoneNumber = "ALICE", "b@x.com", "5551234568"
			return r
		}(), status: http.StatusConflict, field: "username"},
		{name: "bad email", body: func() models.SignupRequest {
			r := valid
			r.Username, r.Email = "carol", "carol"
			return r
		}(), status: http.StatusBadRequest, field: "email"},
		{name: "bad gender", body: func() models.SignupRequest {
			r := valid
			r.Username, r.Email, r.PhoneNumber, r.Gender = "dave", "d@x.com", "5551234569", "robot"
			return r
		}(), status: http.StatusBadRequest, field: "gender"},
		{name: "malformed json", body: `{"username":`, status: http.StatusBadRequest},
		{name: "empty body", body: "", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/auth/signup", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.field, errorOf(t, rec).Field)
		})
	}
}

// ── login ────────────────────────────────────────────────────────────────────

func TestLogin_SetsSessionCookie(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{EmailOrUsername: "root@blog.local", Password: testRootPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookieOf(rec)
	require.NotNil(t, cookie)
	assert.Len(t, cookie.Value, 64)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.False(t, cookie.Secure)

	var resp models.UserResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.User)
	assert.Equal(t, testRootID, resp.User.ID)
	assert.NotContains(t, rec.Body.String(), cookie.Value, "the token travels only in the cookie")
}

func TestLogin_SecureCookie(t *testing.T) {
	s := newTestServer(t, func(o *Options) { o.CookieSecure = true })

	cookie := s.login(t, "root", testRootPassword)
	assert.True(t, cookie.Secure)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)

	wrong := s.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{EmailOrUsername: "root", Password: "wrong-password"}, nil)
	missing := s.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{EmailOrUsername: "nobody@x.com", Password: "wrong-password"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.JSONEq(t, wrong.Body.String(), missing.Body.String())
	assert.Equal(t, "invalid credentials", errorOf(t, wrong).Error)
	assert.Nil(t, sessionCookieOf(wrong))
}

func TestLogin_BlankIdentifier(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{EmailOrUsername: "  ", Password: "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "emailOrUsername", errorOf(t, rec).Field)
}

// ── me / logout ──────────────────────────────────────────────────────────────

func TestMe(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: "session", Value: "forged"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	cookie := s.login(t, "root", testRootPassword)
	rec = s.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.UserResponse
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.User)
	assert.Equal(t, "root", resp.User.Username)
	assert.True(t, resp.User.IsAdmin)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "root", testRootPassword)

	rec := s.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := sessionCookieOf(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	rec = s.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	// again, and without any cookie
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/logout", nil, cookie).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/auth/logout", nil, nil).Code)
}

func TestLogoutAll(t *testing.T) {
	s := newTestServer(t)
	first := s.login(t, "root", testRootPassword)
	second := s.login(t, "root", testRootPassword)

	rec := s.do(t, http.MethodPost, "/api/auth/logout-all", nil, first)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.RevokedSessionsResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Revoked)

	rec = s.do(t, http.MethodGet, "/api/auth/me", nil, second)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/logout-all", nil, nil).Code)
}

// ── profile ──────────────────────────────────────────────────────────────────

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.signupAndLogin(t, "alice", "a@x.com", "5551234567")

	rec := s.do(t, http.MethodGet, "/api/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", errorOf(t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/profile", models.ProfileUpdateRequest{
		Username:    "alice2",
		Email:       "alice2@x.com",
		PhoneNumber: "5551234567",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.UserResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "alice2", resp.User.Username)

	rec = s.do(t, http.MethodPut, "/api/profile", models.ProfileUpdateRequest{
		Username:    "root",
		Email:       "alice2@x.com",
		PhoneNumber: "5551234567",
	}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username", errorOf(t, rec).Field)

	// a gender field in the body is ignored
	rec = s.do(t, http.MethodPut, "/api/profile", `{"username":"alice2","email":"alice2@x.com","phoneNumber":"5551234567","gender":"male","isAdmin":true}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.GenderOther, resp.User.Gender)
	assert.False(t, resp.User.IsAdmin)
}

// ── delete account ───────────────────────────────────────────────────────────

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	id, cookie := s.signupAndLogin(t, "alice", "a@x.com", "5551234567")

	rec := s.do(t, http.MethodDelete, "/api/auth/delete-account", models.DeleteAccountRequest{Password: "nope-nope"}, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/auth/delete-account", models.DeleteAccountRequest{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/auth/delete-account", models.DeleteAccountRequest{Password: "Secret123"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Less(t, sessionCookieOf(rec).MaxAge, 0)

	_, found, err := s.deps.Users.FindByID(t.Context(), id)
	require.NoError(t, err)
	assert.False(t, found)

	rec = s.do(t, http.MethodDelete, "/api/auth/delete-account", models.DeleteAccountRequest{Password: "Secret123"}, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteAccount_RootIsProtected(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "root", testRootPassword)

	rec := s.do(t, http.MethodDelete, "/api/auth/delete-account", models.DeleteAccountRequest{Password: testRootPassword}, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "protected account", errorOf(t, rec).Error)
}
