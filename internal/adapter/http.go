package adapter

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/models"
)

const defaultTimeout = 15 * time.Second

// Options configures [NewHTTPAuthClient].
type Options struct {
	// Address is the server base URL. A bare host:port gets an http scheme.
	Address string
	// Timeout bounds each request. Zero means 15 seconds.
	Timeout time.Duration
}

type httpAuthClient struct {
	client *resty.Client
	logger *logger.Logger
}

// NewHTTPAuthClient returns an [AuthClient] for the server at opts.Address.
// It fails when the address is empty or not a valid URL.
func NewHTTPAuthClient(opts Options, logger *logger.Logger) (AuthClient, error) {
	baseURL, err := normalizeBaseURL(opts.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetCookieJar(jar).
		SetHeader("Content-Type", "application/json")

	return &httpAuthClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (c *httpAuthClient) Signup(ctx context.Context, req models.SignupRequest) (models.User, error) {
	var out models.UserResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/auth/signup")
	if err != nil {
		return models.User{}, fmt.Errorf("signup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return userOf(out)
}

func (c *httpAuthClient) Login(ctx context.Context, emailOrUsername, password string) (models.User, error) {
	var out models.UserResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(models.LoginRequest{EmailOrUsername: emailOrUsername, Password: password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return models.User{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	c.logger.Debug().Str("user_id", idOf(out)).Msg("logged in")
	return userOf(out)
}

func (c *httpAuthClient) Me(ctx context.Context) (models.User, bool, error) {
	var out models.UserResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/auth/me")
	if err != nil {
		return models.User{}, false, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, false, err
	}

	if out.User == nil {
		return models.User{}, false, nil
	}
	return *out.User, true, nil
}

func (c *httpAuthClient) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (models.User, error) {
	var out models.UserResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Put("/api/profile")
	if err != nil {
		return models.User{}, fmt.Errorf("update profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return userOf(out)
}

func (c *httpAuthClient) Logout(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

func (c *httpAuthClient) DeleteAccount(ctx context.Context, password string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(models.DeleteAccountRequest{Password: password}).
		Delete("/api/auth/delete-account")
	if err != nil {
		return fmt.Errorf("delete account request: %w", err)
	}

	return mapHTTPError(resp)
}

func userOf(out models.UserResponse) (models.User, error) {
	if out.User == nil {
		return models.User{}, fmt.Errorf("response carries no user")
	}
	return *out.User, nil
}

func idOf(out models.UserResponse) string {
	if out.User == nil {
		return ""
	}
	return out.User.ID
}
