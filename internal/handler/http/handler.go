package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
)

// Options tunes the transport.
type Options struct {
	// CookieName is the name of the session cookie.
	CookieName string
	// CookieSecure sets the Secure attribute on the session cookie.
	CookieSecure bool
	// SessionTTL becomes the cookie Max-Age. Zero or less makes the cookie
	// live for the browser session.
	SessionTTL time.Duration

	RequestTimeout time.Duration

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

type Handler struct {
	services *service.Services
	opts     Options

	logger *logger.Logger
}

func NewHandler(services *service.Services, opts Options, logger *logger.Logger) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	logger.Info().Str("cookie", opts.CookieName).Msg("http handler created")
	return &Handler{
		services: services,
		opts:     opts,
		logger:   logger,
	}
}
