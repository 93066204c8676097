package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-blog-auth/internal/config"
	"github.com/MKhiriev/go-blog-auth/internal/handler/http"
	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers. gatherer backs /metrics when
// cfg.Server.MetricsEnabled is set; a nil gatherer falls back to the default
// registry.
func NewHandlers(services *service.Services, cfg *config.StructuredConfig, gatherer prometheus.Gatherer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	opts := http.Options{
		CookieName:     cfg.App.CookieName,
		CookieSecure:   cfg.App.CookieSecure,
		SessionTTL:     cfg.App.SessionTTL,
		RequestTimeout: cfg.Server.RequestTimeout,
	}
	if cfg.Server.MetricsEnabled {
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		opts.Metrics = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}

	return &Handlers{HTTP: http.NewHandler(services, opts, logger)}, nil
}
