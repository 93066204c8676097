package service

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the auth core. A nil *Metrics
// records nothing.
type Metrics struct {
	authEvents      *prometheus.CounterVec
	adminActions    *prometheus.CounterVec
	cascadeFailures prometheus.Counter
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *Metrics
)

// NewMetrics registers the collectors on registerer, or once on the default
// registerer when registerer is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultMetricsOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication events by operation and outcome.",
		}, []string{"operation", "outcome"}),
		adminActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "admin",
			Name:      "actions_total",
			Help:      "Admin panel actions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		cascadeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "auth",
			Name:      "cascade_failures_total",
			Help:      "Content cascade signals that could not be delivered.",
		}),
	}
	registerer.MustRegister(m.authEvents, m.adminActions, m.cascadeFailures)
	return m
}

// outcome labels an operation result by error kind.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrUniqueness):
		return "conflict"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrDenied):
		return "denied"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (m *Metrics) observeAuth(operation string, err error) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) observeAdmin(operation string, err error) {
	if m == nil {
		return
	}
	m.adminActions.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) cascadeFailed() {
	if m == nil {
		return
	}
	m.cascadeFailures.Inc()
}
