package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	sessionTransitions *prometheus.CounterVec
	guardDecisions     *prometheus.CounterVec
	backendResponses   *prometheus.CounterVec
	backendDuration    *prometheus.HistogramVec
	domainEvents       *prometheus.CounterVec
	viewRequests       *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_client_session_transitions_total",
				Help: "Session snapshot replacements by cause.",
			},
			[]string{"cause"},
		),
		guardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_client_guard_decisions_total",
				Help: "Route guard outcomes by decision.",
			},
			[]string{"decision"},
		),
		backendResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_client_backend_responses_total",
				Help: "Backend responses by method and status class.",
			},
			[]string{"method", "class"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketplace_client_backend_duration_seconds",
				Help:    "Backend call latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		domainEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_client_domain_events_total",
				Help: "Domain events published by kind and action.",
			},
			[]string{"kind", "action"},
		),
		viewRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_client_view_requests_total",
				Help: "Rendered view requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
	}
	m.registry.MustRegister(
		m.sessionTransitions,
		m.guardDecisions,
		m.backendResponses,
		m.backendDuration,
		m.domainEvents,
		m.viewRequests,
	)
	return m
}

// RecordSessionTransition counts a session replacement (login, logout, invalidated, restored).
func (m *Metrics) RecordSessionTransition(cause string) {
	if m == nil {
		return
	}
	m.sessionTransitions.WithLabelValues(cause).Inc()
}

// RecordGuardDecision counts a route guard outcome.
func (m *Metrics) RecordGuardDecision(decision string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(decision).Inc()
}

// RecordBackendCall counts a backend response and observes its latency.
func (m *Metrics) RecordBackendCall(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendResponses.WithLabelValues(method, statusClass(status)).Inc()
	m.backendDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordDomainEvent counts a published domain event.
func (m *Metrics) RecordDomainEvent(kind, action string) {
	if m == nil {
		return
	}
	m.domainEvents.WithLabelValues(kind, action).Inc()
}

// RecordView counts a served view request.
func (m *Metrics) RecordView(route, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.viewRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// SessionTransitions exposes the counter for assertions in other packages.
func (m *Metrics) SessionTransitions() *prometheus.CounterVec { return m.sessionTransitions }

func (m *Metrics) GuardDecisions() *prometheus.CounterVec { return m.guardDecisions }

func (m *Metrics) BackendResponses() *prometheus.CounterVec { return m.backendResponses }

func (m *Metrics) DomainEvents() *prometheus.CounterVec { return m.domainEvents }

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "transport_error"
	case status == 401:
		return "unauthorized"
	case status == 403:
		return "forbidden"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
