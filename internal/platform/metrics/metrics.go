package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/staffsync/staffsync-backend/internal/core/events"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CheckIns            *prometheus.CounterVec
	LeaveReviews        *prometheus.CounterVec
	EmployeesJoined     prometheus.Counter
	RevocationChecks    *prometheus.CounterVec
}

// New registers every collector on a dedicated registry so tests can build
// as many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffsync_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffsync_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		CheckIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffsync_attendance_checkins_total",
			Help: "Employee check-ins by resulting status",
		}, []string{"status"}),
		LeaveReviews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffsync_leave_reviews_total",
			Help: "Leave request reviews by decision",
		}, []string{"status"}),
		EmployeesJoined: factory.NewCounter(prometheus.CounterOpts{
			Name: "staffsync_employees_joined_total",
			Help: "Employees created through signup",
		}),
		RevocationChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "staffsync_token_revocation_checks_total",
			Help: "Token revocation lookups by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route, method, status string, seconds float64) {
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Metrics) ObserveRevocationCheck(revoked bool, err error) {
	switch {
	case err != nil:
		m.RevocationChecks.WithLabelValues("error").Inc()
	case revoked:
		m.RevocationChecks.WithLabelValues("revoked").Inc()
	default:
		m.RevocationChecks.WithLabelValues("valid").Inc()
	}
}

// Subscribe wires the domain counters to the event bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeAttendanceCheckedIn, func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(*events.AttendanceCheckedInEvent); ok {
			m.CheckIns.WithLabelValues(evt.Status).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeLeaveReviewed, func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(*events.LeaveReviewedEvent); ok {
			m.LeaveReviews.WithLabelValues(evt.Status).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeEmployeeJoined, func(ctx context.Context, e events.Event) error {
		m.EmployeesJoined.Inc()
		return nil
	})
}
