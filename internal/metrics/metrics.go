// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks business events and HTTP latency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UsersRegistered       prometheus.Counter
	JobPostsCreated       prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	PaymentsRecorded      *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "ejobs_users_registered_total",
			Help: "Total number of self-registered users",
		}),
		JobPostsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ejobs_jobposts_created_total",
			Help: "Total number of job posts created by employers",
		}),
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ejobs_applications_submitted_total",
			Help: "Total number of job applications submitted",
		}),
		PaymentsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ejobs_payments_recorded_total",
			Help: "Total number of payments recorded, by payment method",
		}, []string{"method"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ejobs_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncrementUsersRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncrementJobPostsCreated() {
	if m == nil {
		return
	}
	m.JobPostsCreated.Inc()
}

func (m *Metrics) IncrementApplicationsSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) IncrementPaymentsRecorded(method string) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(method).Inc()
}

// ObserveHTTPRequest records a request duration.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
