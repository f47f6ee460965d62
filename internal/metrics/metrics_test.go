package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncrementUsersRegistered()
	m.IncrementJobPostsCreated()
	m.IncrementJobPostsCreated()
	m.IncrementApplicationsSubmitted()
	m.IncrementPaymentsRecorded("MOMO")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsersRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.JobPostsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ApplicationsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentsRecorded.WithLabelValues("MOMO")))
}

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/jobposts", http.StatusOK, time.Now())

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementUsersRegistered()
		m.IncrementJobPostsCreated()
		m.IncrementApplicationsSubmitted()
		m.IncrementPaymentsRecorded("CASH")
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Now())
	})
}
