package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReservationMetrics(t *testing.T) {
	m := Reservation()
	assert.Same(t, m, Reservation())

	before := testutil.ToFloat64(m.transitions.WithLabelValues("ACCEPT", "ok"))
	m.ObserveTransition("ACCEPT", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(m.transitions.WithLabelValues("ACCEPT", "ok")))

	before = testutil.ToFloat64(m.dependentFailures.WithLabelValues("notification"))
	m.ObserveDependentFailure("notification")
	assert.Equal(t, before+1, testutil.ToFloat64(m.dependentFailures.WithLabelValues("notification")))

	m.ObserveJobRun("PurgeStaleSuggestions", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobRuns.WithLabelValues("PurgeStaleSuggestions", "panic")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *ReservationMetrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("ACCEPT", "ok")
		m.ObserveDependentFailure("notification")
		m.ObserveQuote("NONE")
		m.ObserveJobRun("x", false)
		m.ObserveHTTPRequest("", "2xx")
	})
}
