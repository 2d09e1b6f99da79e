package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ReservationMetrics tracks lifecycle outcomes of the reservation engine.
type ReservationMetrics struct {
	transitions       *prometheus.CounterVec
	dependentFailures *prometheus.CounterVec
	quotes            *prometheus.CounterVec
	jobRuns           *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
}

var (
	reservationOnce     sync.Once
	reservationRegistry *ReservationMetrics
)

// Reservation returns the process-wide metrics, registering them on first use.
func Reservation() *ReservationMetrics {
	reservationOnce.Do(func() {
		reservationRegistry = &ReservationMetrics{
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staybook_reservation_transitions_total",
				Help: "Reservation lifecycle actions by action and outcome.",
			}, []string{"action", "outcome"}),
			dependentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staybook_dependent_action_failures_total",
				Help: "Compound action steps that failed after the status change was kept.",
			}, []string{"step"}),
			quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staybook_price_quotes_total",
				Help: "Price quotes computed by lead-time tier.",
			}, []string{"lead_tier"}),
			jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staybook_job_runs_total",
				Help: "Scheduled job executions by job and outcome.",
			}, []string{"job", "outcome"}),
			httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staybook_http_requests_total",
				Help: "HTTP requests by route and status class.",
			}, []string{"route", "code"}),
		}
		prometheus.MustRegister(
			reservationRegistry.transitions,
			reservationRegistry.dependentFailures,
			reservationRegistry.quotes,
			reservationRegistry.jobRuns,
			reservationRegistry.httpRequests,
		)
	})
	return reservationRegistry
}

// ObserveTransition records an action attempt. outcome is "ok" or an error class.
func (m *ReservationMetrics) ObserveTransition(action, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.transitions.WithLabelValues(action, outcome).Inc()
}

func (m *ReservationMetrics) ObserveDependentFailure(step string) {
	if m == nil {
		return
	}
	m.dependentFailures.WithLabelValues(step).Inc()
}

func (m *ReservationMetrics) ObserveQuote(leadTier string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(leadTier).Inc()
}

func (m *ReservationMetrics) ObserveJobRun(job string, failed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "panic"
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
}

func (m *ReservationMetrics) ObserveHTTPRequest(route, code string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, code).Inc()
}
