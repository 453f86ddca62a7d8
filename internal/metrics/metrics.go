// Package metrics exposes the Prometheus collectors for the auth and
// key-lifecycle subsystem. Collectors are registered with promauto on the
// default registry and served through promhttp on GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptguard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptguard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptguard_logins_total",
			Help: "Total login attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	tokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptguard_token_refreshes_total",
			Help: "Total refresh-token rotations by outcome",
		},
		[]string{"outcome"},
	)

	replayRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cryptguard_replay_rejections_total",
			Help: "Total requests rejected by the replay guard",
		},
	)

	securityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptguard_security_events_total",
			Help: "Total security events by type",
		},
		[]string{"event"},
	)

	attestationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptguard_attestations_total",
			Help: "Total ledger attestation checks by result",
		},
		[]string{"result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cryptguard_sessions_active",
			Help: "Number of sessions currently stored",
		},
	)

	sweptSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cryptguard_sessions_swept_total",
			Help: "Total expired sessions removed by the sweep worker",
		},
	)
)

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLogin counts a login attempt. method is "password" or "wallet",
// outcome is "success" or "failure".
func RecordLogin(method string, success bool) {
	loginsTotal.WithLabelValues(method, outcome(success)).Inc()
}

// RecordTokenRefresh counts a refresh-token rotation attempt.
func RecordTokenRefresh(success bool) {
	tokenRefreshesTotal.WithLabelValues(outcome(success)).Inc()
}

// RecordReplayRejection counts a request rejected for nonce reuse.
func RecordReplayRejection() {
	replayRejectionsTotal.Inc()
}

// RecordSecurityEvent counts a named security event, e.g. "identity_mismatch"
// or "integrity_check_failed".
func RecordSecurityEvent(event string) {
	securityEventsTotal.WithLabelValues(event).Inc()
}

// RecordAttestation counts a ledger attestation check by its result label
// ("verified", "unavailable" or "mismatch").
func RecordAttestation(result string) {
	attestationsTotal.WithLabelValues(result).Inc()
}

// SetActiveSessions publishes the current stored-session count.
func SetActiveSessions(n float64) {
	activeSessions.Set(n)
}

// AddSweptSessions counts sessions removed by the expiry sweep worker.
func AddSweptSessions(n int64) {
	sweptSessionsTotal.Add(float64(n))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
