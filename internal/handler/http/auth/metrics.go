package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Token outcomes recorded by TokenHandler.
const (
	outcomeIssued             = "issued"
	outcomeInvalidRequest     = "invalid_request"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeSigningFailed      = "signing_failed"
)

// Authorization decisions recorded by Authz.
const (
	decisionAllowed         = "allowed"
	decisionForbidden       = "forbidden"
	decisionUnauthenticated = "unauthenticated"
)

var (
	// tokenRequestsTotal counts POST /auth/token calls. role is "unknown" until the
	// credentials have been checked.
	tokenRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_requests_total",
			Help: "Token requests by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	tokenRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_token_request_duration_seconds",
			Help:    "Time to validate credentials and sign a token",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	// authzDecisionsTotal counts every request on a protected route. Requests without
	// a valid token are recorded with role "none".
	authzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions on protected routes by role, method and decision",
		},
		[]string{"role", "method", "decision"},
	)

	authzCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_check_duration_seconds",
			Help:    "Token validation and role check duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)
)

// RecordTokenRequest records one token request and how long it took.
func RecordTokenRequest(role, outcome string, d time.Duration) {
	tokenRequestsTotal.WithLabelValues(role, outcome).Inc()
	tokenRequestDuration.Observe(d.Seconds())
}

// RecordAuthzDecision records the result of Authz for one request.
func RecordAuthzDecision(role, method, decision string, d time.Duration) {
	authzDecisionsTotal.WithLabelValues(role, method, decision).Inc()
	authzCheckDuration.Observe(d.Seconds())
}
