package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoginAttempts counts completed OAuth callback flows per provider and
	// outcome. Outcomes: success, no_verified_email, handshake_failed,
	// directory_error, invalid_state.
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authsvc", Name: "login_attempts_total", Help: "Number of OAuth login attempts by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	UsersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authsvc", Name: "users_created_total", Help: "Number of users created through OAuth first logins."},
		[]string{"provider"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authsvc", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "authsvc", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(UsersCreated)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
