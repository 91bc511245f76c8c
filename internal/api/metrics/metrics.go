// Package metrics defines and registers all custom Prometheus metrics for the
// Service Bazaar API. It is the single source of truth for metric names,
// labels, and help strings.
//
// The router calls Register with the same registry it serves on /metrics,
// so the domain counters always appear next to the HTTP metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bazaar"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login calls.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts.",
	},
	[]string{"operation", "result"},
)

// AuthorizationDeniedTotal counts requests rejected by the route guard.
// Label:
//   - reason: "missing_token", "invalid_token" or "insufficient_role"
var AuthorizationDeniedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests rejected by the route guard.",
	},
	[]string{"reason"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by route.",
	},
	[]string{"route"},
)

// ── Catalog and booking metrics ───────────────────────────────────────────────

// ServiceMutationsTotal counts successful catalog changes.
// Label:
//   - operation: "create", "update" or "delete"
var ServiceMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_mutations_total",
		Help:      "Total number of catalog changes, by operation.",
	},
	[]string{"operation"},
)

// BookingsTotal counts booking requests that returned a booking.
// Label:
//   - result: "created" or "replayed" (Idempotency-Key hit)
var BookingsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of bookings returned, by result.",
	},
	[]string{"result"},
)

// InboxSubmissionsTotal counts feedback and contact submissions.
var InboxSubmissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inbox_submissions_total",
		Help:      "Total number of feedback and contact submissions.",
	},
	[]string{"kind"},
)

// Register adds every collector above to reg. Collectors already present in
// reg are skipped, so the call is safe to repeat.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		AuthAttemptsTotal,
		AuthorizationDeniedTotal,
		RateLimitedTotal,
		ServiceMutationsTotal,
		BookingsTotal,
		InboxSubmissionsTotal,
	} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
