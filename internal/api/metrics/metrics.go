// Package metrics defines and registers all custom Prometheus metrics for the
// GharFindr rental API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gharfindr"

// ── Account security metrics ─────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Labels:
//   - result: "success", "invalid_credentials", "locked", "not_verified", "not_found"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// AccountLockoutsTotal counts accounts entering the locked state.
var AccountLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_lockouts_total",
		Help:      "Total number of account lockouts triggered by repeated failures.",
	},
)

// VerificationsTotal counts email verification attempts by outcome.
// Labels:
//   - result: "verified", "mismatch", "expired", "already_verified"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_verifications_total",
		Help:      "Total number of email verification attempts, by outcome.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts password-reset flow events.
// Labels:
//   - stage: "requested" or "completed"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests and completions.",
	},
	[]string{"stage"},
)

// ── Marketplace metrics ──────────────────────────────────────────────────────

// ListingsCreatedTotal counts newly created listings.
// Labels:
//   - kind: "room" or "roommate"
var ListingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created, by kind.",
	},
	[]string{"kind"},
)

// PaymentsInitiatedTotal counts payment orders handed to the gateway.
var PaymentsInitiatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_initiated_total",
		Help:      "Total number of payment orders initiated.",
	},
)

// PaymentsVerifiedTotal counts gateway verify callbacks by outcome.
// Labels:
//   - result: "paid" or "rejected"
var PaymentsVerifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_verified_total",
		Help:      "Total number of gateway verify callbacks, by outcome.",
	},
	[]string{"result"},
)
