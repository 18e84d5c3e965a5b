// Package metrics defines and registers all custom Prometheus metrics for the
// user API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userapi"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "SUCCESS", "INVALID_CREDENTIALS", "ACCOUNT_DISABLED", "ACCOUNT_LOCKED" or "AUTHENTICATION_ERROR"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenValidationsTotal counts bearer token checks.
// Label:
//   - result: "valid", "missing_header", "malformed", "bad_signature", "expired", "subject_mismatch"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// ValidationFailuresTotal counts rejected fields of user and role mutations.
// Labels:
//   - entity: "user" or "role"
//   - field: the rejected field (e.g. "email", "roleName")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of rejected mutation fields.",
	},
	[]string{"entity", "field"},
)

// ServiceCallDuration measures service entry point latency.
// Labels:
//   - method: e.g. "users.Create"
//   - outcome: "ok" or "error"
var ServiceCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "service_call_duration_seconds",
		Help:      "Duration of service entry point calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "outcome"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by action and persistence result.
// Labels:
//   - action: the audited action (e.g. "USER_CREATED")
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events processed by the dispatcher.",
	},
	[]string{"action", "result"},
)

// AuditQueueDepth tracks pending audit events in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
