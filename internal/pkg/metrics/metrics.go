// Package metrics defines and registers the custom Prometheus metrics of the
// storefront API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics register themselves with the default registry through promauto when
// the package is imported; /metrics exposes them alongside the HTTP metrics
// collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests turned away by an access guard.
// Labels:
//   - channel: credential cookie the guard reads ("adminToken", "userToken")
//   - reason: internal cause ("missing", "invalid", "unknown_principal", "role")
//
// The reason never reaches the client; it exists for operators only.
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by an access guard.",
	},
	[]string{"channel", "reason"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - role: role requested in the login body
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by requested role and result.",
	},
	[]string{"role", "result"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartOperationsTotal counts cart aggregator calls.
// Labels:
//   - op: "add", "get", "update", "remove"
//   - result: "ok" or the error class ("not_found", "invalid", "conflict", "error")
var CartOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// CartConflictsTotal counts optimistic version conflicts that forced a cart
// write to be re-read and re-applied.
var CartConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_version_conflicts_total",
		Help:      "Total number of cart writes retried after a version conflict.",
	},
)

// CartOperationDuration measures a cart operation from entry to persistence.
// Label:
//   - op: "add", "get", "update", "remove"
var CartOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_operation_duration_seconds",
		Help:      "Duration of cart operations including time spent waiting for the cart worker.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// CartQueueDepth tracks pending cart mutations in each serializer worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CartQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_queue_depth",
		Help:      "Current number of cart mutations pending in each serializer worker.",
	},
	[]string{"worker_id"},
)
