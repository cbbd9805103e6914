// Package metrics defines and registers all custom Prometheus metrics for
// the delirium scorecard API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scorecard"

// ── Authentication metrics ────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok" or "rejected"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests turned away by the auth gate.
// Label:
//   - reason: "unauthenticated", "expired", "inactive" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected before reaching a handler.",
	},
	[]string{"reason"},
)

// ── User management metrics ───────────────────────────────────────────────────

// UserMutationsTotal counts successful user-management operations.
// Label:
//   - action: "create", "update", "update_password" or "delete"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of committed user-management mutations, by action.",
	},
	[]string{"action"},
)

// ── Dataset metrics ───────────────────────────────────────────────────────────

// DatasetLoadsTotal counts object-store dataset loads.
// Labels:
//   - dataset: the object name (e.g. "delirium_rates.csv")
//   - result: "ok" or "error"
var DatasetLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_loads_total",
		Help:      "Total number of dataset fetches from object storage.",
	},
	[]string{"dataset", "result"},
)

// DatasetCacheTotal counts cache lookups for shaped datasets.
// Label:
//   - result: "hit" or "miss"
var DatasetCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_cache_total",
		Help:      "Total number of dataset cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// DatasetLoadDuration measures how long a successful dataset fetch-and-parse
// takes.
// Label:
//   - dataset: the object name
var DatasetLoadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dataset_load_duration_seconds",
		Help:      "Duration of dataset loads from object storage through CSV parsing.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"dataset"},
)
