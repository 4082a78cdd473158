// Package metrics defines all custom Prometheus metrics for the wallet
// gateway. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wallet"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionRestoresTotal counts startup restore attempts.
// Label:
//   - result: "restored" (persisted session applied), "empty" (no persisted
//     session), or "corrupt" (persisted user record failed to parse)
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts, by result.",
	},
	[]string{"result"},
)

// ── Refresh metrics ───────────────────────────────────────────────────────────

// RefreshesTotal counts wallet refresh cycles.
// Label:
//   - mode: "initial" (spinner shown) or "silent" (pull-to-refresh)
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of wallet refresh cycles, by mode.",
	},
	[]string{"mode"},
)

// RefreshSliceFailuresTotal counts per-slice fetch failures inside a refresh.
// Label:
//   - slice: "balance", "history", or "stats"
var RefreshSliceFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_slice_failures_total",
		Help:      "Total number of failed slice fetches during wallet refreshes.",
	},
	[]string{"slice"},
)

// RefreshDuration measures a full refresh cycle from fan-out to state apply.
// Label:
//   - mode: "initial" or "silent"
var RefreshDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of wallet refresh cycles.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts deposit and withdraw attempts.
// Labels:
//   - kind: "deposit" or "withdraw"
//   - outcome: "accepted", "rejected_local", "rejected_remote", or
//     "transport_error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of wallet mutation attempts, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)
