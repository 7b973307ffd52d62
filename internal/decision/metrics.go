// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for decision call metrics.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusInFlight = "in_flight"
	StatusStale    = "stale"
)

// Call kinds.
const (
	KindDecide   = "decide"
	KindConverse = "converse"
)

// Calls counts decision service calls by kind and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Calls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hearth_decisions_total",
		Help: "Total number of decision service calls",
	},
	[]string{"kind", "status"},
)

// CallDuration is the histogram for decision service latency.
// Use RegisterMetrics to register this with a Prometheus registry.
var CallDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "hearth_decision_duration_seconds",
		Help:    "Decision service call duration in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"kind"},
)

// RegisterMetrics registers decision package metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Calls)
	reg.MustRegister(CallDuration)
}

func recordCall(kind, status string, d time.Duration) {
	Calls.WithLabelValues(kind, status).Inc()
	if d > 0 {
		CallDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}
