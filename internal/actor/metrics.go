// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for action item metrics.
const (
	ItemStatusSuccess   = "success"
	ItemStatusError     = "error"
	ItemStatusTimeout   = "timeout"
	ItemStatusCancelled = "cancelled"
)

// Outcome constants for resource wait metrics.
const (
	WaitAvailable = "available"
	WaitElapsed   = "elapsed"
	WaitCeiling   = "ceiling"
	WaitCancelled = "cancelled"
)

// ActionItems counts completed action items.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActionItems = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hearth_action_items_total",
		Help: "Total number of action items drained",
	},
	[]string{"kind", "status"},
)

// ResourceWaits counts finished resource waits by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var ResourceWaits = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hearth_resource_waits_total",
		Help: "Total number of resource waits by outcome",
	},
	[]string{"outcome"},
)

// ActorsActive is the number of running actors.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActorsActive = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "hearth_actors_active",
		Help: "Number of running actors",
	},
)

// StateTransitions counts actor state changes.
// Use RegisterMetrics to register this with a Prometheus registry.
var StateTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hearth_actor_state_transitions_total",
		Help: "Total number of actor state transitions",
	},
	[]string{"from", "to"},
)

// RegisterMetrics registers actor package metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ActionItems)
	reg.MustRegister(ResourceWaits)
	reg.MustRegister(ActorsActive)
	reg.MustRegister(StateTransitions)
}
