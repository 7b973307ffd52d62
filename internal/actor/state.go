// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

// State is the actor's outer control state.
type State int

// Actor states.
const (
	// StateIdle has no queued work and no outstanding decision call.
	StateIdle State = iota
	// StateRequestingDecision has a decision call outstanding and nothing to drain.
	StateRequestingDecision
	// StateProcessingQueue is draining at least one action item.
	StateProcessingQueue
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingDecision:
		return "requesting_decision"
	case StateProcessingQueue:
		return "processing_queue"
	default:
		return "unknown"
	}
}
