// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package world

import "time"

// ContextProvider answers scene queries for one actor.
type ContextProvider interface {
	CurrentPosition() Point
	// NearbyActors lists actors within radius; the asking actor is left out
	// when excludeSelf is set.
	NearbyActors(excludeSelf bool, radius float64) []ActorView
	// VisibleLocations lists locations within radius with their live status tags.
	VisibleLocations(radius float64) []LocationView
	PlayableBounds() Rect
	GeneralDescription() string
}

// Mover moves one actor. onArrival is invoked once when the actor reaches
// the point; it is not invoked after Stop.
type Mover interface {
	MoveTo(target Point, onArrival func())
	Stop()
	IsMoving() bool
}

// Display renders text for one actor. onAllPagesShown is invoked once every
// page has been shown for perPage.
type Display interface {
	ShowText(text string, perPage time.Duration, onAllPagesShown func())
}
