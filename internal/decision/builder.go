// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"github.com/oklog/ulid/v2"

	"github.com/hearthsim/hearth/internal/world"
)

// Default perception radii.
const (
	DefaultNearbyRadius  = 8.0
	DefaultVisibleRadius = 15.0
)

// Builder assembles snapshots from an actor's world context.
type Builder struct {
	Clock world.Clock
	// NearbyRadius bounds the actors included; zero uses DefaultNearbyRadius.
	NearbyRadius float64
	// VisibleRadius bounds the locations included; zero uses DefaultVisibleRadius.
	VisibleRadius float64
}

// Request carries the per-call inputs to Build.
type Request struct {
	Trigger    Trigger
	Reason     string
	SocialHint string
}

// Build captures the current world state for actor. history may be nil.
func (b Builder) Build(actor world.Actor, provider world.ContextProvider, history *History, req Request) Snapshot {
	nearby := b.NearbyRadius
	if nearby <= 0 {
		nearby = DefaultNearbyRadius
	}
	visible := b.VisibleRadius
	if visible <= 0 {
		visible = DefaultVisibleRadius
	}

	snap := Snapshot{
		RequestID:  ulid.Make(),
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Position:   provider.CurrentPosition(),
		Emotion:    actor.Emotion.Normalized(),
		Bounds:     provider.PlayableBounds(),
		Scene:      provider.GeneralDescription(),
		Reason:     req.Reason,
		Trigger:    req.Trigger,
		SocialHint: req.SocialHint,
	}
	if b.Clock != nil {
		snap.Time = b.Clock.Now()
	}
	for _, v := range provider.NearbyActors(true, nearby) {
		if v.ID != actor.ID {
			snap.Nearby = append(snap.Nearby, v)
		}
	}
	for _, v := range provider.VisibleLocations(visible) {
		v.Notes = append([]string(nil), v.Notes...)
		v.Tags = append([]string(nil), v.Tags...)
		snap.Locations = append(snap.Locations, v)
	}
	if history != nil {
		snap.RecentTurns = history.Recent()
	}
	return snap
}
