// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package decision talks to the external decision service on behalf of
// actors: it builds request snapshots, enforces one outstanding call per
// actor, and decodes results.
package decision

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hearthsim/hearth/internal/world"
)

// Trigger names what prompted a decision request.
type Trigger string

// Decision triggers.
const (
	TriggerTimer        Trigger = "timer"
	TriggerSocial       Trigger = "social"
	TriggerReevaluation Trigger = "reevaluation"
	TriggerProximity    Trigger = "proximity"
)

// Turn is one line of conversation.
type Turn struct {
	SpeakerID   string
	SpeakerName string
	Text        string
	At          time.Time
}

// Snapshot is the world as one actor saw it when asking for a decision.
// Snapshots are built by Builder and never modified afterwards.
type Snapshot struct {
	RequestID   ulid.ULID
	ActorID     string
	ActorName   string
	Position    world.Point
	Emotion     world.EmotionalState
	Time        world.TimeReading
	Nearby      []world.ActorView
	Locations   []world.LocationView
	Bounds      world.Rect
	Scene       string
	RecentTurns []Turn
	// Reason explains why the actor is re-evaluating, e.g. after
	// abandoning a wait. Empty for routine requests.
	Reason  string
	Trigger Trigger
	// SocialHint names an actor the requester might approach.
	SocialHint string
}
