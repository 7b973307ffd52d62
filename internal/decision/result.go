// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/hearthsim/hearth/internal/world"
)

// Driver flags that mark a result as socially motivated.
const (
	DriverSocialConsidered = "social_interaction_considered"
	DriverSocialDriven     = "social_driven"
	DriverDialogueDriven   = "dialogue_driven"
)

// Result is a decision for one actor.
type Result struct {
	RequestID ulid.ULID
	ActorID   string
	Target    world.Point
	// Summary is the chosen-action text. It is parsed for intent on a
	// best-effort basis.
	Summary   string
	Reasoning string
	Drivers   map[string]bool
	// Emotion replaces the actor's emotional state when set.
	Emotion *world.EmotionalState
	Trigger Trigger
}

// Social reports whether the drivers mark the result as socially motivated.
func (r Result) Social() bool {
	return r.Drivers[DriverSocialConsidered] || r.Drivers[DriverSocialDriven]
}

// Participant is one side of a sub-dialogue.
type Participant struct {
	ID      string
	Name    string
	Emotion world.EmotionalState
}

// DialogueRequest asks the service to run a conversation between actors.
type DialogueRequest struct {
	// SessionID continues an earlier conversation when non-empty.
	SessionID    string
	Participants []Participant
	Scene        string
	Time         world.TimeReading
	MaxTurns     int
}

// DialogueResponse is the generated conversation.
type DialogueResponse struct {
	SessionID string
	Turns     []Turn
}

// Service is the external decision service.
type Service interface {
	Decide(ctx context.Context, snap Snapshot) (Result, error)
	Converse(ctx context.Context, req DialogueRequest) (DialogueResponse, error)
}
