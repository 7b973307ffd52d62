// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package world

import (
	"fmt"
	"time"
)

// Default emotional state values.
const (
	DefaultPrimaryEmotion = "neutral"
	DefaultIntensity      = 0.5
)

// EmotionalState is an actor's personality snapshot.
type EmotionalState struct {
	Primary   string    `json:"primary_emotion" yaml:"primary"`
	Intensity float64   `json:"intensity" yaml:"intensity"`
	MoodTags  []string  `json:"mood_tags" yaml:"mood_tags,omitempty"`
	ChangedAt time.Time `json:"last_significant_change_at,omitzero" yaml:"-"`
}

// DefaultEmotion returns the state used when nothing else is known.
func DefaultEmotion() EmotionalState {
	return EmotionalState{Primary: DefaultPrimaryEmotion, Intensity: DefaultIntensity}
}

// Validate checks the intensity range and tag count.
func (e EmotionalState) Validate() error {
	if e.Intensity < 0 || e.Intensity > 1 {
		return &ValidationError{Field: "intensity", Message: fmt.Sprintf("must be within [0, 1], got %g", e.Intensity)}
	}
	if len(e.MoodTags) > MaxMoodTags {
		return &ValidationError{Field: "mood_tags", Message: fmt.Sprintf("exceeds maximum count of %d", MaxMoodTags)}
	}
	return nil
}

// Normalized fills an empty primary emotion and clamps intensity into [0, 1].
func (e EmotionalState) Normalized() EmotionalState {
	if e.Primary == "" {
		e.Primary = DefaultPrimaryEmotion
	}
	e.Intensity = min(1, max(0, e.Intensity))
	if len(e.MoodTags) > MaxMoodTags {
		e.MoodTags = e.MoodTags[:MaxMoodTags]
	}
	e.MoodTags = append([]string(nil), e.MoodTags...)
	return e
}

// Actor is an autonomous agent in the simulated world.
type Actor struct {
	ID             string
	Name           string
	Emotion        EmotionalState
	Position       Point
	DecisionDriven bool
}

// NewActor creates a decision-driven actor with the default emotional state.
// The actor is validated before being returned.
func NewActor(id, name string, pos Point) (*Actor, error) {
	a := &Actor{
		ID:             id,
		Name:           name,
		Emotion:        DefaultEmotion(),
		Position:       pos,
		DecisionDriven: true,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the actor has required fields.
func (a *Actor) Validate() error {
	if err := ValidateID(a.ID); err != nil {
		return err
	}
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	return a.Emotion.Validate()
}

// ActorView is what one actor can see of another.
type ActorView struct {
	ID       string
	Name     string
	Kind     string // "npc", "player", ...
	Position Point
}
