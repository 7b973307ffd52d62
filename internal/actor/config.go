// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"time"

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/decision"
)

// Config holds actor timing, probabilities and distances.
// Zero values use the defaults from DefaultConfig.
type Config struct {
	// DecisionInterval is how long an actor stays idle before asking for a
	// new decision.
	DecisionInterval time.Duration `koanf:"decision-interval"`
	// IdleTick is how often idle timers are evaluated.
	IdleTick time.Duration `koanf:"idle-tick"`
	// SocialIdleThreshold is how long an actor must be idle before it starts
	// rolling SocialProbability on each tick. It is meant to be shorter than
	// DecisionInterval.
	SocialIdleThreshold time.Duration `koanf:"social-idle-threshold"`
	// SocialProbability is the per-tick chance of a socially hinted decision.
	SocialProbability float64 `koanf:"social-probability"`
	// SocialRadius bounds who can be named in a social hint.
	SocialRadius float64 `koanf:"social-radius"`
	// RecheckInterval is how often a waiting actor polls availability.
	RecheckInterval time.Duration `koanf:"recheck-interval"`
	// MaxWait bounds every resource wait.
	MaxWait time.Duration `koanf:"max-wait"`
	// ArrivalDistance is how close counts as arrived.
	ArrivalDistance float64 `koanf:"arrival-distance"`
	// MoveTimeout bounds a single move.
	MoveTimeout time.Duration `koanf:"move-timeout"`
	// InitiationDistance is how far from a partner an approach stops.
	InitiationDistance float64 `koanf:"initiation-distance"`
	// InteractionCooldown is the minimum time between two proximity
	// conversations of the same pair.
	InteractionCooldown time.Duration `koanf:"interaction-cooldown"`
	// PageBudget is the character budget per speech page; zero or less
	// shows speech as one page.
	PageBudget int `koanf:"page-budget"`
	// PerPage is how long each page is shown.
	PerPage time.Duration `koanf:"per-page"`
	// DialogueTurns is the number of turns per participant requested for a
	// sub-dialogue.
	DialogueTurns int `koanf:"dialogue-turns"`
	// HistoryTurns is the size of the conversation window sent with decisions.
	HistoryTurns int `koanf:"history-turns"`
}

// Default configuration values.
const (
	DefaultDecisionInterval    = 20 * time.Second
	DefaultIdleTick            = time.Second
	DefaultSocialIdleThreshold = 8 * time.Second
	DefaultSocialProbability   = 0.15
	DefaultSocialRadius        = 8.0
	DefaultRecheckInterval     = 2 * time.Second
	DefaultMaxWait             = 60 * time.Second
	DefaultArrivalDistance     = 0.3
	DefaultMoveTimeout         = 30 * time.Second
	DefaultInteractionCooldown = 2 * time.Minute
	DefaultPageBudget          = 80
	DefaultDialogueTurns       = 2
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DecisionInterval:    DefaultDecisionInterval,
		IdleTick:            DefaultIdleTick,
		SocialIdleThreshold: DefaultSocialIdleThreshold,
		SocialProbability:   DefaultSocialProbability,
		SocialRadius:        DefaultSocialRadius,
		RecheckInterval:     DefaultRecheckInterval,
		MaxWait:             DefaultMaxWait,
		ArrivalDistance:     DefaultArrivalDistance,
		MoveTimeout:         DefaultMoveTimeout,
		InitiationDistance:  action.DefaultInitiationDistance,
		InteractionCooldown: DefaultInteractionCooldown,
		PageBudget:          DefaultPageBudget,
		PerPage:             action.DefaultPerPage,
		DialogueTurns:       DefaultDialogueTurns,
		HistoryTurns:        decision.DefaultHistoryTurns,
	}
}

// WithDefaults returns c with zero values replaced by defaults.
// SocialProbability is only clamped into [0, 1], so zero disables proactive
// socializing. A negative PageBudget is kept and disables pagination.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.DecisionInterval <= 0 {
		c.DecisionInterval = d.DecisionInterval
	}
	if c.IdleTick <= 0 {
		c.IdleTick = d.IdleTick
	}
	if c.SocialIdleThreshold <= 0 {
		c.SocialIdleThreshold = d.SocialIdleThreshold
	}
	if c.SocialProbability < 0 {
		c.SocialProbability = 0
	} else if c.SocialProbability > 1 {
		c.SocialProbability = 1
	}
	if c.SocialRadius <= 0 {
		c.SocialRadius = d.SocialRadius
	}
	if c.RecheckInterval <= 0 {
		c.RecheckInterval = d.RecheckInterval
	}
	if c.MaxWait <= 0 {
		c.MaxWait = d.MaxWait
	}
	if c.ArrivalDistance <= 0 {
		c.ArrivalDistance = d.ArrivalDistance
	}
	if c.MoveTimeout <= 0 {
		c.MoveTimeout = d.MoveTimeout
	}
	if c.InitiationDistance <= 0 {
		c.InitiationDistance = d.InitiationDistance
	}
	if c.InteractionCooldown <= 0 {
		c.InteractionCooldown = d.InteractionCooldown
	}
	if c.PageBudget == 0 {
		c.PageBudget = d.PageBudget
	}
	if c.PerPage <= 0 {
		c.PerPage = d.PerPage
	}
	if c.DialogueTurns <= 0 {
		c.DialogueTurns = d.DialogueTurns
	}
	if c.HistoryTurns <= 0 {
		c.HistoryTurns = d.HistoryTurns
	}
	return c
}
