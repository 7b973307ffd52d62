// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/actor"
)

func TestConfig_WithDefaultsFillsZeroValues(t *testing.T) {
	got := actor.Config{}.WithDefaults()
	want := actor.DefaultConfig()
	want.SocialProbability = 0

	assert.Equal(t, want, got)
	assert.Equal(t, action.DefaultInitiationDistance, got.InitiationDistance)
	assert.Less(t, got.SocialIdleThreshold, got.DecisionInterval)
}

func TestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := actor.Config{
		DecisionInterval:  5 * time.Second,
		SocialProbability: 0.5,
		PageBudget:        -1,
		MaxWait:           time.Second,
	}.WithDefaults()

	assert.Equal(t, 5*time.Second, cfg.DecisionInterval)
	assert.InDelta(t, 0.5, cfg.SocialProbability, 1e-9)
	assert.Equal(t, -1, cfg.PageBudget)
	assert.Equal(t, time.Second, cfg.MaxWait)
	assert.Equal(t, actor.DefaultRecheckInterval, cfg.RecheckInterval)
}

func TestConfig_SocialProbabilityIsClamped(t *testing.T) {
	assert.InDelta(t, 1.0, actor.Config{SocialProbability: 3}.WithDefaults().SocialProbability, 1e-9)
	assert.InDelta(t, 0.0, actor.Config{SocialProbability: -1}.WithDefaults().SocialProbability, 1e-9)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", actor.StateIdle.String())
	assert.Equal(t, "requesting_decision", actor.StateRequestingDecision.String())
	assert.Equal(t, "processing_queue", actor.StateProcessingQueue.String())
}
