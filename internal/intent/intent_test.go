// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsim/hearth/internal/intent"
)

func TestParse(t *testing.T) {
	tests := []struct {
		summary string
		want    intent.Intent
	}{
		{"chat with Dana", intent.Intent{Kind: intent.SocializeWith, Name: "Dana"}},
		{"Go talk to Dana about dinner.", intent.Intent{Kind: intent.SocializeWith, Name: "Dana"}},
		{"I want to catch up with Ben Ortiz!", intent.Intent{Kind: intent.SocializeWith, Name: "Ben Ortiz"}},
		{"greet Carla", intent.Intent{Kind: intent.SocializeWith, Name: "Carla"}},
		{"talk to someone", intent.Intent{}},
		{"Heading to wait near Bathroom (it is occupied).", intent.Intent{Kind: intent.WaitFor, Name: "Bathroom"}},
		{"wait outside the Bathroom until it frees up", intent.Intent{Kind: intent.WaitFor, Name: "Bathroom"}},
		{"Waiting by Bedroom_A", intent.Intent{Kind: intent.WaitFor, Name: "Bedroom_A"}},
		{"wait near the bathroom, then chat with Dana", intent.Intent{Kind: intent.WaitFor, Name: "bathroom"}},
		{"make some tea", intent.Intent{}},
		{"", intent.Intent{}},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			assert.Equal(t, tt.want, intent.Parse(tt.summary))
		})
	}
}

func TestParseSocial(t *testing.T) {
	name, ok := intent.ParseSocial("wait near the kitchen, then chat with Dana")
	require.True(t, ok)
	assert.Equal(t, "Dana", name)

	_, ok = intent.ParseSocial("wander around")
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "no_match", intent.NoMatch.String())
	assert.Equal(t, "wait_for", intent.WaitFor.String())
	assert.Equal(t, "socialize_with", intent.SocializeWith.String())
}

func TestClassifier_IsFiller(t *testing.T) {
	c := intent.DefaultClassifier()

	tests := []struct {
		summary string
		want    bool
	}{
		{"Explore the living room", true},
		{"wandering aimlessly", true},
		{"idle", true},
		{"Look around the hallway", true},
		{"", true},
		{"Cook dinner", false},
		{"chat with Dana", false},
	}
	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsFiller(tt.summary))
		})
	}
}

func TestNewClassifier_InvalidPattern(t *testing.T) {
	_, err := intent.NewClassifier("[unterminated")
	assert.Error(t, err)
}
