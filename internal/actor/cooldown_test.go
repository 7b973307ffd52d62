// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hearthsim/hearth/internal/actor"
)

func TestCooldowns_ClaimIsSymmetric(t *testing.T) {
	c := actor.NewCooldowns(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, c.Claim("npc_a", "npc_b", now))
	assert.False(t, c.Claim("npc_b", "npc_a", now.Add(time.Second)))
	assert.False(t, c.Claim("npc_a", "npc_b", now.Add(59*time.Second)))
	assert.True(t, c.Claim("npc_a", "npc_b", now.Add(time.Minute)))

	// Other pairs are independent.
	assert.True(t, c.Claim("npc_a", "npc_c", now))
}

func TestCooldowns_TouchRestartsWindow(t *testing.T) {
	c := actor.NewCooldowns(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c.Touch("npc_b", "npc_a", now)
	assert.False(t, c.Claim("npc_a", "npc_b", now.Add(30*time.Second)))
	assert.True(t, c.Claim("npc_a", "npc_b", now.Add(61*time.Second)))
}

func TestCooldowns_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	c := actor.NewCooldowns(time.Minute)
	now := time.Now()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b := "npc_a", "npc_b"
			if i%2 == 1 {
				a, b = b, a
			}
			if c.Claim(a, b, now) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
