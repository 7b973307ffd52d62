// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"sync"
	"time"
)

// Cooldowns spaces out proximity conversations per pair of actors. Both
// actors of a pair usually see each other enter range at the same moment;
// only the first claim wins.
type Cooldowns struct {
	mu     sync.Mutex
	window time.Duration
	last   map[[2]string]time.Time
}

// NewCooldowns creates a tracker with the given window.
func NewCooldowns(window time.Duration) *Cooldowns {
	return &Cooldowns{window: window, last: make(map[[2]string]time.Time)}
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Claim reserves an interaction between a and b at now. It fails while an
// earlier claim of the same pair is younger than the window.
func (c *Cooldowns) Claim(a, b string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := pairKey(a, b)
	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.last[key] = now
	return true
}

// Touch restarts the pair's window, e.g. after a decision-driven conversation.
func (c *Cooldowns) Touch(a, b string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[pairKey(a, b)] = now
}
