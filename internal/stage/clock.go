// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package stage

import (
	"time"

	"github.com/hearthsim/hearth/internal/world"
)

// ScaledClock runs world time from an origin at a multiple of wall time.
type ScaledClock struct {
	origin time.Time
	start  time.Time
	scale  float64
	now    func() time.Time
}

var _ world.Clock = (*ScaledClock)(nil)

// NewScaledClock starts a clock at origin. A zero origin starts at the
// current wall time and a non-positive scale runs at wall speed.
func NewScaledClock(origin time.Time, scale float64) *ScaledClock {
	return newScaledClock(origin, scale, time.Now)
}

func newScaledClock(origin time.Time, scale float64, now func() time.Time) *ScaledClock {
	start := now()
	if origin.IsZero() {
		origin = start
	}
	if scale <= 0 {
		scale = 1
	}
	return &ScaledClock{origin: origin, start: start, scale: scale, now: now}
}

// Time returns the current world time.
func (c *ScaledClock) Time() time.Time {
	elapsed := c.now().Sub(c.start)
	return c.origin.Add(time.Duration(float64(elapsed) * c.scale))
}

// Now implements world.Clock.
func (c *ScaledClock) Now() world.TimeReading {
	return world.ReadingAt(c.Time())
}
