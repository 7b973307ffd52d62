// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package stage

import "github.com/hearthsim/hearth/internal/world"

// Proximity detects actors entering range of each other. A pair is reported
// once per approach and again only after it has left range.
type Proximity struct {
	radius  float64
	inRange map[[2]string]bool
}

// NewProximity creates a detector for the given radius.
func NewProximity(radius float64) *Proximity {
	return &Proximity{radius: radius, inRange: make(map[[2]string]bool)}
}

// Update returns the pairs that came within range since the previous call.
// The first view of each pair is the earlier one in views. Not safe for
// concurrent use.
func (p *Proximity) Update(views []world.ActorView) [][2]world.ActorView {
	var entered [][2]world.ActorView
	seen := make(map[[2]string]bool, len(p.inRange))
	for i := range views {
		for j := i + 1; j < len(views); j++ {
			a, b := views[i], views[j]
			if a.Position.Distance(b.Position) > p.radius {
				continue
			}
			key := pairKey(a.ID, b.ID)
			seen[key] = true
			if !p.inRange[key] {
				entered = append(entered, [2]world.ActorView{a, b})
			}
		}
	}
	p.inRange = seen
	return entered
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
