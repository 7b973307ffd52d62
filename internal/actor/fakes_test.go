// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor_test

import (
	"sync"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hearthsim/hearth/internal/actor"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
)

var (
	testBounds   = world.Rect{MinX: -20, MaxX: 20, MinY: -20, MaxY: 20}
	bathroomSpot = world.Point{X: 10, Y: 0}
	bedroomSpot  = world.Point{X: -10, Y: 0}
	kitchenSpot  = world.Point{X: 0, Y: -10}
)

// fastConfig keeps every timer short enough for tests while leaving the
// idle timers long unless a test shortens them.
func fastConfig() actor.Config {
	return actor.Config{
		DecisionInterval:    time.Hour,
		IdleTick:            5 * time.Millisecond,
		SocialIdleThreshold: time.Hour,
		RecheckInterval:     10 * time.Millisecond,
		MaxWait:             100 * time.Millisecond,
		MoveTimeout:         time.Second,
		InteractionCooldown: time.Minute,
		PerPage:             time.Millisecond,
	}
}

// testingT is satisfied by *testing.T and GinkgoT().
type testingT interface {
	require.TestingT
	Helper()
}

// fakeWorld is a tiny in-memory world with instant movement.
type fakeWorld struct {
	mu       sync.Mutex
	registry *resource.Registry
	bodies   map[string]*fakeBody
}

func newFakeWorld(t testingT) *fakeWorld {
	t.Helper()
	reg := resource.NewRegistry()

	bath, err := world.NewLocation("Bathroom", world.LocationTypeBathroom, bathroomSpot)
	require.NoError(t, err)
	require.NoError(t, reg.Register(bath))

	bed, err := world.NewLocation("Bedroom_B", world.LocationTypeBedroom, bedroomSpot)
	require.NoError(t, err)
	bed.OwnerID = "npc_b"
	require.NoError(t, reg.Register(bed))

	kitchen, err := world.NewLocation("Kitchen", world.LocationTypeGeneric, kitchenSpot)
	require.NoError(t, err)
	require.NoError(t, reg.Register(kitchen))

	return &fakeWorld{registry: reg, bodies: make(map[string]*fakeBody)}
}

func (w *fakeWorld) body(a *world.Actor) *fakeBody {
	w.mu.Lock()
	defer w.mu.Unlock()
	b := &fakeBody{world: w, id: a.ID, name: a.Name, pos: a.Position}
	w.bodies[a.ID] = b
	return b
}

func (w *fakeWorld) views() []world.ActorView {
	w.mu.Lock()
	bodies := make([]*fakeBody, 0, len(w.bodies))
	for _, b := range w.bodies {
		bodies = append(bodies, b)
	}
	w.mu.Unlock()

	views := make([]world.ActorView, 0, len(bodies))
	for _, b := range bodies {
		views = append(views, world.ActorView{ID: b.id, Name: b.name, Kind: "npc", Position: b.CurrentPosition()})
	}
	return views
}

// fakeBody implements world.ContextProvider and world.Mover. Moves complete
// immediately unless the body is stuck.
type fakeBody struct {
	world *fakeWorld
	id    string
	name  string

	mu    sync.Mutex
	pos   world.Point
	stuck bool
	moves []world.Point
	stops int
}

func (b *fakeBody) CurrentPosition() world.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

func (b *fakeBody) NearbyActors(excludeSelf bool, radius float64) []world.ActorView {
	pos := b.CurrentPosition()
	var out []world.ActorView
	for _, v := range b.world.views() {
		if excludeSelf && v.ID == b.id {
			continue
		}
		if v.Position.Distance(pos) <= radius {
			out = append(out, v)
		}
	}
	return out
}

func (b *fakeBody) VisibleLocations(radius float64) []world.LocationView {
	return b.world.registry.ViewsWithin(b.CurrentPosition(), radius)
}

func (b *fakeBody) PlayableBounds() world.Rect { return testBounds }

func (b *fakeBody) GeneralDescription() string { return "A small shared flat." }

func (b *fakeBody) MoveTo(target world.Point, onArrival func()) {
	b.mu.Lock()
	b.moves = append(b.moves, target)
	if b.stuck {
		b.mu.Unlock()
		return
	}
	b.pos = target
	b.mu.Unlock()
	onArrival()
}

func (b *fakeBody) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stops++
}

func (b *fakeBody) IsMoving() bool { return false }

func (b *fakeBody) setStuck(stuck bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stuck = stuck
}

func (b *fakeBody) Moves() []world.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]world.Point(nil), b.moves...)
}

func (b *fakeBody) Stops() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stops
}

// fakeDisplay records every page and finishes it at once.
type fakeDisplay struct {
	mu    sync.Mutex
	pages []string
}

func (d *fakeDisplay) ShowText(text string, _ time.Duration, onAllPagesShown func()) {
	d.mu.Lock()
	d.pages = append(d.pages, text)
	d.mu.Unlock()
	onAllPagesShown()
}

func (d *fakeDisplay) Pages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.pages...)
}

func newTestActor(t testingT, id, name string, pos world.Point) *world.Actor {
	t.Helper()
	a, err := world.NewActor(id, name, pos)
	require.NoError(t, err)
	return a
}
