// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package stage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
)

// Defaults for body movement.
const (
	DefaultSpeed = 1.5 // units per second
	DefaultStep  = 50 * time.Millisecond
)

// CodeDuplicateBody is returned when a second body is added for an actor.
const CodeDuplicateBody = "DUPLICATE_BODY"

// ProximityFunc receives a pair of actors that just came within range.
type ProximityFunc func(a, b world.ActorView)

// Stage owns every body position. It is safe for concurrent use.
type Stage struct {
	bounds      world.Rect
	description string
	registry    *resource.Registry
	step        time.Duration
	logger      *slog.Logger

	proximity   *Proximity
	onProximity ProximityFunc

	mu     sync.Mutex
	bodies map[string]*Body
	order  []string
}

// Option configures a Stage.
type Option func(*Stage)

// WithStep sets the simulation step used by Run.
func WithStep(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.step = d
		}
	}
}

// WithProximity reports pairs of actors that come within radius of each other.
func WithProximity(radius float64, fn ProximityFunc) Option {
	return func(s *Stage) {
		s.proximity = NewProximity(radius)
		s.onProximity = fn
	}
}

// WithLogger sets the stage logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stage) {
		s.logger = l
	}
}

// New creates an empty stage over the playable bounds.
func New(bounds world.Rect, description string, registry *resource.Registry, opts ...Option) *Stage {
	s := &Stage{
		bounds:      bounds,
		description: description,
		registry:    registry,
		step:        DefaultStep,
		logger:      slog.Default(),
		bodies:      make(map[string]*Body),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBody places an actor on the stage. A non-positive speed uses DefaultSpeed.
func (s *Stage) AddBody(a *world.Actor, speed float64) (*Body, error) {
	if a == nil {
		return nil, oops.Errorf("actor is nil")
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}
	kind := "npc"
	if !a.DecisionDriven {
		kind = "player"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bodies[a.ID]; ok {
		return nil, oops.Code(CodeDuplicateBody).With("actor_id", a.ID).Errorf("body for %q already on stage", a.ID)
	}
	b := &Body{
		stage: s,
		id:    a.ID,
		name:  a.Name,
		kind:  kind,
		speed: speed,
		pos:   s.clamp(a.Position),
	}
	s.bodies[a.ID] = b
	s.order = append(s.order, a.ID)
	return b, nil
}

// Body returns the body of an actor.
func (s *Stage) Body(id string) (*Body, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bodies[id]
	return b, ok
}

// Views returns every body in insertion order.
func (s *Stage) Views() []world.ActorView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewsLocked()
}

func (s *Stage) viewsLocked() []world.ActorView {
	out := make([]world.ActorView, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bodies[id].viewLocked())
	}
	return out
}

// clamp keeps p inside the bounds; an unset bounds rectangle is unbounded.
func (s *Stage) clamp(p world.Point) world.Point {
	if s.bounds.IsZero() {
		return p
	}
	return s.bounds.Clamp(p, 0)
}

// Run advances the stage every step until ctx is cancelled.
func (s *Stage) Run(ctx context.Context) {
	ticker := time.NewTicker(s.step)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Advance(now.Sub(last))
			last = now
		}
	}
}

// Advance moves every travelling body by dt, fires arrival callbacks and
// reports new proximity pairs. Callbacks run without the stage lock held.
func (s *Stage) Advance(dt time.Duration) {
	var (
		arrivals []func()
		pairs    [][2]world.ActorView
	)

	s.mu.Lock()
	for _, id := range s.order {
		if fn := s.bodies[id].advanceLocked(dt); fn != nil {
			arrivals = append(arrivals, fn)
		}
	}
	if s.proximity != nil {
		pairs = s.proximity.Update(s.viewsLocked())
	}
	s.mu.Unlock()

	for _, fn := range arrivals {
		fn()
	}
	for _, p := range pairs {
		s.logger.Debug("actors in range", "a", p[0].ID, "b", p[1].ID)
		if s.onProximity != nil {
			s.onProximity(p[0], p[1])
		}
	}
}

// Body is one actor's presence on the stage. It implements
// world.ContextProvider and world.Mover for that actor.
type Body struct {
	stage *Stage
	id    string
	name  string
	kind  string
	speed float64

	// guarded by stage.mu
	pos       world.Point
	target    *world.Point
	onArrival func()
}

var (
	_ world.ContextProvider = (*Body)(nil)
	_ world.Mover           = (*Body)(nil)
)

func (b *Body) viewLocked() world.ActorView {
	return world.ActorView{ID: b.id, Name: b.name, Kind: b.kind, Position: b.pos}
}

func (b *Body) advanceLocked(dt time.Duration) func() {
	if b.target == nil {
		return nil
	}
	step := b.speed * dt.Seconds()
	rest := b.target.Sub(b.pos)
	if rest.Length() > step {
		b.pos = b.pos.Add(rest.Normalize().Scale(step))
		return nil
	}
	b.pos = *b.target
	fn := b.onArrival
	b.target, b.onArrival = nil, nil
	return fn
}

// ID returns the actor ID.
func (b *Body) ID() string { return b.id }

// CurrentPosition implements world.ContextProvider.
func (b *Body) CurrentPosition() world.Point {
	b.stage.mu.Lock()
	defer b.stage.mu.Unlock()
	return b.pos
}

// NearbyActors implements world.ContextProvider.
func (b *Body) NearbyActors(excludeSelf bool, radius float64) []world.ActorView {
	b.stage.mu.Lock()
	defer b.stage.mu.Unlock()
	var out []world.ActorView
	for _, v := range b.stage.viewsLocked() {
		if excludeSelf && v.ID == b.id {
			continue
		}
		if v.Position.Distance(b.pos) <= radius {
			out = append(out, v)
		}
	}
	return out
}

// VisibleLocations implements world.ContextProvider.
func (b *Body) VisibleLocations(radius float64) []world.LocationView {
	if b.stage.registry == nil {
		return nil
	}
	return b.stage.registry.ViewsWithin(b.CurrentPosition(), radius)
}

// PlayableBounds implements world.ContextProvider.
func (b *Body) PlayableBounds() world.Rect { return b.stage.bounds }

// GeneralDescription implements world.ContextProvider.
func (b *Body) GeneralDescription() string { return b.stage.description }

// MoveTo starts travelling to target, clamped to the playable bounds. A
// body already standing at the target arrives at once.
func (b *Body) MoveTo(target world.Point, onArrival func()) {
	target = b.stage.clamp(target)

	b.stage.mu.Lock()
	if b.pos == target {
		b.target, b.onArrival = nil, nil
		b.stage.mu.Unlock()
		if onArrival != nil {
			onArrival()
		}
		return
	}
	b.target = &target
	b.onArrival = onArrival
	b.stage.mu.Unlock()
}

// Stop halts the body where it stands; the pending arrival never fires.
func (b *Body) Stop() {
	b.stage.mu.Lock()
	defer b.stage.mu.Unlock()
	b.target, b.onArrival = nil, nil
}

// IsMoving implements world.Mover.
func (b *Body) IsMoving() bool {
	b.stage.mu.Lock()
	defer b.stage.mu.Unlock()
	return b.target != nil
}
