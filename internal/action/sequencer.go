// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package action

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/intent"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
)

// Directory resolves live actors by name or id.
type Directory interface {
	ActorByName(name string) (world.ActorView, bool)
}

// Outcome is what came back from one decision call.
type Outcome struct {
	Result decision.Result
	Err    error
}

// Sequencer defaults.
const (
	DefaultInitiationDistance = 1.2
	DefaultWaitMargin         = 1.0
	DefaultBoundsBuffer       = 0.5
	DefaultPerPage            = 3 * time.Second
)

// ErrorAnnouncement is spoken when a decision call fails.
const ErrorAnnouncement = "Hmm, I can't make up my mind right now."

// SequencerConfig holds the geometry and timing used by Expand.
// Zero values fall back to the defaults above.
type SequencerConfig struct {
	// InitiationDistance is how far from a conversation partner the actor stops.
	InitiationDistance float64
	// WaitMargin is how far outside a blocked location's radius the actor waits.
	WaitMargin float64
	// BoundsBuffer keeps targets this far inside the playable area.
	BoundsBuffer float64
	// PerPage is how long each page of speech is shown.
	PerPage time.Duration
}

func (c SequencerConfig) withDefaults() SequencerConfig {
	if c.InitiationDistance <= 0 {
		c.InitiationDistance = DefaultInitiationDistance
	}
	if c.WaitMargin <= 0 {
		c.WaitMargin = DefaultWaitMargin
	}
	if c.BoundsBuffer < 0 {
		c.BoundsBuffer = 0
	} else if c.BoundsBuffer == 0 {
		c.BoundsBuffer = DefaultBoundsBuffer
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	return c
}

// DialogueFactory builds the thunk that runs a conversation with partner.
type DialogueFactory func(partner world.ActorView) CallbackFunc

// Sequencer turns decision outcomes into ordered item lists.
type Sequencer struct {
	registry   *resource.Registry
	directory  Directory
	classifier *intent.Classifier
	dialogue   DialogueFactory
	cfg        SequencerConfig
	logger     *slog.Logger
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithClassifier sets the filler classifier. The default uses
// intent.DefaultFillerPatterns.
func WithClassifier(c *intent.Classifier) SequencerOption {
	return func(s *Sequencer) {
		s.classifier = c
	}
}

// WithDialogue sets the sub-dialogue thunk factory. Without one the
// dialogue callback completes immediately.
func WithDialogue(f DialogueFactory) SequencerOption {
	return func(s *Sequencer) {
		s.dialogue = f
	}
}

// WithLogger sets the logger for degraded parses.
func WithLogger(l *slog.Logger) SequencerOption {
	return func(s *Sequencer) {
		s.logger = l
	}
}

// NewSequencer creates a sequencer that consults registry for locations and
// directory for conversation partners.
func NewSequencer(registry *resource.Registry, directory Directory, cfg SequencerConfig, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		registry:  registry,
		directory: directory,
		cfg:       cfg.withDefaults(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = intent.DefaultClassifier()
	}
	return s
}

// Config returns the effective configuration.
func (s *Sequencer) Config() SequencerConfig {
	return s.cfg
}

// Expand turns one decision outcome into the items self should run, in
// order. The list is never empty.
//
// Precedence:
//  1. a socially driven result naming a live actor: announce, approach,
//     converse;
//  2. a "wait near X" summary naming a known location: move, wait for X;
//  3. a target inside a location self may not enter: announce, move to a
//     waiting spot outside it, wait, enter;
//  4. otherwise: announce unless the action is filler, then move.
//
// Results triggered by re-evaluation never take the social branch. Names
// that do not resolve degrade to the plain move.
func (s *Sequencer) Expand(self world.ActorView, bounds world.Rect, out Outcome) []Item {
	if out.Err != nil {
		return []Item{NewSpeak(ErrorAnnouncement, s.cfg.PerPage)}
	}

	res := out.Result
	target := s.clamp(res.Target, bounds)
	parsed := intent.Parse(res.Summary)

	if res.Social() && res.Trigger != decision.TriggerReevaluation {
		if items, ok := s.expandSocial(self, bounds, res); ok {
			return items
		}
	}

	if parsed.Kind == intent.WaitFor {
		if loc, ok := s.registry.LocationByName(parsed.Name); ok {
			return []Item{
				NewMove(s.waitTarget(self, target, loc, bounds), "wait near "+loc.Name),
				NewWait(loc.Name, 0, false),
			}
		}
		s.logger.Warn("wait target not found, moving to coordinates",
			"actor_id", self.ID, "name", parsed.Name, "summary", res.Summary)
	}

	if loc, ok := s.registry.LocationAt(target); ok {
		if reason, blocked := s.registry.Obstruction(loc.Name, self.ID); blocked {
			spot := s.waitingSpot(self.Position, loc, bounds)
			return []Item{
				NewSpeak(obstructionText(loc, reason), s.cfg.PerPage),
				NewMove(spot, "wait near "+loc.Name),
				NewWait(loc.Name, 0, true),
			}
		}
	}

	var items []Item
	if !s.classifier.IsFiller(res.Summary) {
		items = append(items, NewSpeak(res.Summary, s.cfg.PerPage))
	}
	return append(items, NewMove(target, res.Summary))
}

func (s *Sequencer) expandSocial(self world.ActorView, bounds world.Rect, res decision.Result) ([]Item, bool) {
	name, ok := intent.ParseSocial(res.Summary)
	if !ok {
		s.logger.Warn("social decision without a named partner",
			"actor_id", self.ID, "summary", res.Summary)
		return nil, false
	}
	partner, ok := s.directory.ActorByName(name)
	if !ok || partner.ID == self.ID {
		s.logger.Warn("social partner not found, moving to coordinates",
			"actor_id", self.ID, "name", name, "summary", res.Summary)
		return nil, false
	}
	return s.Approach(self, partner, bounds, res.Summary), true
}

// Approach builds the announce, approach, converse sequence towards partner.
// An empty announcement uses a generic one.
func (s *Sequencer) Approach(self, partner world.ActorView, bounds world.Rect, announce string) []Item {
	if announce == "" {
		announce = fmt.Sprintf("Oh, %s! Got a minute?", displayName(partner))
	}
	run := CallbackFunc(func(_ context.Context, done func(error)) { done(nil) })
	if s.dialogue != nil {
		run = s.dialogue(partner)
	}
	return []Item{
		NewSpeak(announce, s.cfg.PerPage),
		NewMove(s.ApproachPoint(self.Position, partner.Position, bounds), "approach "+displayName(partner)),
		NewCallback("dialogue:"+partner.ID, run),
	}
}

// ApproachPoint is the spot InitiationDistance away from partner on the
// side facing from. If that spot is out of bounds the other sides are tried
// in 45 degree steps before falling back to clamping.
func (s *Sequencer) ApproachPoint(from, partner world.Point, bounds world.Rect) world.Point {
	dir := from.Sub(partner).Normalize()
	if dir == (world.Point{}) {
		dir = world.Point{X: 1}
	}
	for step := range 8 {
		p := partner.Add(rotate(dir, float64(step)*math.Pi/4).Scale(s.cfg.InitiationDistance))
		if bounds.IsZero() || bounds.Contains(p) {
			return p
		}
	}
	return s.clamp(partner.Add(dir.Scale(s.cfg.InitiationDistance)), bounds)
}

// waitTarget keeps a "wait near" move outside the awaited location and
// outside any location self may not enter. Arriving inside either would
// claim it.
func (s *Sequencer) waitTarget(self world.ActorView, target world.Point, awaited *world.Location, bounds world.Rect) world.Point {
	if awaited.Covers(target) {
		return s.waitingSpot(self.Position, awaited, bounds)
	}
	if loc, ok := s.registry.LocationAt(target); ok {
		if _, blocked := s.registry.Obstruction(loc.Name, self.ID); blocked {
			return s.waitingSpot(self.Position, loc, bounds)
		}
	}
	return target
}

// waitingSpot is just outside loc's radius, on the side facing from.
func (s *Sequencer) waitingSpot(from world.Point, loc *world.Location, bounds world.Rect) world.Point {
	dir := from.Sub(loc.Position).Normalize()
	if dir == (world.Point{}) {
		dir = world.Point{X: 1}
	}
	return s.clamp(loc.Position.Add(dir.Scale(loc.EffectiveRadius()+s.cfg.WaitMargin)), bounds)
}

func (s *Sequencer) clamp(p world.Point, bounds world.Rect) world.Point {
	if bounds.IsZero() {
		return p
	}
	return bounds.Clamp(p, s.cfg.BoundsBuffer)
}

func rotate(p world.Point, rad float64) world.Point {
	sin, cos := math.Sincos(rad)
	return world.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

func obstructionText(loc *world.Location, reason string) string {
	switch reason {
	case resource.ReasonOccupied:
		return fmt.Sprintf("The %s is occupied. I'll wait nearby.", loc.Name)
	case resource.ReasonOwnerAbsent:
		return fmt.Sprintf("Nobody's in the %s. I'll wait outside.", loc.Name)
	default:
		return fmt.Sprintf("I can't go into the %s yet.", loc.Name)
	}
}

func displayName(a world.ActorView) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
