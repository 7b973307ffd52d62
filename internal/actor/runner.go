// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package actor runs decision-driven actors: the idle timers, the decision
// request lifecycle, the action queue drain and proximity-triggered
// conversations.
//
// Each actor is owned by one Runner whose event loop is the only goroutine
// that touches the actor's queue and state. Blocking work (decision calls,
// moves, waits, speech) runs in worker goroutines that report back to the
// loop. Cancelling the actor's Handle is the only way to stop it; every
// worker checks the handle's context after each suspension.
package actor

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/intent"
	"github.com/hearthsim/hearth/internal/logging"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
	"github.com/hearthsim/hearth/pkg/errutil"
)

// Deps are the collaborators a Runner needs. Display may be nil; speech
// then goes to the log.
type Deps struct {
	Registry *resource.Registry
	Service  decision.Service
	Provider world.ContextProvider
	Mover    world.Mover
	Display  world.Display
}

// Peer is what one actor may learn about another for a conversation.
type Peer struct {
	View    world.ActorView
	Emotion world.EmotionalState
	History *decision.History
}

// Directory resolves other live actors.
type Directory interface {
	action.Directory
	Peer(id string) (Peer, bool)
}

type emptyDirectory struct{}

func (emptyDirectory) ActorByName(string) (world.ActorView, bool) { return world.ActorView{}, false }
func (emptyDirectory) Peer(string) (Peer, bool)                   { return Peer{}, false }

// Option configures a Runner.
type Option func(*Runner)

// WithConfig sets timings and distances.
func WithConfig(cfg Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithObserver adds an observer of the drain trace.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// WithRand sets the random source for proactive socializing.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) {
		r.rng = rng
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithClock sets the world clock used in snapshots and dialogues.
func WithClock(c world.Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithDirectory sets the directory of other actors.
func WithDirectory(d Directory) Option {
	return func(r *Runner) {
		r.directory = d
	}
}

// WithCooldowns shares a proximity cooldown tracker between actors.
func WithCooldowns(c *Cooldowns) Option {
	return func(r *Runner) {
		r.cooldowns = c
	}
}

// WithClassifier sets the filler classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(r *Runner) {
		r.classifier = c
	}
}

type event interface{ isEvent() }

type decisionDone struct {
	snap decision.Snapshot
	res  decision.Result
	err  error
}

type itemDone struct {
	item action.Item
	res  execResult
}

func (decisionDone) isEvent() {}
func (itemDone) isEvent()     {}

// Runner drives one actor.
type Runner struct {
	id             string
	name           string
	decisionDriven bool

	registry  *resource.Registry
	provider  world.ContextProvider
	mover     world.Mover
	display   world.Display
	client    *decision.Client
	builder   decision.Builder
	history   *decision.History
	sequencer *action.Sequencer

	directory  Directory
	cooldowns  *Cooldowns
	classifier *intent.Classifier
	clock      world.Clock
	cfg        Config
	logger     *slog.Logger
	observers  []Observer
	observer   Observer
	rng        *rand.Rand

	mu      sync.Mutex
	emotion world.EmotionalState
	state   State

	sessionsMu sync.Mutex
	sessions   map[string]string // partner ID -> dialogue session ID

	events    chan event
	proximity chan world.ActorView
	wg        sync.WaitGroup
	startOnce sync.Once
	handle    *Handle

	// Owned by the event loop.
	queue           []action.Item
	current         action.Item
	decisionPending bool
	idleSince       time.Time
	reason          string
	reevaluate      bool
}

// NewRunner creates a runner for a. The actor is copied; later changes to a
// are not seen.
func NewRunner(a *world.Actor, deps Deps, opts ...Option) (*Runner, error) {
	if a == nil {
		return nil, ErrInvalidActor("", "actor is nil")
	}
	if err := a.Validate(); err != nil {
		return nil, ErrInvalidActor(a.ID, err.Error())
	}
	switch {
	case deps.Registry == nil:
		return nil, ErrInvalidActor(a.ID, "resource registry is required")
	case deps.Service == nil:
		return nil, ErrInvalidActor(a.ID, "decision service is required")
	case deps.Provider == nil:
		return nil, ErrInvalidActor(a.ID, "context provider is required")
	case deps.Mover == nil:
		return nil, ErrInvalidActor(a.ID, "mover is required")
	}

	r := &Runner{
		id:             a.ID,
		name:           a.Name,
		decisionDriven: a.DecisionDriven,
		emotion:        a.Emotion.Normalized(),
		registry:       deps.Registry,
		provider:       deps.Provider,
		mover:          deps.Mover,
		display:        deps.Display,
		directory:      emptyDirectory{},
		cfg:            DefaultConfig(),
		logger:         slog.Default(),
		sessions:       make(map[string]string),
		events:         make(chan event, 16),
		proximity:      make(chan world.ActorView, 8),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cfg = r.cfg.WithDefaults()

	switch len(r.observers) {
	case 0:
		r.observer = multiObserver(nil)
	case 1:
		r.observer = r.observers[0]
	default:
		r.observer = multiObserver(r.observers)
	}
	if r.cooldowns == nil {
		r.cooldowns = NewCooldowns(r.cfg.InteractionCooldown)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // behavior, not security
	}

	r.client = decision.NewClient(r.id, deps.Service, decision.WithClientLogger(r.logger))
	r.history = decision.NewHistory(r.cfg.HistoryTurns)
	r.builder = decision.Builder{Clock: r.clock, NearbyRadius: r.cfg.SocialRadius}

	seqOpts := []action.SequencerOption{
		action.WithDialogue(r.dialogueWith),
		action.WithLogger(r.logger),
	}
	if r.classifier != nil {
		seqOpts = append(seqOpts, action.WithClassifier(r.classifier))
	}
	r.sequencer = action.NewSequencer(r.registry, r.directory, action.SequencerConfig{
		InitiationDistance: r.cfg.InitiationDistance,
		PerPage:            r.cfg.PerPage,
	}, seqOpts...)
	return r, nil
}

// ID returns the actor's identifier.
func (r *Runner) ID() string { return r.id }

// Name returns the actor's display name.
func (r *Runner) Name() string { return r.name }

// History returns the actor's conversation window.
func (r *Runner) History() *decision.History { return r.history }

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// View returns how other actors see this one right now.
func (r *Runner) View() world.ActorView {
	kind := "npc"
	if !r.decisionDriven {
		kind = "player"
	}
	return world.ActorView{
		ID:       r.id,
		Name:     r.name,
		Kind:     kind,
		Position: r.provider.CurrentPosition(),
	}
}

// Emotion returns the current emotional state.
func (r *Runner) Emotion() world.EmotionalState {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.emotion
	e.MoodTags = append([]string(nil), e.MoodTags...)
	return e
}

// State returns the current control state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Actor returns a snapshot of the actor.
func (r *Runner) Actor() world.Actor {
	return world.Actor{
		ID:             r.id,
		Name:           r.name,
		Emotion:        r.Emotion(),
		Position:       r.provider.CurrentPosition(),
		DecisionDriven: r.decisionDriven,
	}
}

// NotifyProximity tells the actor that other came within range. The
// approach is queued behind any item in flight. Safe to call from any
// goroutine; events are dropped when the actor is backed up or stopped.
func (r *Runner) NotifyProximity(other world.ActorView) {
	select {
	case r.proximity <- other:
	default:
		r.logger.Debug("proximity event dropped", "actor_id", r.id, "other_id", other.ID)
	}
}

// Start launches the event loop. The actor runs until ctx is cancelled or
// the returned handle is cancelled. Calling Start again returns the same
// handle.
func (r *Runner) Start(ctx context.Context) *Handle {
	r.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(logging.WithActor(ctx, r.id))
		h := &Handle{runner: r, cancel: cancel, done: make(chan struct{})}
		r.handle = h
		go func() {
			defer close(h.done)
			r.run(ctx)
		}()
	})
	return r.handle
}

func (r *Runner) run(ctx context.Context) {
	ActorsActive.Inc()
	defer ActorsActive.Dec()

	r.idleSince = time.Now()
	ticker := time.NewTicker(r.cfg.IdleTick)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "actor started", "name", r.name, "decision_driven", r.decisionDriven)
	if r.display == nil {
		r.logger.WarnContext(ctx, "no display attached, speech goes to the log")
	}

	for {
		select {
		case <-ctx.Done():
			r.teardown(ctx)
			return
		case now := <-ticker.C:
			r.onTick(ctx, now)
		case other := <-r.proximity:
			r.onProximity(ctx, other)
		case ev := <-r.events:
			switch ev := ev.(type) {
			case decisionDone:
				r.onDecision(ctx, ev)
			case itemDone:
				r.onItemDone(ctx, ev)
			}
		}
	}
}

// teardown runs once the handle is cancelled: in-flight workers are waited
// for, the mover is stopped and the actor leaves whatever location it holds.
// Registry changes made earlier are not rolled back.
func (r *Runner) teardown(ctx context.Context) {
	r.wg.Wait()
	r.mover.Stop()
	if loc, ok := r.registry.NotifyDeparture(r.id); ok {
		r.logger.InfoContext(ctx, "departed on teardown", "location", loc)
	}
	dropped := len(r.queue)
	r.queue = nil
	r.current = nil
	r.decisionPending = false
	r.logger.InfoContext(ctx, "actor stopped", "dropped_items", dropped)
}

func (r *Runner) busy() bool {
	return r.current != nil || len(r.queue) > 0 || r.decisionPending
}

func (r *Runner) onTick(ctx context.Context, now time.Time) {
	if !r.decisionDriven || r.busy() {
		return
	}
	idle := now.Sub(r.idleSince)
	if idle >= r.cfg.DecisionInterval {
		r.requestDecision(ctx, decision.TriggerTimer, "")
		return
	}
	if idle >= r.cfg.SocialIdleThreshold && r.rng.Float64() < r.cfg.SocialProbability {
		if hint, ok := r.socialHint(); ok {
			r.requestDecision(ctx, decision.TriggerSocial, hint)
		}
	}
}

func (r *Runner) socialHint() (string, bool) {
	var candidates []world.ActorView
	for _, v := range r.provider.NearbyActors(true, r.cfg.SocialRadius) {
		if v.ID != r.id {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	pick := candidates[r.rng.IntN(len(candidates))]
	if pick.Name != "" {
		return pick.Name, true
	}
	return pick.ID, true
}

func (r *Runner) requestDecision(ctx context.Context, trigger decision.Trigger, hint string) {
	if r.decisionPending || ctx.Err() != nil {
		return
	}
	snap := r.builder.Build(r.Actor(), r.provider, r.history, decision.Request{
		Trigger:    trigger,
		Reason:     r.reason,
		SocialHint: hint,
	})
	r.reason = ""
	r.decisionPending = true
	r.updateState(ctx)

	r.logger.DebugContext(ctx, "requesting decision",
		"request_id", snap.RequestID.String(), "trigger", string(trigger), "reason", snap.Reason)
	r.spawn(ctx, func() {
		res, err := r.client.RequestDecision(ctx, snap)
		r.post(ctx, decisionDone{snap: snap, res: res, err: err})
	})
}

func (r *Runner) onDecision(ctx context.Context, ev decisionDone) {
	r.decisionPending = false
	switch {
	case ctx.Err() != nil || decision.IsStale(ev.err):
		// Torn down while the call was outstanding; touch nothing.
		return
	case decision.IsInFlight(ev.err):
		// A conversation holds the slot. Keep the reason for the next try.
		if r.reason == "" {
			r.reason = ev.snap.Reason
		}
		r.logger.InfoContext(ctx, "decision skipped, another call is outstanding",
			"request_id", ev.snap.RequestID.String())
	case ev.err != nil:
		errutil.LogErrorContext(ctx, r.logger, "decision request failed", ev.err)
	default:
		if ev.res.Emotion != nil {
			r.mu.Lock()
			r.emotion = ev.res.Emotion.Normalized()
			r.mu.Unlock()
		}
		r.logger.InfoContext(ctx, "decision",
			"summary", ev.res.Summary,
			"target", ev.res.Target.String(),
			"social", ev.res.Social())
	}

	items := r.sequencer.Expand(r.View(), r.provider.PlayableBounds(), action.Outcome{Result: ev.res, Err: ev.err})
	r.enqueue(ctx, items...)
}

func (r *Runner) onProximity(ctx context.Context, other world.ActorView) {
	if !r.decisionDriven || other.ID == r.id || ctx.Err() != nil {
		return
	}
	if r.hasDialogueWith(other.ID) {
		return
	}
	now := time.Now()
	if !r.cooldowns.Claim(r.id, other.ID, now) {
		return
	}
	if peer, ok := r.directory.Peer(other.ID); ok {
		other = peer.View
	}
	r.logger.InfoContext(ctx, "approaching nearby actor", "other_id", other.ID, "other_name", other.Name)
	r.idleSince = now
	r.enqueue(ctx, r.sequencer.Approach(r.View(), other, r.provider.PlayableBounds(), "")...)
}

func dialogueName(partnerID string) string {
	return "dialogue:" + partnerID
}

func (r *Runner) hasDialogueWith(partnerID string) bool {
	name := dialogueName(partnerID)
	if cb, ok := r.current.(*action.Callback); ok && cb.Name == name {
		return true
	}
	for _, it := range r.queue {
		if cb, ok := it.(*action.Callback); ok && cb.Name == name {
			return true
		}
	}
	return false
}

func (r *Runner) enqueue(ctx context.Context, items ...action.Item) {
	r.queue = append(r.queue, items...)
	r.startNext(ctx)
	r.updateState(ctx)
}

func (r *Runner) startNext(ctx context.Context) {
	if r.current != nil || len(r.queue) == 0 || ctx.Err() != nil {
		return
	}
	it := r.queue[0]
	r.queue = r.queue[1:]
	r.current = it
	r.observer.ItemStarted(r.id, it)
	r.spawn(ctx, func() {
		res := r.execute(ctx, it)
		r.post(ctx, itemDone{item: it, res: res})
	})
}

func (r *Runner) onItemDone(ctx context.Context, ev itemDone) {
	r.current = nil
	ActionItems.WithLabelValues(string(ev.item.Kind()), ev.res.status).Inc()
	r.observer.ItemFinished(r.id, ev.item, ev.res.err)
	if ctx.Err() != nil {
		return
	}

	if ev.res.reason != "" {
		r.reason = ev.res.reason
	}
	if ev.res.reevaluate {
		r.reevaluate = true
	}
	if ev.res.err != nil && ev.res.status != ItemStatusCancelled {
		errutil.LogWarnContext(ctx, r.logger, "action item failed: "+ev.item.String(), ev.res.err)
	}

	r.startNext(ctx)
	if !r.busy() && r.reevaluate {
		r.reevaluate = false
		r.requestDecision(ctx, decision.TriggerReevaluation, "")
	}
	r.updateState(ctx)
}

func (r *Runner) updateState(ctx context.Context) {
	next := StateIdle
	switch {
	case r.current != nil || len(r.queue) > 0:
		next = StateProcessingQueue
	case r.decisionPending:
		next = StateRequestingDecision
	}

	r.mu.Lock()
	prev := r.state
	r.state = next
	r.mu.Unlock()
	if prev == next {
		return
	}

	if next == StateIdle {
		r.idleSince = time.Now()
	}
	StateTransitions.WithLabelValues(prev.String(), next.String()).Inc()
	r.observer.StateChanged(r.id, prev, next)
	r.logger.DebugContext(ctx, "state changed", "from", prev.String(), "to", next.String())
}

// spawn runs fn in a tracked worker goroutine unless the actor is stopping.
func (r *Runner) spawn(ctx context.Context, fn func()) {
	if ctx.Err() != nil {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

// post hands a worker result to the event loop.
func (r *Runner) post(ctx context.Context, ev event) {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}

func (r *Runner) session(partnerID string) string {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()
	return r.sessions[partnerID]
}

func (r *Runner) setSession(partnerID, sessionID string) {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()
	r.sessions[partnerID] = sessionID
}

func speakerName(t decision.Turn) string {
	if name := strings.TrimSpace(t.SpeakerName); name != "" {
		return name
	}
	return t.SpeakerID
}
