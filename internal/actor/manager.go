// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/intent"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
)

// Body is the per-actor presence in the world: how the actor perceives the
// scene, moves and speaks.
type Body struct {
	Provider world.ContextProvider
	Mover    world.Mover
	Display  world.Display
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger handed to every runner.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithManagerObserver adds an observer to every runner.
func WithManagerObserver(o Observer) ManagerOption {
	return func(m *Manager) {
		m.observers = append(m.observers, o)
	}
}

// WithManagerClock sets the world clock.
func WithManagerClock(c world.Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithManagerClassifier sets the filler classifier.
func WithManagerClassifier(c *intent.Classifier) ManagerOption {
	return func(m *Manager) {
		m.classifier = c
	}
}

// WithSeed makes proactive socializing reproducible. Each actor derives its
// own stream from the seed and its ID.
func WithSeed(seed uint64) ManagerOption {
	return func(m *Manager) {
		m.seed = &seed
	}
}

// Manager owns the running actors of one world and lets them find each
// other.
type Manager struct {
	registry   *resource.Registry
	service    decision.Service
	cfg        Config
	cooldowns  *Cooldowns
	logger     *slog.Logger
	observers  []Observer
	clock      world.Clock
	classifier *intent.Classifier
	seed       *uint64

	mu      sync.RWMutex
	runners map[string]*Runner
	handles map[string]*Handle
	wg      sync.WaitGroup
}

// NewManager creates a manager. All actors share the registry, the decision
// service and one interaction cooldown tracker.
func NewManager(registry *resource.Registry, service decision.Service, cfg Config, opts ...ManagerOption) *Manager {
	cfg = cfg.WithDefaults()
	m := &Manager{
		registry:  registry,
		service:   service,
		cfg:       cfg,
		cooldowns: NewCooldowns(cfg.InteractionCooldown),
		logger:    slog.Default(),
		runners:   make(map[string]*Runner),
		handles:   make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Spawn starts an actor. The actor stops when ctx is cancelled, its handle
// is cancelled or the manager shuts down.
func (m *Manager) Spawn(ctx context.Context, a *world.Actor, body Body) (*Handle, error) {
	if a == nil {
		return nil, ErrInvalidActor("", "actor is nil")
	}

	opts := []Option{
		WithConfig(m.cfg),
		WithLogger(m.logger),
		WithDirectory(m),
		WithCooldowns(m.cooldowns),
	}
	for _, o := range m.observers {
		opts = append(opts, WithObserver(o))
	}
	if m.clock != nil {
		opts = append(opts, WithClock(m.clock))
	}
	if m.classifier != nil {
		opts = append(opts, WithClassifier(m.classifier))
	}
	if m.seed != nil {
		h := fnv.New64a()
		_, _ = h.Write([]byte(a.ID))
		opts = append(opts, WithRand(rand.New(rand.NewPCG(*m.seed, h.Sum64())))) //nolint:gosec // behavior, not security
	}

	r, err := NewRunner(a, Deps{
		Registry: m.registry,
		Service:  m.service,
		Provider: body.Provider,
		Mover:    body.Mover,
		Display:  body.Display,
	}, opts...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, exists := m.runners[a.ID]; exists {
		m.mu.Unlock()
		return nil, ErrDuplicateActor(a.ID)
	}
	h := r.Start(ctx)
	m.runners[a.ID] = r
	m.handles[a.ID] = h
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		<-h.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.handles[a.ID] == h {
			delete(m.runners, a.ID)
			delete(m.handles, a.ID)
		}
	}()
	return h, nil
}

// Handle returns the handle of a running actor.
func (m *Manager) Handle(id string) (*Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[id]
	return h, ok
}

// IDs returns the IDs of running actors in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.runners))
	for id := range m.runners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Manager) runner(id string) (*Runner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runners[id]
	return r, ok
}

// ActorByName resolves a spoken name to a running actor. IDs and full names
// match case-insensitively first, then first names.
func (m *Manager) ActorByName(name string) (world.ActorView, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return world.ActorView{}, false
	}

	var firstNameMatch *Runner
	for _, id := range m.IDs() {
		r, ok := m.runner(id)
		if !ok {
			continue
		}
		if strings.EqualFold(r.id, name) || strings.EqualFold(r.name, name) {
			return r.View(), true
		}
		if fields := strings.Fields(r.name); firstNameMatch == nil && len(fields) > 0 && strings.EqualFold(fields[0], name) {
			firstNameMatch = r
		}
	}
	if firstNameMatch != nil {
		return firstNameMatch.View(), true
	}
	return world.ActorView{}, false
}

// Peer implements Directory.
func (m *Manager) Peer(id string) (Peer, bool) {
	r, ok := m.runner(id)
	if !ok {
		return Peer{}, false
	}
	return Peer{View: r.View(), Emotion: r.Emotion(), History: r.History()}, true
}

// NotifyProximity tells actorID that other came within range.
func (m *Manager) NotifyProximity(actorID string, other world.ActorView) {
	if r, ok := m.runner(actorID); ok {
		r.NotifyProximity(other)
	}
}

// Shutdown cancels every actor and waits for their teardown.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	for _, h := range m.handles {
		h.Cancel()
	}
	m.mu.RUnlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.logger.Info("all actors stopped")
		return nil
	case <-ctx.Done():
		return oops.Code("SHUTDOWN_TIMEOUT").Wrapf(ctx.Err(), "waiting for actors to stop")
	}
}
