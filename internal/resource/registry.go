// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package resource tracks advisory status for shared locations and answers
// availability questions for actors.
//
// Status is cooperative: nothing stops an actor from walking into an
// occupied bathroom, but every decision-driven actor consults the registry
// before it does. Two actors racing for the same location resolve by
// whichever arrival is recorded last; the loser notices on its next check.
package resource

import (
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/hearthsim/hearth/internal/world"
)

type entry struct {
	loc    *world.Location
	status map[Group]string
}

// Registry owns all status mutation for registered locations.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	order     []string
	occupying map[string]string // actor ID -> location name
	logger    *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for status changes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries:   make(map[string]*entry),
		occupying: make(map[string]string),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a location with optional initial status values.
// Owned bedrooms start with OwnerAbsent unless a presence value is given.
// The location must not be modified after registration.
func (r *Registry) Register(loc *world.Location, initial ...Status) error {
	if err := loc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[loc.Name]; ok {
		return ErrDuplicateLocation(loc.Name)
	}
	e := &entry{loc: loc, status: make(map[Group]string)}
	for _, s := range initial {
		if err := validateStatus(s.Group, s.Value); err != nil {
			return err
		}
		if s.Value != "" {
			e.status[s.Group] = s.Value
		}
	}
	if loc.Type == world.LocationTypeBedroom && loc.OwnerID != "" {
		if _, ok := e.status[GroupOwnerPresence]; !ok {
			e.status[GroupOwnerPresence] = OwnerAbsent.Value
		}
	}
	r.entries[loc.Name] = e
	r.order = append(r.order, loc.Name)
	return nil
}

// Location returns the registered location with the exact name.
func (r *Registry) Location(name string) (*world.Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.loc, true
}

// LocationByName resolves a free-text reference to a location. It tries, in
// order: a case-insensitive name match, a type-tag match ("bathroom"), and a
// name containing the query. Ties go to the earliest registration.
func (r *Registry) LocationByName(query string) (*world.Location, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.TrimPrefix(q, "the ")
	if q == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matchers := []func(*world.Location) bool{
		func(l *world.Location) bool { return strings.ToLower(l.Name) == q },
		func(l *world.Location) bool { return strings.ToLower(string(l.Type)) == q },
		func(l *world.Location) bool { return strings.Contains(strings.ToLower(l.Name), q) },
	}
	for _, match := range matchers {
		for _, name := range r.order {
			if l := r.entries[name].loc; match(l) {
				return l, true
			}
		}
	}
	return nil, false
}

// LocationAt returns the nearest location whose radius covers p.
func (r *Registry) LocationAt(p world.Point) (*world.Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locationAtLocked(p)
}

func (r *Registry) locationAtLocked(p world.Point) (*world.Location, bool) {
	var best *world.Location
	bestDist := math.Inf(1)
	for _, name := range r.order {
		l := r.entries[name].loc
		if !l.Covers(p) {
			continue
		}
		if d := l.Position.Distance(p); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best, best != nil
}

// Locations returns every registered location in registration order.
func (r *Registry) Locations() []*world.Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*world.Location, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].loc)
	}
	return out
}

// SetExclusiveStatus clears every value of group on the location and then
// sets value if it is non-empty. value may be given bare ("vacant") or as a
// full tag ("occupancy_vacant").
func (r *Registry) SetExclusiveStatus(location string, group Group, value string) error {
	value = strings.TrimPrefix(value, group.Prefix())
	if err := validateStatus(group, value); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[location]
	if !ok {
		return ErrLocationNotFound(location)
	}
	r.setLocked(e, group, value)
	return nil
}

// Set applies a typed status value.
func (r *Registry) Set(location string, s Status) error {
	return r.SetExclusiveStatus(location, s.Group, s.Value)
}

func (r *Registry) setLocked(e *entry, group Group, value string) {
	prev := e.status[group]
	if prev == value {
		return
	}
	if value == "" {
		delete(e.status, group)
	} else {
		e.status[group] = value
	}
	r.logger.Debug("location status changed",
		"location", e.loc.Name,
		"group", string(group),
		"from", prev,
		"to", value,
	)
}

// Status returns the current value of group on the location.
func (r *Registry) Status(location string, group Group) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[location]
	if !ok {
		return Status{}
	}
	return Status{Group: group, Value: e.status[group]}
}

// HasStatus reports whether the location carries exactly tag.
func (r *Registry) HasStatus(location, tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[location]
	if !ok {
		return false
	}
	for g, v := range e.status {
		if g.Tag(v) == tag {
			return true
		}
	}
	return false
}

// HasStatusWithPrefix reports whether any tag on the location starts with prefix.
func (r *Registry) HasStatusWithPrefix(location, prefix string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[location]
	if !ok {
		return false
	}
	for g, v := range e.status {
		if strings.HasPrefix(g.Tag(v), prefix) {
			return true
		}
	}
	return false
}

// Tags returns the location's status tags, sorted.
func (r *Registry) Tags(location string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[location]
	if !ok {
		return nil
	}
	return tagsLocked(e)
}

func tagsLocked(e *entry) []string {
	tags := make([]string, 0, len(e.status))
	for g, v := range e.status {
		tags = append(tags, g.Tag(v))
	}
	slices.Sort(tags)
	return tags
}

// View returns the location as seen in a decision snapshot.
func (r *Registry) View(location string) (world.LocationView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[location]
	if !ok {
		return world.LocationView{}, false
	}
	return viewLocked(e), true
}

// ViewsWithin returns views of every location within radius of p, nearest
// first. A non-positive radius returns every location.
func (r *Registry) ViewsWithin(p world.Point, radius float64) []world.LocationView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]world.LocationView, 0, len(r.order))
	for _, name := range r.order {
		e := r.entries[name]
		if radius > 0 && e.loc.Position.Distance(p) > radius {
			continue
		}
		views = append(views, viewLocked(e))
	}
	slices.SortStableFunc(views, func(a, b world.LocationView) int {
		da, db := a.Position.Distance(p), b.Position.Distance(p)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})
	return views
}

func viewLocked(e *entry) world.LocationView {
	return world.LocationView{
		Name:     e.loc.Name,
		Type:     e.loc.Type,
		OwnerID:  e.loc.OwnerID,
		Position: e.loc.Position,
		Notes:    e.loc.Notes(),
		Tags:     tagsLocked(e),
	}
}

func validateStatus(group Group, value string) error {
	if group == "" || strings.IndexFunc(string(group), unicode.IsSpace) >= 0 {
		return ErrInvalidStatus(group, value)
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return ErrInvalidStatus(group, value)
	}
	return nil
}
