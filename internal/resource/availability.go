// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package resource

import (
	"github.com/hearthsim/hearth/internal/world"
)

// Unavailability reasons.
const (
	ReasonOccupied    = "occupied"
	ReasonOwnerAbsent = "owner_absent"
)

// IsUnavailable reports whether requester should stay out of the location.
// Unknown locations are available.
func (r *Registry) IsUnavailable(location, requester string) bool {
	_, blocked := r.Obstruction(location, requester)
	return blocked
}

// Obstruction reports why requester should stay out of the location:
//   - a bathroom occupied by anyone but the requester is ReasonOccupied;
//   - a bedroom owned by someone else is ReasonOwnerAbsent while the owner's
//     presence value is "absent".
func (r *Registry) Obstruction(location, requester string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[location]
	if !ok {
		return "", false
	}
	switch e.loc.Type {
	case world.LocationTypeBathroom:
		s := Status{Group: GroupOccupancy, Value: e.status[GroupOccupancy]}
		if occupant, ok := s.Occupant(); ok && occupant != requester {
			return ReasonOccupied, true
		}
	case world.LocationTypeBedroom:
		if e.loc.OwnerID != "" && !e.loc.IsOwnedBy(requester) &&
			e.status[GroupOwnerPresence] == OwnerAbsent.Value {
			return ReasonOwnerAbsent, true
		}
	}
	return "", false
}

// NotifyArrival records that actorID is now at location. Arriving at a
// bathroom marks it occupied by the actor; an owner arriving at their bedroom
// marks the owner present. An actor still recorded elsewhere departs first.
// Repeated arrivals at the same location are no-ops.
func (r *Registry) NotifyArrival(actorID, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[location]
	if !ok {
		return ErrLocationNotFound(location)
	}
	if cur, ok := r.occupying[actorID]; ok {
		if cur == location {
			return nil
		}
		r.departLocked(actorID, cur)
	}
	r.arriveLocked(actorID, e)
	return nil
}

func (r *Registry) arriveLocked(actorID string, e *entry) {
	r.occupying[actorID] = e.loc.Name
	switch e.loc.Type {
	case world.LocationTypeBathroom:
		r.setLocked(e, GroupOccupancy, OccupiedBy(actorID).Value)
	case world.LocationTypeBedroom:
		if e.loc.IsOwnedBy(actorID) {
			r.setLocked(e, GroupOwnerPresence, OwnerPresent.Value)
		}
	}
}

// NotifyDeparture records that actorID left whatever location it occupied.
// It reports the location left, if any. Calling it again is a no-op.
func (r *Registry) NotifyDeparture(actorID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.occupying[actorID]
	if !ok {
		return "", false
	}
	r.departLocked(actorID, cur)
	return cur, true
}

func (r *Registry) departLocked(actorID, location string) {
	delete(r.occupying, actorID)
	e, ok := r.entries[location]
	if !ok {
		return
	}
	switch e.loc.Type {
	case world.LocationTypeBathroom:
		// Only clear our own tag: a later arrival may have overwritten it.
		if e.status[GroupOccupancy] == OccupiedBy(actorID).Value {
			r.setLocked(e, GroupOccupancy, Vacant.Value)
		}
	case world.LocationTypeBedroom:
		if e.loc.IsOwnedBy(actorID) {
			r.setLocked(e, GroupOwnerPresence, OwnerAbsent.Value)
		}
	}
}

// Occupying returns the location actorID is recorded at.
func (r *Registry) Occupying(actorID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.occupying[actorID]
	return loc, ok
}

// Relocate records that actorID now stands at p: it departs the previous
// location and arrives at the one covering p. It reports whether the
// recorded location changed; standing still inside the same location is a
// no-op.
func (r *Registry) Relocate(actorID string, p world.Point) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next string
	if l, ok := r.locationAtLocked(p); ok {
		next = l.Name
	}
	cur, had := r.occupying[actorID]
	if had && cur == next {
		return false
	}
	if !had && next == "" {
		return false
	}
	if had {
		r.departLocked(actorID, cur)
	}
	if next == "" {
		return true
	}

	r.arriveLocked(actorID, r.entries[next])
	return true
}
