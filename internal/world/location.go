// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package world

import (
	"fmt"
	"slices"
)

// LocationType identifies the kind of location.
type LocationType string

// Location types with special access rules. Any other tag is generic.
const (
	LocationTypeBathroom LocationType = "bathroom"
	LocationTypeBedroom  LocationType = "bedroom"
	LocationTypeGeneric  LocationType = "generic"
)

// String returns the string representation of the location type.
func (t LocationType) String() string {
	return string(t)
}

// DefaultLocationRadius is used when a location does not declare its extent.
const DefaultLocationRadius = 1.5

// Location is a named point of interest.
type Location struct {
	Name     string
	Type     LocationType
	OwnerID  string // empty when unowned
	Position Point
	Radius   float64
	notes    []string
}

// NewLocation creates a location with immutable descriptive notes.
func NewLocation(name string, typ LocationType, pos Point, notes ...string) (*Location, error) {
	l := &Location{
		Name:     name,
		Type:     typ,
		Position: pos,
		Radius:   DefaultLocationRadius,
		notes:    slices.Clone(notes),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Notes returns a copy of the static descriptive notes.
func (l *Location) Notes() []string {
	return slices.Clone(l.notes)
}

// EffectiveRadius returns Radius, falling back to DefaultLocationRadius.
func (l *Location) EffectiveRadius() float64 {
	if l.Radius <= 0 {
		return DefaultLocationRadius
	}
	return l.Radius
}

// Covers reports whether p lies within the location's radius.
func (l *Location) Covers(p Point) bool {
	return l.Position.Distance(p) <= l.EffectiveRadius()
}

// IsOwnedBy reports whether actorID owns the location.
func (l *Location) IsOwnedBy(actorID string) bool {
	return l.OwnerID != "" && l.OwnerID == actorID
}

// Validate checks name, notes and radius.
func (l *Location) Validate() error {
	if err := ValidateName(l.Name); err != nil {
		return err
	}
	if l.Radius < 0 {
		return &ValidationError{Field: "radius", Message: "cannot be negative"}
	}
	for i, n := range l.notes {
		if len(n) > MaxNoteLength {
			return &ValidationError{Field: "notes", Message: fmt.Sprintf("note %d exceeds maximum length of %d", i, MaxNoteLength)}
		}
	}
	return nil
}

// LocationView is a location as seen in a decision snapshot, carrying the
// registry's status tags at the time the view was taken.
type LocationView struct {
	Name     string
	Type     LocationType
	OwnerID  string
	Position Point
	Notes    []string
	Tags     []string
}
