// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package world contains the domain types shared by the actor engine and the
// collaborator interfaces it drives (movement, display, clock, scene queries).
package world

import (
	"fmt"
	"math"
)

// Point is a position in the playable area.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Length returns the distance from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector in the direction of p.
// The zero vector normalizes to itself.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// String formats the point with one decimal place.
func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle, used for the playable-area bounds.
type Rect struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// Validate checks that the maximum corner is not below the minimum corner.
func (r Rect) Validate() error {
	if r.MaxX < r.MinX {
		return &ValidationError{Field: "bounds", Message: "max_x must be greater than or equal to min_x"}
	}
	if r.MaxY < r.MinY {
		return &ValidationError{Field: "bounds", Message: "max_y must be greater than or equal to min_y"}
	}
	return nil
}

// IsZero reports whether the rectangle is unset.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Clamp moves p inside the rectangle shrunk by buffer on every side.
// If the buffer would invert an axis, that axis clamps to its midpoint.
func (r Rect) Clamp(p Point, buffer float64) Point {
	return Point{
		X: clampAxis(p.X, r.MinX, r.MaxX, buffer),
		Y: clampAxis(p.Y, r.MinY, r.MaxY, buffer),
	}
}

func clampAxis(v, lo, hi, buffer float64) float64 {
	lo += buffer
	hi -= buffer
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
