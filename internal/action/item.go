// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package action defines the units of work an actor performs and expands
// decisions into ordered lists of them.
package action

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hearthsim/hearth/internal/world"
)

// Kind identifies an item variant.
type Kind string

// Item kinds.
const (
	KindSpeak    Kind = "speak"
	KindMove     Kind = "move"
	KindWait     Kind = "wait_for_resource"
	KindCallback Kind = "callback"
)

// Item is one queued unit of actor behavior. The set of variants is closed:
// Speak, Move, WaitForResource and Callback.
type Item interface {
	ID() ulid.ULID
	Kind() Kind
	String() string
	item()
}

type base struct {
	id ulid.ULID
}

func newBase() base { return base{id: ulid.Make()} }

// ID returns the item's unique identifier.
func (b base) ID() ulid.ULID { return b.id }

func (base) item() {}

// Speak shows text, page by page, for PerPage each.
type Speak struct {
	base
	Text    string
	PerPage time.Duration
}

// NewSpeak creates a Speak item.
func NewSpeak(text string, perPage time.Duration) *Speak {
	return &Speak{base: newBase(), Text: text, PerPage: perPage}
}

// Kind implements Item.
func (*Speak) Kind() Kind { return KindSpeak }

func (s *Speak) String() string { return fmt.Sprintf("speak(%q)", s.Text) }

// Move walks the actor to Target.
type Move struct {
	base
	Target  world.Point
	Purpose string
}

// NewMove creates a Move item.
func NewMove(target world.Point, purpose string) *Move {
	return &Move{base: newBase(), Target: target, Purpose: purpose}
}

// Kind implements Item.
func (*Move) Kind() Kind { return KindMove }

func (m *Move) String() string { return fmt.Sprintf("move(%s, %s)", m.Target, m.Purpose) }

// WaitForResource waits until Location is available to the actor. With a
// non-zero Duration it waits exactly that long at most; otherwise the
// runner's maximum wait applies. When Enter is set the actor walks into the
// location once it frees up.
type WaitForResource struct {
	base
	Location string
	Duration time.Duration
	Enter    bool
}

// NewWait creates a WaitForResource item.
func NewWait(location string, d time.Duration, enter bool) *WaitForResource {
	return &WaitForResource{base: newBase(), Location: location, Duration: d, Enter: enter}
}

// Kind implements Item.
func (*WaitForResource) Kind() Kind { return KindWait }

func (w *WaitForResource) String() string { return fmt.Sprintf("wait(%s)", w.Location) }

// CallbackFunc runs asynchronously and calls done exactly once when finished.
// ctx is cancelled when the actor is torn down.
type CallbackFunc func(ctx context.Context, done func(error))

// Callback splices arbitrary asynchronous work into the queue.
type Callback struct {
	base
	Name string
	Run  CallbackFunc
}

// NewCallback creates a Callback item.
func NewCallback(name string, run CallbackFunc) *Callback {
	return &Callback{base: newBase(), Name: name, Run: run}
}

// Kind implements Item.
func (*Callback) Kind() Kind { return KindCallback }

func (c *Callback) String() string { return fmt.Sprintf("callback(%s)", c.Name) }
