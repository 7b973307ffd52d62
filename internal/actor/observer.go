// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/hearthsim/hearth/internal/action"
)

// Observer receives the drain trace of an actor. Calls for one actor come
// from a single goroutine, in order; calls for different actors may
// interleave.
type Observer interface {
	ItemStarted(actorID string, item action.Item)
	ItemFinished(actorID string, item action.Item, err error)
	StateChanged(actorID string, from, to State)
}

// Event is one recorded observer call.
type Event struct {
	ActorID string
	// Op is "start", "finish" or "state".
	Op   string
	Item action.Item
	Err  error
	From State
	To   State
}

func (e Event) String() string {
	switch e.Op {
	case "state":
		return fmt.Sprintf("%s state %s->%s", e.ActorID, e.From, e.To)
	default:
		return fmt.Sprintf("%s %s %s", e.ActorID, e.Op, e.Item)
	}
}

// Recorder is an Observer that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// ItemStarted implements Observer.
func (r *Recorder) ItemStarted(actorID string, item action.Item) {
	r.add(Event{ActorID: actorID, Op: "start", Item: item})
}

// ItemFinished implements Observer.
func (r *Recorder) ItemFinished(actorID string, item action.Item, err error) {
	r.add(Event{ActorID: actorID, Op: "finish", Item: item, Err: err})
}

// StateChanged implements Observer.
func (r *Recorder) StateChanged(actorID string, from, to State) {
	r.add(Event{ActorID: actorID, Op: "state", From: from, To: to})
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the events recorded for actorID, or all events when
// actorID is empty.
func (r *Recorder) Events(actorID string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if actorID == "" || e.ActorID == actorID {
			out = append(out, e)
		}
	}
	return out
}

// Started returns the items actorID started, in order.
func (r *Recorder) Started(actorID string) []action.Item {
	var out []action.Item
	for _, e := range r.Events(actorID) {
		if e.Op == "start" {
			out = append(out, e.Item)
		}
	}
	return out
}

// States returns the states actorID entered, in order.
func (r *Recorder) States(actorID string) []State {
	var out []State
	for _, e := range r.Events(actorID) {
		if e.Op == "state" {
			out = append(out, e.To)
		}
	}
	return out
}

// LogObserver writes the drain trace at debug level.
type LogObserver struct {
	Logger *slog.Logger
}

// ItemStarted implements Observer.
func (o LogObserver) ItemStarted(actorID string, item action.Item) {
	o.Logger.Debug("item started", "actor_id", actorID, "item_id", item.ID().String(), "item", item.String())
}

// ItemFinished implements Observer.
func (o LogObserver) ItemFinished(actorID string, item action.Item, err error) {
	o.Logger.Debug("item finished", "actor_id", actorID, "item_id", item.ID().String(), "kind", item.Kind(), "error", err)
}

// StateChanged implements Observer.
func (o LogObserver) StateChanged(actorID string, from, to State) {
	o.Logger.Debug("state changed", "actor_id", actorID, "from", from.String(), "to", to.String())
}

type multiObserver []Observer

func (m multiObserver) ItemStarted(actorID string, item action.Item) {
	for _, o := range m {
		o.ItemStarted(actorID, item)
	}
}

func (m multiObserver) ItemFinished(actorID string, item action.Item, err error) {
	for _, o := range m {
		o.ItemFinished(actorID, item, err)
	}
}

func (m multiObserver) StateChanged(actorID string, from, to State) {
	for _, o := range m {
		o.StateChanged(actorID, from, to)
	}
}
