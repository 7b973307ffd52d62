// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package decisiontest provides a scriptable decision service for tests.
package decisiontest

import (
	"context"
	"sync"

	"github.com/hearthsim/hearth/internal/decision"
)

// Fake is a decision.Service whose replies come from a script. Once the
// script runs out it answers with an "idle" decision at the actor's current
// position. Every request is recorded.
type Fake struct {
	mu        sync.Mutex
	script    []func(context.Context, decision.Snapshot) (decision.Result, error)
	snapshots []decision.Snapshot
	dialogues []decision.DialogueRequest

	// ConverseFunc answers dialogue requests; nil replies with no turns.
	ConverseFunc func(context.Context, decision.DialogueRequest) (decision.DialogueResponse, error)
}

// Then appends a fixed reply to the script.
func (f *Fake) Then(res decision.Result, err error) *Fake {
	return f.ThenFunc(func(context.Context, decision.Snapshot) (decision.Result, error) {
		return res, err
	})
}

// ThenFunc appends a computed reply to the script.
func (f *Fake) ThenFunc(fn func(context.Context, decision.Snapshot) (decision.Result, error)) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, fn)
	return f
}

// ThenBlock appends a reply that waits for release (or ctx) before answering.
func (f *Fake) ThenBlock(release <-chan struct{}, res decision.Result) *Fake {
	return f.ThenFunc(func(ctx context.Context, _ decision.Snapshot) (decision.Result, error) {
		select {
		case <-release:
			return res, nil
		case <-ctx.Done():
			return decision.Result{}, ctx.Err()
		}
	})
}

// Decide implements decision.Service.
func (f *Fake) Decide(ctx context.Context, snap decision.Snapshot) (decision.Result, error) {
	f.mu.Lock()
	f.snapshots = append(f.snapshots, snap)
	var next func(context.Context, decision.Snapshot) (decision.Result, error)
	if len(f.script) > 0 {
		next, f.script = f.script[0], f.script[1:]
	}
	f.mu.Unlock()

	if next == nil {
		return decision.Result{Target: snap.Position, Summary: "idle"}, nil
	}
	return next(ctx, snap)
}

// Converse implements decision.Service.
func (f *Fake) Converse(ctx context.Context, req decision.DialogueRequest) (decision.DialogueResponse, error) {
	f.mu.Lock()
	f.dialogues = append(f.dialogues, req)
	fn := f.ConverseFunc
	f.mu.Unlock()

	if fn == nil {
		return decision.DialogueResponse{SessionID: "session"}, nil
	}
	return fn(ctx, req)
}

// Snapshots returns every decision request received so far.
func (f *Fake) Snapshots() []decision.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]decision.Snapshot(nil), f.snapshots...)
}

// Dialogues returns every dialogue request received so far.
func (f *Fake) Dialogues() []decision.DialogueRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]decision.DialogueRequest(nil), f.dialogues...)
}
