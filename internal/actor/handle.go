// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import "context"

// Handle controls a started actor.
type Handle struct {
	runner *Runner
	cancel context.CancelFunc
	done   chan struct{}
}

// Runner returns the actor's runner.
func (h *Handle) Runner() *Runner { return h.runner }

// Cancel tears the actor down. In-flight work observes the cancellation and
// its results are discarded. Cancel does not wait; see Stop.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed once teardown has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Stop cancels the actor and waits for teardown or ctx.
func (h *Handle) Stop(ctx context.Context) error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
