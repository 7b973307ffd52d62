// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/world"
)

// arrivalPoll is how often a move checks the distance to its target in case
// the mover never calls back.
const arrivalPoll = 100 * time.Millisecond

var errStillUnavailable = errors.New("location still unavailable")

type execResult struct {
	status     string
	err        error
	reason     string
	reevaluate bool
}

func succeeded() execResult { return execResult{status: ItemStatusSuccess} }

func cancelled(ctx context.Context) execResult {
	return execResult{status: ItemStatusCancelled, err: context.Cause(ctx)}
}

func (r *Runner) execute(ctx context.Context, it action.Item) execResult {
	switch it := it.(type) {
	case *action.Speak:
		return r.say(ctx, it.Text, it.PerPage)
	case *action.Move:
		return r.moveTo(ctx, it.Target, it.Purpose)
	case *action.WaitForResource:
		return r.waitFor(ctx, it)
	case *action.Callback:
		return r.callback(ctx, it)
	default:
		return execResult{
			status: ItemStatusError,
			err: oops.Code(CodeUnknownItem).
				With("item", fmt.Sprint(it)).
				Errorf("unknown action item %T", it),
		}
	}
}

// say shows text page by page and returns once the last page has been shown.
func (r *Runner) say(ctx context.Context, text string, perPage time.Duration) execResult {
	if perPage <= 0 {
		perPage = r.cfg.PerPage
	}
	for _, page := range action.Paginate(text, r.cfg.PageBudget) {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		if r.display == nil {
			r.logger.InfoContext(ctx, "says", "name", r.name, "text", page)
			continue
		}

		shown := make(chan struct{})
		var once sync.Once
		r.display.ShowText(page, perPage, func() { once.Do(func() { close(shown) }) })
		select {
		case <-shown:
		case <-ctx.Done():
			return cancelled(ctx)
		}
	}
	return succeeded()
}

// moveTo walks to target and reports the final position to the registry.
func (r *Runner) moveTo(ctx context.Context, target world.Point, purpose string) execResult {
	arrived := make(chan struct{})
	var once sync.Once
	r.mover.MoveTo(target, func() { once.Do(func() { close(arrived) }) })

	timeout := time.NewTimer(r.cfg.MoveTimeout)
	defer timeout.Stop()
	poll := time.NewTicker(arrivalPoll)
	defer poll.Stop()

wait:
	for {
		select {
		case <-ctx.Done():
			r.mover.Stop()
			return cancelled(ctx)
		case <-arrived:
			break wait
		case <-poll.C:
			if r.provider.CurrentPosition().Distance(target) <= r.cfg.ArrivalDistance {
				break wait
			}
		case <-timeout.C:
			r.mover.Stop()
			r.registry.Relocate(r.id, r.provider.CurrentPosition())
			return execResult{
				status: ItemStatusTimeout,
				err:    ErrMoveTimeout(r.id, target),
				reason: fmt.Sprintf("I couldn't get to %s in time.", target),
			}
		}
	}
	if ctx.Err() != nil {
		return cancelled(ctx)
	}

	pos := r.provider.CurrentPosition()
	if d := pos.Distance(target); d > r.cfg.ArrivalDistance {
		r.logger.WarnContext(ctx, "arrived short of target",
			"target", target.String(), "position", pos.String(), "distance", d, "purpose", purpose)
	}
	r.registry.Relocate(r.id, pos)
	return succeeded()
}

// waitFor polls a location every RecheckInterval until it is available to
// this actor. No wait outlasts MaxWait. Reaching MaxWait gives up, leaves a
// reason for the next decision and asks for an immediate re-evaluation; a
// shorter explicit duration just elapses.
func (r *Runner) waitFor(ctx context.Context, w *action.WaitForResource) execResult {
	loc, ok := r.registry.Location(w.Location)
	if !ok {
		ResourceWaits.WithLabelValues(WaitElapsed).Inc()
		return execResult{status: ItemStatusError, err: resource.ErrLocationNotFound(w.Location)}
	}

	limit, ceiling := w.Duration, false
	if limit <= 0 || limit >= r.cfg.MaxWait {
		limit, ceiling = r.cfg.MaxWait, true
	}

	started := time.Now()
	b := retry.WithMaxDuration(limit, retry.NewConstant(r.cfg.RecheckInterval))
	err := retry.Do(ctx, b, func(_ context.Context) error {
		if r.registry.IsUnavailable(loc.Name, r.id) {
			return retry.RetryableError(errStillUnavailable)
		}
		return nil
	})

	switch {
	case ctx.Err() != nil:
		ResourceWaits.WithLabelValues(WaitCancelled).Inc()
		return cancelled(ctx)
	case err == nil:
		ResourceWaits.WithLabelValues(WaitAvailable).Inc()
		r.logger.DebugContext(ctx, "location available",
			"location", loc.Name, "waited", time.Since(started).Round(time.Millisecond).String())
		if w.Enter {
			return r.moveTo(ctx, loc.Position, "enter "+loc.Name)
		}
		return succeeded()
	case errors.Is(err, errStillUnavailable) && ceiling:
		ResourceWaits.WithLabelValues(WaitCeiling).Inc()
		r.logger.InfoContext(ctx, "gave up waiting", "location", loc.Name, "max_wait", limit.String())
		return execResult{
			status:     ItemStatusTimeout,
			reason:     fmt.Sprintf("I waited too long for the %s and gave up.", loc.Name),
			reevaluate: true,
		}
	case errors.Is(err, errStillUnavailable):
		ResourceWaits.WithLabelValues(WaitElapsed).Inc()
		return succeeded()
	default:
		return execResult{status: ItemStatusError, err: oops.With("location", loc.Name).Wrap(err)}
	}
}

func (r *Runner) callback(ctx context.Context, cb *action.Callback) execResult {
	if cb.Run == nil {
		return succeeded()
	}
	finished := make(chan error, 1)
	var once sync.Once
	cb.Run(ctx, func(err error) {
		once.Do(func() { finished <- err })
	})
	select {
	case err := <-finished:
		if err != nil {
			return execResult{status: ItemStatusError, err: err}
		}
		return succeeded()
	case <-ctx.Done():
		return cancelled(ctx)
	}
}
