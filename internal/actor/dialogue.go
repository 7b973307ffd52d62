// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package actor

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/hearthsim/hearth/internal/action"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/world"
	"github.com/hearthsim/hearth/pkg/errutil"
)

// Retry policy for a conversation that collides with this actor's own
// outstanding decision request.
const (
	dialogueRetries    = 3
	dialogueRetryDelay = 500 * time.Millisecond
)

// dialogueWith returns the callback that runs a conversation with partner
// once the approach move has finished.
func (r *Runner) dialogueWith(partner world.ActorView) action.CallbackFunc {
	return func(ctx context.Context, done func(error)) {
		r.spawn(ctx, func() {
			done(r.converse(ctx, partner))
		})
	}
}

func (r *Runner) converse(ctx context.Context, partner world.ActorView) error {
	other := decision.Participant{ID: partner.ID, Name: partner.Name, Emotion: world.DefaultEmotion()}
	peer, known := r.directory.Peer(partner.ID)
	if known {
		other = decision.Participant{ID: peer.View.ID, Name: peer.View.Name, Emotion: peer.Emotion}
	}

	req := decision.DialogueRequest{
		SessionID: r.session(partner.ID),
		Participants: []decision.Participant{
			{ID: r.id, Name: r.name, Emotion: r.Emotion()},
			other,
		},
		Scene:    r.provider.GeneralDescription(),
		MaxTurns: r.cfg.DialogueTurns,
	}
	if r.clock != nil {
		req.Time = r.clock.Now()
	}

	var resp decision.DialogueResponse
	b := retry.WithMaxRetries(dialogueRetries, retry.NewConstant(dialogueRetryDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		resp, err = r.client.Converse(ctx, req)
		if decision.IsInFlight(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if err != nil {
		errutil.LogErrorContext(ctx, r.logger, "conversation failed", err)
		r.say(ctx, action.ErrorAnnouncement, r.cfg.PerPage)
		return err
	}

	if resp.SessionID != "" {
		r.setSession(partner.ID, resp.SessionID)
	}
	now := time.Now()
	for i := range resp.Turns {
		if resp.Turns[i].At.IsZero() {
			resp.Turns[i].At = now
		}
	}
	r.history.Add(resp.Turns...)
	if known && peer.History != nil {
		peer.History.Add(resp.Turns...)
	}
	r.cooldowns.Touch(r.id, partner.ID, now)
	r.logger.InfoContext(ctx, "conversation finished",
		"other_id", partner.ID, "session_id", resp.SessionID, "turns", len(resp.Turns))

	for _, t := range resp.Turns {
		if res := r.say(ctx, speakerName(t)+": "+t.Text, r.cfg.PerPage); res.status == ItemStatusCancelled {
			return res.err
		}
	}
	return nil
}
