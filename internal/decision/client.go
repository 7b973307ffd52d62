// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hearth/decision")

// Client makes decision calls for a single actor. At most one call, decision
// or dialogue, is outstanding at a time; a second call fails immediately with
// CodeInFlight rather than queueing.
//
// The context passed to each call is the actor's lifetime. When it is
// cancelled while the call is outstanding, the call returns CodeActorGone
// and the caller must abandon any follow-up work.
type Client struct {
	actorID  string
	svc      Service
	inFlight atomic.Bool
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the client's logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for actorID backed by svc.
func NewClient(actorID string, svc Service, opts ...ClientOption) *Client {
	c := &Client{
		actorID: actorID,
		svc:     svc,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Busy reports whether a call is outstanding.
func (c *Client) Busy() bool {
	return c.inFlight.Load()
}

func (c *Client) acquire(kind string) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		recordCall(kind, StatusInFlight, 0)
		return ErrInFlight(c.actorID)
	}
	return nil
}

// RequestDecision asks the service what the actor should do next.
func (c *Client) RequestDecision(ctx context.Context, snap Snapshot) (res Result, err error) {
	if err := c.acquire(KindDecide); err != nil {
		return Result{}, err
	}
	defer c.inFlight.Store(false)

	ctx, span := tracer.Start(ctx, "decision.decide",
		trace.WithAttributes(
			attribute.String("actor.id", c.actorID),
			attribute.String("decision.request_id", snap.RequestID.String()),
			attribute.String("decision.trigger", string(snap.Trigger)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	res, err = c.svc.Decide(ctx, snap)
	elapsed := time.Since(start)

	// The actor may have been torn down while we were suspended.
	if ctxErr := ctx.Err(); ctxErr != nil {
		recordCall(KindDecide, StatusStale, elapsed)
		return Result{}, ErrActorGone(c.actorID, ctxErr)
	}
	if err != nil {
		recordCall(KindDecide, StatusError, elapsed)
		return Result{}, err
	}
	recordCall(KindDecide, StatusSuccess, elapsed)

	res.RequestID = snap.RequestID
	res.ActorID = c.actorID
	res.Trigger = snap.Trigger
	span.SetAttributes(attribute.String("decision.summary", res.Summary))
	c.logger.DebugContext(ctx, "decision received",
		"request_id", snap.RequestID.String(),
		"summary", res.Summary,
		"target", res.Target.String(),
		"reasoning", res.Reasoning,
		"drivers", res.Drivers,
		"elapsed", elapsed)
	return res, nil
}

// Converse runs a sub-dialogue through the service. It shares the
// single-flight slot with RequestDecision.
func (c *Client) Converse(ctx context.Context, req DialogueRequest) (resp DialogueResponse, err error) {
	if err := c.acquire(KindConverse); err != nil {
		return DialogueResponse{}, err
	}
	defer c.inFlight.Store(false)

	ctx, span := tracer.Start(ctx, "decision.converse",
		trace.WithAttributes(
			attribute.String("actor.id", c.actorID),
			attribute.String("dialogue.session_id", req.SessionID),
			attribute.Int("dialogue.participants", len(req.Participants)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	resp, err = c.svc.Converse(ctx, req)
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		recordCall(KindConverse, StatusStale, elapsed)
		return DialogueResponse{}, ErrActorGone(c.actorID, ctxErr)
	}
	if err != nil {
		recordCall(KindConverse, StatusError, elapsed)
		return DialogueResponse{}, err
	}
	recordCall(KindConverse, StatusSuccess, elapsed)
	span.SetAttributes(attribute.Int("dialogue.turns", len(resp.Turns)))
	return resp, nil
}
