// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package logging builds the engine's slog logger. Records logged with a
// context carry the OpenTelemetry trace and span IDs and the acting actor.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"
)

// Options configures Setup.
type Options struct {
	Service string
	Version string
	// Format is "json" (default) or "text".
	Format string
	// Level defaults to info.
	Level slog.Level
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

type actorKey struct{}

// WithActor returns a context whose log records carry actor_id.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFrom returns the actor ID stored by WithActor.
func ActorFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}

// contextHandler adds per-record attributes taken from the context.
type contextHandler struct {
	next slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if id, ok := ActorFrom(ctx); ok {
		r.AddAttrs(slog.String("actor_id", id))
	}
	//nolint:wrapcheck // handler errors pass through
	return h.next.Handle(ctx, r)
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{next: h.next.WithGroup(name)}
}

// Setup creates a logger whose records always carry service and version.
func Setup(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	var base slog.Handler
	if opts.Format == "text" {
		base = slog.NewTextHandler(w, hopts)
	} else {
		base = slog.NewJSONHandler(w, hopts)
	}
	base = base.WithAttrs([]slog.Attr{
		slog.String("service", opts.Service),
		slog.String("version", opts.Version),
	})
	return slog.New(contextHandler{next: base})
}

// ParseLevel maps debug, info, warn and error (any case) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, oops.Code("INVALID_LOG_LEVEL").With("level", s).Errorf("unknown log level %q", s)
	}
	return l, nil
}
