// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorContext(context.Background(), logger, msg, err)
}

// LogErrorContext is LogError with a context, so handlers can pick up
// trace and actor attributes.
func LogErrorContext(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logAt(ctx, logger, slog.LevelError, msg, err)
}

// LogWarn logs a recoverable error at warning level, with the same
// structure as LogError.
func LogWarn(logger *slog.Logger, msg string, err error) {
	LogWarnContext(context.Background(), logger, msg, err)
}

// LogWarnContext is LogWarn with a context.
func LogWarnContext(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logAt(ctx, logger, slog.LevelWarn, msg, err)
}

func logAt(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if octx := oopsErr.Context(); len(octx) > 0 {
			attrs = append(attrs, "context", octx)
		}
		logger.Log(ctx, level, msg, attrs...)
	} else {
		logger.Log(ctx, level, msg, "error", err)
	}
}
