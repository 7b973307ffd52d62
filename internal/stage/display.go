// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package stage

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hearthsim/hearth/internal/world"
)

// LogDisplay renders an actor's speech to the log and, when Out is set, as a
// plain transcript line. Each page stays up for perPage before the callback.
type LogDisplay struct {
	Name   string
	Logger *slog.Logger
	Out    io.Writer
}

var _ world.Display = (*LogDisplay)(nil)

// ShowText implements world.Display.
func (d *LogDisplay) ShowText(text string, perPage time.Duration, onAllPagesShown func()) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("speech", "actor", d.Name, "text", text)
	if d.Out != nil {
		_, _ = fmt.Fprintf(d.Out, "[%s] %s\n", d.Name, text)
	}
	if onAllPagesShown == nil {
		return
	}
	if perPage <= 0 {
		onAllPagesShown()
		return
	}
	time.AfterFunc(perPage, onAllPagesShown)
}
