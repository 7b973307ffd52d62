// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"context"
	"io"

	"github.com/hearthsim/hearth/internal/config"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/observability"
)

// RunDeps contains injectable dependencies for the run command.
// All fields with nil values will use their default implementations.
type RunDeps struct {
	// DecisionServiceFactory creates the decision service client.
	// Default: decision.NewHTTPService
	DecisionServiceFactory func(cfg config.Decision) (DecisionService, error)
	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, probes observability.Probes, registrars ...observability.Registrar) ObservabilityServer
	// LogWriter receives structured logs.
	// Default: os.Stderr
	LogWriter io.Writer
}

// DecisionService wraps the methods used from decision.HTTPService.
type DecisionService interface {
	decision.Service
	Ping(ctx context.Context) error
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
