// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/hearthsim/hearth/internal/actor"
	"github.com/hearthsim/hearth/internal/config"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/intent"
	"github.com/hearthsim/hearth/internal/logging"
	"github.com/hearthsim/hearth/internal/observability"
	"github.com/hearthsim/hearth/internal/resource"
	"github.com/hearthsim/hearth/internal/stage"
	"github.com/hearthsim/hearth/internal/world"
	"github.com/hearthsim/hearth/pkg/errutil"
)

const (
	shutdownTimeout = 5 * time.Second
	pingTimeout     = 3 * time.Second
)

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run a scenario until interrupted",
		Long: `Load a scenario, place its actors on the stage and let every
decision-driven actor act until SIGINT or SIGTERM. Speech is printed to
stdout as a transcript; logs go to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Scenario = args[0]
			}
			return runWithDeps(cmd.Context(), &cfg, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runWithDeps runs a scenario with injectable dependencies.
// If deps is nil, default implementations are used.
func runWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *RunDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps == nil {
		deps = &RunDeps{}
	}

	if deps.DecisionServiceFactory == nil {
		deps.DecisionServiceFactory = newDecisionService
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, probes observability.Probes, registrars ...observability.Registrar) ObservabilityServer {
			return observability.NewServer(addr, probes, registrars...)
		}
	}

	if err := cfg.Validate(); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}
	logger := logging.Setup(logging.Options{
		Service: "hearth",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   level,
		Writer:  deps.LogWriter,
	})
	slog.SetDefault(logger)

	scenario, err := stage.Load(cfg.Scenario)
	if err != nil {
		return oops.Wrapf(err, "load scenario")
	}
	registry, err := scenario.Registry(resource.WithLogger(logger))
	if err != nil {
		return oops.Wrapf(err, "build registry")
	}
	actors, err := scenario.Actors()
	if err != nil {
		return oops.Wrapf(err, "build actors")
	}
	start, err := scenario.Start()
	if err != nil {
		return oops.Wrapf(err, "scenario start time")
	}

	slog.Info("starting hearth",
		"scenario", cfg.Scenario,
		"actors", len(actors),
		"locations", len(scenario.Locations),
		"decision_url", cfg.Decision.URL,
	)

	svc, err := deps.DecisionServiceFactory(cfg.Decision)
	if err != nil {
		return oops.Wrapf(err, "create decision service")
	}
	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	if err := svc.Ping(pingCtx); err != nil {
		errutil.LogWarn(logger, "decision service not answering yet", err)
	}
	pingCancel()

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	managerOpts := []actor.ManagerOption{
		actor.WithManagerLogger(logger),
		actor.WithManagerClock(stage.NewScaledClock(start, scenario.TimeScale)),
		actor.WithManagerObserver(actor.LogObserver{Logger: logger}),
	}
	if len(cfg.FillerPatterns) > 0 {
		classifier, err := intent.NewClassifier(cfg.FillerPatterns...)
		if err != nil {
			return oops.Wrapf(err, "filler patterns")
		}
		managerOpts = append(managerOpts, actor.WithManagerClassifier(classifier))
	}
	if cfg.Seed != 0 {
		managerOpts = append(managerOpts, actor.WithSeed(cfg.Seed))
	}
	manager := actor.NewManager(registry, svc, cfg.Engine, managerOpts...)

	stageOpts := []stage.Option{stage.WithStep(cfg.Step), stage.WithLogger(logger)}
	if cfg.ProximityRadius > 0 {
		stageOpts = append(stageOpts, stage.WithProximity(cfg.ProximityRadius, func(a, b world.ActorView) {
			manager.NotifyProximity(a.ID, b)
			manager.NotifyProximity(b.ID, a)
		}))
	}
	st := stage.New(scenario.Bounds, scenario.Description, registry, stageOpts...)

	var stageWG sync.WaitGroup
	stageCtx, stageCancel := context.WithCancel(context.Background())
	defer stageCancel()
	stageWG.Add(1)
	go func() {
		defer stageWG.Done()
		st.Run(stageCtx)
	}()

	stopAll := func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			slog.Warn("error stopping actors", "error", err)
		}
		stageCancel()
		stageWG.Wait()
	}

	for i, a := range actors {
		body, err := st.AddBody(a, scenario.Actors[i].Speed)
		if err != nil {
			stopAll()
			return oops.Wrapf(err, "place actor %s", a.ID)
		}
		display := &stage.LogDisplay{Name: a.Name, Logger: logger, Out: cmd.OutOrStdout()}
		if _, err := manager.Spawn(ctx, a, actor.Body{Provider: body, Mover: body, Display: display}); err != nil {
			stopAll()
			return oops.Wrapf(err, "spawn actor %s", a.ID)
		}
	}

	var ready atomic.Bool
	ready.Store(true)

	// Start observability server if configured
	var obsServer ObservabilityServer
	if cfg.MetricsAddr != "" {
		probes := observability.Probes{Ready: ready.Load, Actors: actorStatuses(manager)}
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, probes,
			decision.RegisterMetrics, actor.RegisterMetrics)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			stopAll()
			return oops.Wrapf(err, "start observability server")
		}
		// Monitor observability server errors - cancel context on error
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Hearth started")
	slog.Info("hearth ready", "actors", manager.IDs())

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")
	ready.Store(false)
	stopAll()

	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

func newDecisionService(cfg config.Decision) (DecisionService, error) {
	return decision.NewHTTPService(cfg.URL,
		decision.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		decision.WithModel(cfg.Model),
		decision.WithTranslation(cfg.Translation),
		decision.WithHTTPLogger(slog.Default()),
	)
}

// actorStatuses lists the manager's running actors for the /actors endpoint.
func actorStatuses(m *actor.Manager) observability.ActorLister {
	return func() []observability.ActorStatus {
		ids := m.IDs()
		out := make([]observability.ActorStatus, 0, len(ids))
		for _, id := range ids {
			h, ok := m.Handle(id)
			if !ok {
				continue
			}
			r := h.Runner()
			view := r.View()
			out = append(out, observability.ActorStatus{
				ID:    view.ID,
				Name:  view.Name,
				State: r.State().String(),
				X:     view.Position.X,
				Y:     view.Position.Y,
				Mood:  r.Emotion().Primary,
			})
		}
		return out
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
