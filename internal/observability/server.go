// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package observability serves the engine's metrics, health probes and a
// read-only view of the running actors over HTTP.
package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns whether the engine is ready to run actors.
type ReadinessChecker func() bool

// Registrar adds a package's collectors to a registry.
type Registrar func(prometheus.Registerer)

// ActorStatus is one row of the /actors listing.
type ActorStatus struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	State string  `json:"state"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Mood  string  `json:"mood,omitempty"`
}

// ActorLister returns the current status of every running actor.
type ActorLister func() []ActorStatus

// Probes supplies the engine state behind the health and actor endpoints.
// Nil fields report ready and an empty actor list.
type Probes struct {
	Ready  ReadinessChecker
	Actors ActorLister
}

// Server serves /metrics, /healthz/liveness, /healthz/readiness and /actors.
type Server struct {
	addr     string
	registry *prometheus.Registry
	probes   Probes

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a server listening on addr ("host:port"; port 0 picks a
// free port). The registry always carries the Go and process collectors.
func NewServer(addr string, probes Probes, registrars ...Registrar) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	for _, register := range registrars {
		register(registry)
	}

	return &Server{
		addr:     addr,
		registry: registry,
		probes:   probes,
	}
}

// Registry returns the registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the server's routes without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /healthz/liveness", s.handleLiveness)
	mux.HandleFunc("GET /healthz/readiness", s.handleReadiness)
	mux.HandleFunc("GET /actors", s.handleActors)
	return mux
}

// Start binds the listener and serves in the background. Serve failures are
// delivered on the returned channel, which is closed once serving ends.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.listener = listener
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	return errCh, nil
}

// Stop shuts the server down. Stopping a server that is not running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		// Still running; allow another attempt.
		s.running.Store(true)
		return oops.With("operation", "shutdown_observability_server").Wrap(err)
	}
	slog.Info("observability server stopped")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.probes.Ready != nil && !s.probes.Ready() {
		writeText(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeText(w, http.StatusOK, "ok")
}

// handleActors lists actors sorted by ID. ?state= filters on the drain state.
func (s *Server) handleActors(w http.ResponseWriter, r *http.Request) {
	var actors []ActorStatus
	if s.probes.Actors != nil {
		actors = s.probes.Actors()
	}
	if want := r.URL.Query().Get("state"); want != "" {
		actors = slices.DeleteFunc(actors, func(a ActorStatus) bool {
			return !strings.EqualFold(a.State, want)
		})
	}
	if actors == nil {
		actors = []ActorStatus{}
	}
	slices.SortFunc(actors, func(a, b ActorStatus) int { return strings.Compare(a.ID, b.ID) })

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may disconnect
	json.NewEncoder(w).Encode(struct {
		Actors []ActorStatus `json:"actors"`
	}{actors})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	w.Write([]byte(body + "\n"))
}
