// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"bytes"
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/hearthsim/hearth/internal/decision/decisiontest"
)

// fakeDecisionService adds a scriptable health check to the decision fake.
type fakeDecisionService struct {
	decisiontest.Fake
	pingErr error
}

func (f *fakeDecisionService) Ping(context.Context) error { return f.pingErr }

// mockObservabilityServer implements ObservabilityServer for testing.
type mockObservabilityServer struct {
	startFunc func() (<-chan error, error)
	stopFunc  func(ctx context.Context) error
	addrFunc  func() string
}

func (m *mockObservabilityServer) Start() (<-chan error, error) {
	if m.startFunc != nil {
		return m.startFunc()
	}
	ch := make(chan error, 1)
	return ch, nil
}

func (m *mockObservabilityServer) Stop(ctx context.Context) error {
	if m.stopFunc != nil {
		return m.stopFunc(ctx)
	}
	return nil
}

func (m *mockObservabilityServer) Addr() string {
	if m.addrFunc != nil {
		return m.addrFunc()
	}
	return "127.0.0.1:9100"
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of several
// actor displays.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newMockCmd(out *syncBuffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd
}
