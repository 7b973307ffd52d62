// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	subcommands := []string{"run", "validate", "schema"}
	for _, sub := range subcommands {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "config flag",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "config flag with equals",
			args:     []string{"--config=/etc/hearth.yaml", "--help"},
			wantFlag: "/etc/hearth.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global
			configFile = ""

			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCmd()
	cmd.Version = "1.2.3 (commit: abc, built: today)"
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "1.2.3")
}
