// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	good := writeScenario(t, testScenario)
	bad := writeScenario(t, "version: \"3.0.0\"\nbounds: {min_x: 0, max_x: 1, min_y: 0, max_y: 1}\nactors: [{id: a, name: A, position: {x: 0, y: 0}}]\n")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		wantOut string
	}{
		{name: "valid scenario", args: []string{good}, wantOut: "ok (2 actors, 1 locations)"},
		{name: "unsupported version", args: []string{bad}, wantErr: true, wantOut: "does not satisfy"},
		{name: "one bad among good", args: []string{good, bad}, wantErr: true, wantOut: "ok (2 actors"},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "none.yaml")}, wantErr: true, wantOut: "none.yaml"},
		{name: "bundled scenario", args: []string{filepath.Join("..", "..", "scenarios", "shared-flat.yaml")}, wantOut: "ok (4 actors, 5 locations)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewValidateCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestValidateCommand_RequiresArgs(t *testing.T) {
	cmd := NewValidateCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(nil)

	assert.Error(t, cmd.Execute())
}
