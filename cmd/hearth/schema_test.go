// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthsim/hearth/internal/stage"
)

func TestSchemaCommand_Stdout(t *testing.T) {
	cmd := NewSchemaCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	var schema map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
	assert.Equal(t, stage.SchemaID, schema["$id"])
}

func TestSchemaCommand_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schemas", "scenario.schema.json")

	cmd := NewSchemaCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--output", out})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Generated")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
