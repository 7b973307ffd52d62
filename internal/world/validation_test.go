// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package world

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"valid name", "Kitchen", false, ""},
		{"empty name", "", true, "cannot be empty"},
		{"whitespace only", "   ", true, "cannot be empty"},
		{"name too long", strings.Repeat("a", MaxNameLength+1), true, "exceeds maximum length"},
		{"max length name", strings.Repeat("a", MaxNameLength), false, ""},
		{"unicode name", "日本語の名前", false, ""},
		{"invalid UTF-8 bytes", "\xff\xfe", true, "must be valid UTF-8"},
		{"control char", "name\x00with null", true, "cannot contain control characters"},
		{"newline not allowed", "name\nwith newline", true, "cannot contain control characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Equal(t, "name", ve.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"simple id", "ada", false, ""},
		{"dashed id", "ada-lovelace_2", false, ""},
		{"empty", "", true, "cannot be empty"},
		{"too long", strings.Repeat("x", MaxIDLength+1), true, "exceeds maximum length"},
		{"max length", strings.Repeat("x", MaxIDLength), false, ""},
		{"space", "ada lovelace", true, "whitespace"},
		{"tab", "ada\tl", true, "whitespace"},
		{"control char", "ada\x01", true, "control"},
		{"invalid UTF-8", "\xff", true, "must be valid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "id", ve.Field)
		})
	}
}
