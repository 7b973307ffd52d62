// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package errutil

import (
	"testing"

	"github.com/onsi/gomega/gcustom"
	"github.com/onsi/gomega/types"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	assert.Equal(t, code, oopsErr.Code(), "error: %v", err)
}

// AssertErrorContext asserts that err carries key=value in its oops context.
func AssertErrorContext(t testing.TB, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, value, oopsErr.Context()[key], "context key %q", key)
}

// HaveErrorCode is the gomega form of AssertErrorCode.
func HaveErrorCode(code string) types.GomegaMatcher {
	return gcustom.MakeMatcher(func(err error) (bool, error) {
		if err == nil {
			return false, nil
		}
		oopsErr, ok := oops.AsOops(err)
		return ok && oopsErr.Code() == code, nil
	}).WithMessage("carry oops error code " + code)
}
