// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package commandtest provides assertions for command router results.
package commandtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/pkg/errutil"
)

// AssertOutput asserts res succeeded and rendered want.
func AssertOutput(t *testing.T, res command.Result, want string) {
	t.Helper()
	require.True(t, res.OK(), "expected ok result, got %s: %v", res.Kind, res.Err)
	assert.Equal(t, want, res.Text())
}

// AssertFailure asserts res has the given kind and its error carries code.
// The deepest code in the chain is compared, so a handler failure reports
// the code its handler returned.
func AssertFailure(t *testing.T, res command.Result, kind command.ResultKind, code string) {
	t.Helper()
	require.Equal(t, kind, res.Kind, "unexpected result kind: %v", res.Err)
	errutil.AssertErrorCode(t, res.Err, code)
}
