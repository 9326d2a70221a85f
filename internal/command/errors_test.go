// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/holomush/examplemodule/pkg/errutil"
)

func TestErrCommandNotFound(t *testing.T) {
	err := ErrCommandNotFound("foo", []string{"echo", "ping"})
	errutil.AssertErrorCode(t, err, CodeCommandNotFound)
	errutil.AssertErrorContext(t, err, "command", "foo")
	errutil.AssertErrorContext(t, err, "available", []string{"echo", "ping"})
}

func TestErrHandler_WrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrHandler("save", cause)

	errutil.AssertErrorCode(t, err, CodeHandlerError)
	errutil.AssertErrorContext(t, err, "command", "save")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, HandlerCause(err))
}

func TestErrHandlerPanic(t *testing.T) {
	err := ErrHandlerPanic("boom", "kaboom")
	errutil.AssertErrorCode(t, err, CodeHandlerError)
	errutil.AssertErrorContext(t, err, "panic", "kaboom")
	assert.EqualError(t, HandlerCause(err), "panic: kaboom")
}

func TestErrArgumentCount(t *testing.T) {
	err := ErrArgumentCount("set-message", "set-message <message:string>", 1, 0)
	errutil.AssertErrorCode(t, err, CodeArgumentCount)
	errutil.AssertErrorContext(t, err, "want", 1)
	errutil.AssertErrorContext(t, err, "got", 0)
}

func TestErrInvalidArgument(t *testing.T) {
	err := ErrInvalidArgument("roll", 0, "six", ArgInteger)
	errutil.AssertErrorCode(t, err, CodeInvalidArgument)
	errutil.AssertErrorContext(t, err, "value", "six")
	assert.Contains(t, err.Error(), `"six" is not a valid integer`)
}

func TestOperatorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("oops"), "Something went wrong: oops"},
		{"not found", ErrCommandNotFound("frob", nil), `Unknown command "frob". Try 'help'.`},
		{"argument count with usage", ErrArgumentCount("a", "a <x:string>", 1, 0), "Usage: a <x:string>"},
		{"argument count without usage", ErrArgumentCount("a", "", 1, 0), "Wrong number of arguments."},
		{"empty input", oops.Code(CodeEmptyInput).Errorf("no command provided"), "No command provided."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OperatorMessage(tt.err))
		})
	}
}
