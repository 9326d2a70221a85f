// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Error codes for registration and dispatch failures.
const (
	CodeCommandNotFound = "COMMAND_NOT_FOUND"
	CodeHandlerError    = "HANDLER_ERROR"
	CodeArgumentCount   = "ARGUMENT_COUNT"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInvalidName     = "INVALID_NAME"
	CodeNilHandler      = "NIL_HANDLER"
	CodeEmptyInput      = "EMPTY_INPUT"
)

// ErrCommandNotFound creates an error for an unmatched command name.
func ErrCommandNotFound(cmd string, available []string) error {
	return oops.Code(CodeCommandNotFound).
		With("command", cmd).
		With("available", available).
		Errorf("command not found: %s", cmd)
}

// ErrHandler wraps a handler failure with the command that raised it.
func ErrHandler(cmd string, cause error) error {
	return oops.Code(CodeHandlerError).
		With("command", cmd).
		Wrapf(cause, "command %s failed", cmd)
}

// ErrHandlerPanic converts a recovered panic value into a handler error.
func ErrHandlerPanic(cmd string, recovered any) error {
	return oops.Code(CodeHandlerError).
		With("command", cmd).
		With("panic", fmt.Sprint(recovered)).
		Wrapf(fmt.Errorf("panic: %v", recovered), "command %s failed", cmd)
}

// ErrArgumentCount creates an error for too few arguments under the strict policy.
func ErrArgumentCount(cmd, usage string, want, got int) error {
	return oops.Code(CodeArgumentCount).
		With("command", cmd).
		With("usage", usage).
		With("want", want).
		With("got", got).
		Errorf("command %s expects %d argument(s), got %d", cmd, want, got)
}

// ErrInvalidArgument creates an error for an argument that could not be
// converted to its declared type.
func ErrInvalidArgument(cmd string, index int, value string, want ArgType) error {
	return oops.Code(CodeInvalidArgument).
		With("command", cmd).
		With("index", index).
		With("value", value).
		With("type", string(want)).
		Errorf("argument %d of %s: %q is not a valid %s", index+1, cmd, value, want)
}

// ErrNilHandler creates an error for registering a command without a handler.
func ErrNilHandler(cmd string) error {
	return oops.Code(CodeNilHandler).
		With("command", cmd).
		Errorf("command %s has no handler", cmd)
}

// HandlerCause returns the failure a handler error wraps, or err itself.
func HandlerCause(err error) error {
	if cause := errors.Unwrap(err); cause != nil {
		return cause
	}
	return err
}

// OperatorMessage extracts an operator-facing message from an error.
// Handler errors carry the handler's own codes, so callers holding a Result
// should prefer Result.Text.
func OperatorMessage(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong: " + err.Error()
	}

	ctx := oopsErr.Context()
	switch oopsErr.Code() {
	case CodeCommandNotFound:
		return fmt.Sprintf("Unknown command %q. Try 'help'.", ctx["command"])
	case CodeArgumentCount:
		if usage, ok := ctx["usage"].(string); ok && usage != "" {
			return "Usage: " + usage
		}
		return "Wrong number of arguments."
	case CodeInvalidArgument:
		return oopsErr.Error()
	case CodeEmptyInput:
		return "No command provided."
	default:
		return "Something went wrong: " + oopsErr.Error()
	}
}
