// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"fmt"
	"strings"
)

// ResultKind classifies the outcome of a dispatch or help request.
type ResultKind int

// Result kinds.
const (
	ResultOK ResultKind = iota
	ResultCommandNotFound
	ResultHandlerError
	ResultArgumentCount
)

// String returns the snake_case kind name used in logs and span attributes.
func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultCommandNotFound:
		return "command_not_found"
	case ResultHandlerError:
		return "handler_error"
	case ResultArgumentCount:
		return "argument_count"
	default:
		return "unknown"
	}
}

// HelpEntry is one line of a help listing.
type HelpEntry struct {
	Name   string
	Help   string
	Usage  string
	Intent Intent
}

// Result is the structured outcome of Dispatch or Help.
// The router never renders it; callers decide how to display it.
type Result struct {
	Kind      ResultKind
	Command   string      // matched or requested command name
	Output    string      // text written by the handler, or rendered help
	Available []string    // registered names, set for ResultCommandNotFound
	Entries   []HelpEntry // set by Help
	Err       error       // coded error for every non-OK kind
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.Kind == ResultOK
}

// Text renders the result for an operator console.
func (r Result) Text() string {
	switch r.Kind {
	case ResultOK:
		return strings.TrimRight(r.Output, "\n")
	case ResultCommandNotFound:
		msg := OperatorMessage(r.Err)
		if len(r.Available) > 0 {
			msg += "\nAvailable commands: " + strings.Join(r.Available, ", ")
		}
		return msg
	case ResultHandlerError:
		msg := fmt.Sprintf("Command %s failed: %v", r.Command, HandlerCause(r.Err))
		if out := strings.TrimRight(r.Output, "\n"); out != "" {
			return out + "\n" + msg
		}
		return msg
	default:
		return OperatorMessage(r.Err)
	}
}
