// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package command provides the command registry, tokenizer, and dispatch router
// for line-oriented operator consoles.
package command

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ArgType is the advisory type tag of a declared argument.
// It drives help text and the conversion helpers on Invocation; it is never
// enforced by the router.
type ArgType string

// Argument type tags.
const (
	ArgString  ArgType = "string"
	ArgInteger ArgType = "integer"
	ArgFloat   ArgType = "float"
)

// Intent classifies how dangerous a command is to run.
type Intent int

// Command intents.
const (
	IntentNonHazardous Intent = iota
	IntentHazardous
)

// String returns the lowercase intent name.
func (i Intent) String() string {
	if i == IntentHazardous {
		return "hazardous"
	}
	return "non-hazardous"
}

// ArgumentSpec declares one positional argument of a command.
type ArgumentSpec struct {
	Name        string
	Description string
	Type        ArgType
}

// Handler is the function signature for command handlers.
// Anything written to inv.Output becomes the Output of the dispatch Result.
type Handler func(ctx context.Context, inv *Invocation) error

// Command is a registered command definition.
type Command struct {
	Name    string         // unique key (e.g., "set-message")
	Help    string         // short description (one line)
	Args    []ArgumentSpec // declared positional arguments
	Handler Handler
	Intent  Intent
	Source  string // owner of the command, e.g. "console", "example", "script"
}

// Usage renders the command and its declared arguments, e.g.
// "set-message <message:string>".
func (c Command) Usage() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		typ := arg.Type
		if typ == "" {
			typ = ArgString
		}
		fmt.Fprintf(&b, " <%s:%s>", arg.Name, typ)
	}
	return b.String()
}

// clone returns a copy that shares no slices with c.
func (c Command) clone() Command {
	if c.Args != nil {
		args := make([]ArgumentSpec, len(c.Args))
		copy(args, c.Args)
		c.Args = args
	}
	return c
}

// Invocation is a single parsed call handed to a Handler.
// Handlers MUST NOT retain inv beyond the call.
type Invocation struct {
	Name   string   // matched command name
	Args   []string // positional arguments, padded to the declared count
	Raw    string   // original input line
	Output io.Writer
}
