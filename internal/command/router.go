// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("examplemodule/command")

// ArgumentPolicy decides what happens when a line carries fewer tokens than
// the command declares arguments.
type ArgumentPolicy int

// Argument policies.
const (
	// ArgumentsPermissive pads missing arguments with "".
	ArgumentsPermissive ArgumentPolicy = iota
	// ArgumentsStrict rejects the line with an ARGUMENT_COUNT result.
	ArgumentsStrict
)

// CodeInvalidPattern is returned by Match for malformed glob patterns.
const CodeInvalidPattern = "INVALID_PATTERN"

// Router matches tokenized lines to registered commands and runs their handlers.
// Each Router owns its Registry.
type Router struct {
	name     string
	registry *Registry
	policy   ArgumentPolicy
}

// RouterOption configures a Router during construction.
type RouterOption func(*Router)

// WithName sets the router name used in logs, metrics, and spans.
func WithName(name string) RouterOption {
	return func(r *Router) {
		r.name = name
	}
}

// WithArgumentPolicy sets how missing arguments are handled.
func WithArgumentPolicy(p ArgumentPolicy) RouterOption {
	return func(r *Router) {
		r.policy = p
	}
}

// WithStrictArguments is shorthand for WithArgumentPolicy(ArgumentsStrict).
func WithStrictArguments() RouterOption {
	return WithArgumentPolicy(ArgumentsStrict)
}

// NewRouter creates a router with an empty registry.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		name:     "default",
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the router name.
func (r *Router) Name() string {
	return r.name
}

// Registry exposes the router's registry.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Register adds or replaces a command.
func (r *Router) Register(cmd Command) error {
	return r.registry.Register(cmd)
}

// Unregister removes a command by name.
func (r *Router) Unregister(name string) bool {
	return r.registry.Unregister(name)
}

// Dispatch tokenizes line and runs the matching command.
// It never panics: unknown names, argument shortfalls, handler errors, and
// handler panics all come back as a Result.
func (r *Router) Dispatch(ctx context.Context, line string) Result {
	parsed, err := Parse(line)
	if err != nil {
		return Result{
			Kind:      ResultCommandNotFound,
			Available: r.registry.Names(),
			Err:       err,
		}
	}
	return r.dispatch(ctx, parsed)
}

// DispatchArgs runs a command from an already tokenized line.
func (r *Router) DispatchArgs(ctx context.Context, name string, args []string) Result {
	if name == "" {
		return r.Dispatch(ctx, "")
	}
	raw := strings.TrimSpace(name + " " + strings.Join(args, " "))
	parsed := &ParsedLine{Name: name, Args: append([]string(nil), args...), Raw: raw}
	return r.dispatch(ctx, parsed)
}

func (r *Router) dispatch(ctx context.Context, parsed *ParsedLine) (res Result) {
	recorder := NewMetricsRecorder(r.name)
	defer recorder.Record()

	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(
			attribute.String("command.router", r.name),
			attribute.String("command.name", parsed.Name),
			attribute.Int("command.argc", len(parsed.Args)),
		),
	)
	defer func() {
		span.SetAttributes(attribute.String("command.result", res.Kind.String()))
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
		span.End()
	}()

	cmd, ok := r.registry.Get(parsed.Name)
	if !ok {
		recorder.SetCommandName(unknownCommandLabel)
		recorder.SetStatus(StatusNotFound)
		available := r.registry.Names()
		return Result{
			Kind:      ResultCommandNotFound,
			Command:   parsed.Name,
			Available: available,
			Err:       ErrCommandNotFound(parsed.Name, available),
		}
	}

	recorder.SetCommandName(cmd.Name)
	recorder.SetCommandSource(cmd.Source)
	span.SetAttributes(attribute.String("command.source", cmd.Source))

	args := parsed.Args
	if len(args) < len(cmd.Args) {
		if r.policy == ArgumentsStrict {
			recorder.SetStatus(StatusArgumentCount)
			return Result{
				Kind:    ResultArgumentCount,
				Command: cmd.Name,
				Err:     ErrArgumentCount(cmd.Name, cmd.Usage(), len(cmd.Args), len(args)),
			}
		}
		padded := make([]string, len(cmd.Args))
		copy(padded, args)
		args = padded
	}

	var out bytes.Buffer
	inv := &Invocation{
		Name:   cmd.Name,
		Args:   args,
		Raw:    parsed.Raw,
		Output: &out,
	}

	if err := invoke(ctx, cmd, inv); err != nil {
		slog.WarnContext(ctx, "command execution failed",
			"router", r.name,
			"command", cmd.Name,
			"error", err,
		)
		recorder.SetStatus(StatusError)
		return Result{
			Kind:    ResultHandlerError,
			Command: cmd.Name,
			Output:  out.String(),
			Err:     err,
		}
	}

	recorder.SetStatus(StatusSuccess)
	return Result{
		Kind:    ResultOK,
		Command: cmd.Name,
		Output:  out.String(),
	}
}

// invoke runs the handler with no registry lock held, converting errors and
// panics into HANDLER_ERROR.
func invoke(ctx context.Context, cmd Command, inv *Invocation) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = ErrHandlerPanic(cmd.Name, recovered)
		}
	}()

	if handlerErr := cmd.Handler(ctx, inv); handlerErr != nil {
		return ErrHandler(cmd.Name, handlerErr)
	}
	return nil
}

// Help lists every command in registration order when name is empty,
// otherwise renders the usage of the named command.
func (r *Router) Help(name string) Result {
	if name == "" {
		cmds := r.registry.All()
		entries := make([]HelpEntry, 0, len(cmds))
		var b strings.Builder
		for _, cmd := range cmds {
			entries = append(entries, helpEntry(cmd))
			fmt.Fprintf(&b, "%-20s %s\n", cmd.Name, cmd.Help)
		}
		return Result{Kind: ResultOK, Output: b.String(), Entries: entries}
	}

	cmd, ok := r.registry.Get(name)
	if !ok {
		available := r.registry.Names()
		return Result{
			Kind:      ResultCommandNotFound,
			Command:   name,
			Available: available,
			Err:       ErrCommandNotFound(name, available),
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s\n", cmd.Usage())
	if cmd.Help != "" {
		fmt.Fprintf(&b, "%s\n", cmd.Help)
	}
	for _, arg := range cmd.Args {
		typ := arg.Type
		if typ == "" {
			typ = ArgString
		}
		fmt.Fprintf(&b, "  %s (%s): %s\n", arg.Name, typ, arg.Description)
	}
	if cmd.Intent == IntentHazardous {
		b.WriteString("This command is hazardous.\n")
	}
	return Result{
		Kind:    ResultOK,
		Command: cmd.Name,
		Output:  b.String(),
		Entries: []HelpEntry{helpEntry(cmd)},
	}
}

// Match returns help entries for commands whose names match a glob pattern,
// in registration order.
func (r *Router) Match(pattern string) ([]HelpEntry, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, oops.Code(CodeInvalidPattern).
			With("pattern", pattern).
			Wrapf(err, "invalid pattern %q", pattern)
	}

	var entries []HelpEntry
	for _, cmd := range r.registry.All() {
		if g.Match(cmd.Name) {
			entries = append(entries, helpEntry(cmd))
		}
	}
	return entries, nil
}

func helpEntry(cmd Command) HelpEntry {
	return HelpEntry{
		Name:   cmd.Name,
		Help:   cmd.Help,
		Usage:  cmd.Usage(),
		Intent: cmd.Intent,
	}
}
