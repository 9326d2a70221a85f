// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package console is the operator's line-oriented command console. It owns a
// root command router and forwards lines that start with a module topic to
// that module's router.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/samber/oops"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/internal/observability"
	"github.com/holomush/examplemodule/internal/region"
)

// RootTopic names the console's own router in logs and metrics.
const RootTopic = "console"

// DefaultPrompt is written before each line is read.
const DefaultPrompt = "examplemodule> "

// Option configures a Console.
type Option func(*Console)

// WithPrompt replaces the prompt. An empty prompt disables it.
func WithPrompt(p string) Option {
	return func(c *Console) {
		c.prompt = p
	}
}

// WithStrictArguments makes the root router reject short argument lists.
func WithStrictArguments(strict bool) Option {
	return func(c *Console) {
		c.strict = strict
	}
}

// WithConnectHook is called with the region name after each simulated
// client arrival.
func WithConnectHook(fn func(region string)) Option {
	return func(c *Console) {
		c.onConnect = fn
	}
}

// WithLogger sets the console logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.logger = l
	}
}

// Console executes operator lines against the root router and module topics.
type Console struct {
	host      *region.Host
	root      *command.Router
	prompt    string
	strict    bool
	logger    *slog.Logger
	onConnect func(region string)
	quit      atomic.Bool
}

// New creates a console bound to host and registers the built-in commands.
func New(host *region.Host, opts ...Option) (*Console, error) {
	if host == nil {
		return nil, oops.Code("INVALID_ARGUMENT").Errorf("console requires a region host")
	}
	c := &Console{
		host:   host,
		prompt: DefaultPrompt,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	routerOpts := []command.RouterOption{command.WithName(RootTopic)}
	if c.strict {
		routerOpts = append(routerOpts, command.WithStrictArguments())
	}
	c.root = command.NewRouter(routerOpts...)

	for _, cmd := range c.builtins() {
		if err := c.root.Register(cmd); err != nil {
			return nil, oops.With("command", cmd.Name).Wrapf(err, "register built-in command")
		}
	}
	return c, nil
}

// Root returns the console's own router.
func (c *Console) Root() *command.Router {
	return c.root
}

// AddCommand registers an extra root command, such as a script.
func (c *Console) AddCommand(cmd command.Command) error {
	return c.root.Register(cmd)
}

// Execute runs one line and returns the text to show and whether the
// operator asked to quit. Blank lines produce no output.
func (c *Console) Execute(ctx context.Context, line string) (string, bool) {
	tokens := command.Tokenize(line)
	if len(tokens) == 0 {
		return "", false
	}

	if r, ok := c.host.Commanders().Commander(tokens[0]); ok {
		if len(tokens) == 1 {
			return r.Help("").Text(), false
		}
		return r.DispatchArgs(ctx, tokens[1], tokens[2:]).Text(), false
	}

	res := c.root.Dispatch(ctx, line)
	return res.Text(), c.quit.Swap(false)
}

// Run reads lines from in until EOF, quit, or ctx is cancelled, writing
// results to out. On cancellation in is closed when it is an io.Closer so the
// reader goroutine stops; any other blocking reader must be unblocked by the
// caller.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.logger.InfoContext(ctx, "console ready", "topics", c.host.Commanders().Topics())

	for {
		c.write(out, RootTopic, c.prompt, false)

		select {
		case <-ctx.Done():
			if closer, ok := in.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					c.logger.Warn("closing console input failed", "error", err)
				}
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return oops.Wrapf(err, "read console input")
				}
				return nil
			}
			text, quit := c.Execute(ctx, line)
			if text != "" {
				c.write(out, c.topicOf(line), text, true)
			}
			if quit {
				return nil
			}
		}
	}
}

func (c *Console) write(out io.Writer, topic, text string, newline bool) {
	if text == "" {
		return
	}
	var err error
	if newline {
		_, err = fmt.Fprintln(out, text)
	} else {
		_, err = io.WriteString(out, text)
	}
	if err != nil {
		observability.RecordConsoleOutputFailure(topic)
		c.logger.Warn("console write failed", "topic", topic, "error", err)
	}
}

// topicOf bounds metric labels to known topics.
func (c *Console) topicOf(line string) string {
	if fields := strings.Fields(line); len(fields) > 0 {
		if _, ok := c.host.Commanders().Commander(fields[0]); ok {
			return fields[0]
		}
	}
	return RootTopic
}
