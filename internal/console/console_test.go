// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/internal/example"
	"github.com/holomush/examplemodule/internal/region"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestConsole builds a host with the example module enabled and two regions.
func newTestConsole(t *testing.T, opts ...Option) (*Console, *region.Host) {
	t.Helper()
	ctx := context.Background()

	h, err := region.NewHost("0.9.0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close(context.Background()) })

	k := koanf.New(".")
	require.NoError(t, k.Set("example-module.enabled", true))
	require.NoError(t, k.Set("example-module.example-message", "Welcome!"))

	manifest, err := example.Manifest()
	require.NoError(t, err)
	require.NoError(t, h.Load(ctx, example.New(example.WithLogger(quietLogger())), manifest, k))

	_, err = h.AddScene(ctx, "Alpha")
	require.NoError(t, err)
	_, err = h.AddScene(ctx, "Beta")
	require.NoError(t, err)

	opts = append([]Option{WithPrompt(""), WithLogger(quietLogger())}, opts...)
	c, err := New(h, opts...)
	require.NoError(t, err)
	return c, h
}

func TestNew_RequiresHost(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestConsole_RootCommandsInOrder(t *testing.T) {
	c, _ := newTestConsole(t)
	assert.Equal(t, []string{"help", "topics", "regions", "connect", "quit"}, c.Root().Registry().Names())
}

func TestConsole_BlankLine(t *testing.T) {
	c, _ := newTestConsole(t)
	text, quit := c.Execute(context.Background(), "   ")
	assert.Empty(t, text)
	assert.False(t, quit)
}

func TestConsole_UnknownCommand(t *testing.T) {
	c, _ := newTestConsole(t)
	text, _ := c.Execute(context.Background(), "dance")
	assert.Equal(t, "Unknown command \"dance\". Try 'help'.\nAvailable commands: help, topics, regions, connect, quit", text)
}

func TestConsole_TopicRouting(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()

	text, _ := c.Execute(ctx, "example get-message")
	assert.Equal(t, "Message is: Welcome!", text)

	text, _ = c.Execute(ctx, "example set-message Hello there")
	assert.Equal(t, "Message is: Hello there", text)

	text, _ = c.Execute(ctx, "example regions")
	assert.Equal(t, "Regions: Alpha, Beta", text)

	text, _ = c.Execute(ctx, "example")
	assert.Contains(t, text, "set-message")
	assert.Contains(t, text, "get-message")

	text, _ = c.Execute(ctx, "example nope")
	assert.Contains(t, text, `Unknown command "nope"`)
	assert.Contains(t, text, "Available commands: set-message, get-message, regions")
}

func TestConsole_Help(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()

	text, _ := c.Execute(ctx, "help")
	for _, name := range []string{"help", "topics", "regions", "connect", "quit"} {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, "Topics: example")

	text, _ = c.Execute(ctx, "help connect")
	assert.Contains(t, text, "Usage: connect <first:string> <last:string> <region:string>")

	text, _ = c.Execute(ctx, "help example set-message")
	assert.Contains(t, text, "Usage: set-message <message:string>")

	text, _ = c.Execute(ctx, "help example")
	assert.Contains(t, text, "get-message")

	text, _ = c.Execute(ctx, "help bogus")
	assert.Contains(t, text, `Unknown command "bogus"`)
}

func TestConsole_HelpPattern(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()

	text, _ := c.Execute(ctx, "help *-message")
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "example set-message"))
	assert.True(t, strings.HasPrefix(lines[1], "example get-message"))

	text, _ = c.Execute(ctx, "help regions*")
	assert.Contains(t, text, "regions")
	assert.Contains(t, text, "example regions")

	text, _ = c.Execute(ctx, "help zz*")
	assert.Equal(t, `No commands match "zz*".`, text)

	text, _ = c.Execute(ctx, "help [")
	assert.Contains(t, text, "Command help failed")
}

func TestConsole_TopicsAndRegions(t *testing.T) {
	c, h := newTestConsole(t)
	ctx := context.Background()

	text, _ := c.Execute(ctx, "topics")
	assert.Equal(t, "example", text)

	text, _ = c.Execute(ctx, "regions")
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Alpha"))
	alpha, ok := h.Scene("Alpha")
	require.True(t, ok)
	assert.Contains(t, lines[0], alpha.ID.String())
}

func TestConsole_Connect(t *testing.T) {
	var connected []string
	c, _ := newTestConsole(t, WithConnectHook(func(region string) {
		connected = append(connected, region)
	}))
	ctx := context.Background()

	text, _ := c.Execute(ctx, "connect Ruth Resident Alpha")
	assert.Equal(t,
		"[modal alert to Ruth Resident] Hello! Ruth Resident! Welcome!\nRuth Resident arrived in Alpha (1 subscribers notified)",
		text)
	assert.Equal(t, []string{"Alpha"}, connected)

	text, _ = c.Execute(ctx, "connect Ruth Resident Gamma")
	assert.Contains(t, text, "Command connect failed: no region named Gamma")

	text, _ = c.Execute(ctx, "connect Ruth")
	assert.Contains(t, text, "usage: connect <first> <last> <region>")
}

func TestConsole_StrictArguments(t *testing.T) {
	c, _ := newTestConsole(t, WithStrictArguments(true))

	text, _ := c.Execute(context.Background(), "connect Ruth")
	assert.Equal(t, "Usage: connect <first:string> <last:string> <region:string>", text)

	text, _ = c.Execute(context.Background(), "help")
	assert.Contains(t, text, "Topics: example")
}

func TestConsole_AddCommand(t *testing.T) {
	c, _ := newTestConsole(t)
	require.NoError(t, c.AddCommand(command.Command{
		Name:   "ping",
		Help:   "Reply with pong",
		Source: "script",
		Handler: func(_ context.Context, inv *command.Invocation) error {
			_, err := io.WriteString(inv.Output, "pong")
			return err
		},
	}))

	text, _ := c.Execute(context.Background(), "ping")
	assert.Equal(t, "pong", text)
}

func TestConsole_Quit(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()

	text, quit := c.Execute(ctx, "quit")
	assert.Equal(t, "Bye.", text)
	assert.True(t, quit)

	_, quit = c.Execute(ctx, "topics")
	assert.False(t, quit)
}

func TestConsole_Run(t *testing.T) {
	c, _ := newTestConsole(t)
	in := strings.NewReader("example get-message\n\nquit\ntopics\n")
	var out bytes.Buffer

	require.NoError(t, c.Run(context.Background(), in, &out))
	assert.Equal(t, "Message is: Welcome!\nBye.\n", out.String())
}

func TestConsole_RunWritesPrompt(t *testing.T) {
	c, _ := newTestConsole(t, WithPrompt("> "))
	var out bytes.Buffer

	require.NoError(t, c.Run(context.Background(), strings.NewReader("topics\n"), &out))
	assert.Equal(t, "> example\n> ", out.String())
}

func TestConsole_RunStopsOnCancel(t *testing.T) {
	c, _ := newTestConsole(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx, pr, io.Discard) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancel")
	}

	// The input was closed, so nothing is left reading from it.
	_, err := pw.Write([]byte("topics\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestConsole_RunSurvivesWriteFailures(t *testing.T) {
	c, _ := newTestConsole(t)
	assert.NoError(t, c.Run(context.Background(), strings.NewReader("topics\nquit\n"), failingWriter{}))
}
