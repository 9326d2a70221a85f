// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package example is a region module that demonstrates the module lifecycle,
// console commands, and client arrival events.
package example

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/oops"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/internal/region"
	"github.com/holomush/examplemodule/internal/scene"
)

// Name is the module name.
const Name = "ExampleModule"

// Topic is the console topic the module's commands live under.
const Topic = "example"

// InterfaceName is the key the module publishes itself under on each scene.
const InterfaceName = "IExampleModule"

// DefaultMessage is used when the config enables the module without a message.
const DefaultMessage = "Default Message"

// Config keys read during Initialise.
const (
	configSection = "example-module"
	configEnabled = "example-module.enabled"
	configMessage = "example-module.example-message"
	configStrict  = "strict-arguments"
)

//go:embed module.yaml
var manifestYAML []byte

// Manifest returns the module's parsed manifest.
func Manifest() (*region.Manifest, error) {
	return region.ParseManifest(manifestYAML)
}

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the module logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		m.logger = l
	}
}

// Module is the example region module.
type Module struct {
	logger   *slog.Logger
	sequence atomic.Int64
	enabled  atomic.Bool
	router   *command.Router

	mu      sync.RWMutex
	message string
	scenes  map[string]*scene.Scene
	subs    map[string]*scene.Subscription
	// console is the scene the commander was last published through.
	console *scene.Scene
}

var _ region.Module = (*Module)(nil)

// New creates a disabled module; Initialise decides whether it turns on.
func New(opts ...Option) *Module {
	m := &Module{
		logger: slog.Default(),
		scenes: make(map[string]*scene.Scene),
		subs:   make(map[string]*scene.Subscription),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("module", Name)
	m.step(context.Background(), "Constructor")
	return m
}

// step increments the callback sequence and logs it.
func (m *Module) step(ctx context.Context, callback string) {
	seq := m.sequence.Add(1) - 1
	m.logger.InfoContext(ctx, "running callback",
		"callback", callback,
		"sequence", seq,
		"enabled", m.enabled.Load())
}

// Sequence returns how many callbacks have run.
func (m *Module) Sequence() int64 {
	return m.sequence.Load()
}

// Enabled reports whether Initialise turned the module on.
func (m *Module) Enabled() bool {
	return m.enabled.Load()
}

// Message returns the current greeting message.
func (m *Module) Message() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message
}

// Router returns the module's command router, or nil before Initialise enables it.
func (m *Module) Router() *command.Router {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.router
}

// Name implements region.Module.
func (m *Module) Name() string {
	m.step(context.Background(), "Name")
	return Name
}

// Initialise reads the example-module config section.
func (m *Module) Initialise(ctx context.Context, cfg region.ConfigSource) error {
	m.step(ctx, "Initialise")

	if cfg == nil || !cfg.Exists(configSection) {
		m.logger.InfoContext(ctx, "no configuration found, disabled")
		return nil
	}

	message := DefaultMessage
	if cfg.Exists(configMessage) {
		message = cfg.String(configMessage)
	}

	m.mu.Lock()
	m.message = message
	m.mu.Unlock()

	if !cfg.Bool(configEnabled) {
		m.logger.InfoContext(ctx, "module was disabled", "message", message)
		return nil
	}

	opts := []command.RouterOption{command.WithName(Topic)}
	if cfg.Bool(configStrict) {
		opts = append(opts, command.WithStrictArguments())
	}
	router := command.NewRouter(opts...)
	if err := m.registerCommands(router); err != nil {
		return oops.In("example").Wrapf(err, "register commands")
	}

	m.mu.Lock()
	m.router = router
	m.mu.Unlock()
	m.enabled.Store(true)

	m.logger.InfoContext(ctx, "module was enabled", "message", message)
	return nil
}

// PostInitialise implements region.Module.
func (m *Module) PostInitialise(ctx context.Context) {
	m.step(ctx, "PostInitialise")
}

// AddRegion stores the scene, subscribes to client arrivals, and publishes the
// module's interface and commander on it.
func (m *Module) AddRegion(ctx context.Context, s *scene.Scene) error {
	m.step(ctx, "AddRegion")
	if !m.enabled.Load() {
		return nil
	}

	m.logger.InfoContext(ctx, "adding region", "region", s.Name)

	m.mu.Lock()
	router := m.router
	m.mu.Unlock()

	// Nothing is stored for a scene that cannot take the commander.
	if err := s.RegisterModuleCommander(router); err != nil {
		return oops.In("example").With("region", s.Name).Wrapf(err, "register commander")
	}

	sub := s.Events.OnNewClient(m.onNewClient)

	m.mu.Lock()
	if old, ok := m.subs[s.Name]; ok {
		old.Cancel()
	}
	m.scenes[s.Name] = s
	m.subs[s.Name] = sub
	m.console = s
	m.mu.Unlock()

	s.RegisterModuleInterface(InterfaceName, m)
	return nil
}

// RegionLoaded implements region.Module.
func (m *Module) RegionLoaded(ctx context.Context, _ *scene.Scene) {
	m.step(ctx, "RegionLoaded")
}

// RemoveRegion drops the scene and its subscription.
func (m *Module) RemoveRegion(ctx context.Context, s *scene.Scene) {
	m.step(ctx, "RemoveRegion")
	if !m.enabled.Load() {
		return
	}

	m.mu.Lock()
	if sub, ok := m.subs[s.Name]; ok {
		sub.Cancel()
		delete(m.subs, s.Name)
	}
	delete(m.scenes, s.Name)
	m.mu.Unlock()

	s.UnregisterModuleInterface(InterfaceName)
	m.logger.InfoContext(ctx, "removed region", "region", s.Name)
}

// Close cancels remaining subscriptions and withdraws the commander.
func (m *Module) Close(ctx context.Context) error {
	m.step(ctx, "Close")

	m.mu.Lock()
	for name, sub := range m.subs {
		sub.Cancel()
		delete(m.subs, name)
	}
	scenes := make([]*scene.Scene, 0, len(m.scenes))
	for _, s := range m.scenes {
		scenes = append(scenes, s)
	}
	m.scenes = make(map[string]*scene.Scene)
	console := m.console
	m.console = nil
	m.mu.Unlock()

	for _, s := range scenes {
		s.UnregisterModuleInterface(InterfaceName)
	}
	if console != nil {
		console.UnregisterModuleCommander(Topic)
	}
	return nil
}

// Regions returns the names of scenes the module is attached to, sorted.
func (m *Module) Regions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scenes))
	for name := range m.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Module) onNewClient(c scene.Client) {
	c.SendAlert(fmt.Sprintf("Hello! %s! %s", c.Name(), m.Message()), true)
	m.logger.Info("new client", "client", c.Name(), "remote_addr", c.RemoteAddr())
}

func (m *Module) registerCommands(r *command.Router) error {
	cmds := []command.Command{
		{
			Name: "set-message",
			Help: "Set ExampleModule message",
			Args: []command.ArgumentSpec{
				{Name: "message", Description: "The message", Type: command.ArgString},
			},
			Handler: m.handleSetMessage,
			Source:  Name,
		},
		{
			Name:    "get-message",
			Help:    "Get ExampleModule message",
			Handler: m.handleGetMessage,
			Source:  Name,
		},
		{
			Name:    "regions",
			Help:    "List regions ExampleModule is attached to",
			Handler: m.handleRegions,
			Source:  Name,
		},
	}
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) handleSetMessage(_ context.Context, inv *command.Invocation) error {
	msg := inv.Rest(0)
	if msg == "" {
		return oops.Code(command.CodeInvalidArgument).
			With("command", inv.Name).
			Errorf("message must not be empty")
	}

	m.mu.Lock()
	m.message = msg
	m.mu.Unlock()

	_, err := fmt.Fprintf(inv.Output, "Message is: %s\n", msg)
	return err
}

func (m *Module) handleGetMessage(_ context.Context, inv *command.Invocation) error {
	_, err := fmt.Fprintf(inv.Output, "Message is: %s\n", m.Message())
	return err
}

func (m *Module) handleRegions(_ context.Context, inv *command.Invocation) error {
	regions := m.Regions()
	if len(regions) == 0 {
		_, err := fmt.Fprintln(inv.Output, "No regions.")
		return err
	}
	_, err := fmt.Fprintf(inv.Output, "Regions: %s\n", strings.Join(regions, ", "))
	return err
}
