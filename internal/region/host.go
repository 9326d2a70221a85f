// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package region

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"

	"github.com/holomush/examplemodule/internal/scene"
)

// Error codes for host operations.
const (
	CodeRegionExists   = "REGION_EXISTS"
	CodeRegionNotFound = "REGION_NOT_FOUND"
	CodeHostClosed     = "HOST_CLOSED"
)

type loadedModule struct {
	module   Module
	manifest *Manifest
}

// Host plays the simulator's part: it loads modules, creates and removes
// scenes, and calls each module's lifecycle callbacks in order.
// Callbacks never run under the host lock.
type Host struct {
	version    *semver.Version
	commanders *CommanderTable

	mu         sync.RWMutex
	modules    []loadedModule
	scenes     map[string]*scene.Scene
	sceneOrder []string
	closed     bool
	ready      atomic.Bool
}

// NewHost creates a host reporting the given simulator version.
func NewHost(version string) (*Host, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, oops.Code("INVALID_CONFIG").
			With("host_version", version).
			Wrapf(err, "host version is not semantic")
	}
	return &Host{
		version:    v,
		commanders: NewCommanderTable(),
		scenes:     make(map[string]*scene.Scene),
	}, nil
}

// Version returns the simulator version modules are checked against.
func (h *Host) Version() *semver.Version {
	return h.version
}

// Commanders returns the console commander table.
func (h *Host) Commanders() *CommanderTable {
	return h.commanders
}

// Load checks the manifest against the host version, initialises the module,
// and adds it to every scene that already exists.
func (h *Host) Load(ctx context.Context, m Module, manifest *Manifest, cfg ConfigSource) error {
	if manifest != nil {
		if err := manifest.CheckHost(h.version); err != nil {
			return err
		}
	}

	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return oops.Code(CodeHostClosed).With("module", m.Name()).Errorf("host is closed")
	}

	if err := m.Initialise(ctx, cfg); err != nil {
		return oops.With("module", m.Name()).Wrapf(err, "initialise module")
	}
	m.PostInitialise(ctx)

	h.mu.Lock()
	h.modules = append(h.modules, loadedModule{module: m, manifest: manifest})
	scenes := h.orderedScenesLocked()
	h.mu.Unlock()

	for _, s := range scenes {
		h.attach(ctx, m, s)
	}

	attrs := []any{"module", m.Name()}
	if manifest != nil {
		attrs = append(attrs, "version", manifest.Version)
	}
	slog.InfoContext(ctx, "loaded region module", attrs...)
	h.ready.Store(true)
	return nil
}

// AddScene creates a scene and runs AddRegion then RegionLoaded on every module.
func (h *Host) AddScene(ctx context.Context, name string) (*scene.Scene, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, oops.Code(CodeHostClosed).With("region", name).Errorf("host is closed")
	}
	if _, ok := h.scenes[name]; ok {
		h.mu.Unlock()
		return nil, oops.Code(CodeRegionExists).With("region", name).Errorf("region %s already exists", name)
	}
	s := scene.New(name, scene.WithCommanders(h.commanders))
	h.scenes[name] = s
	h.sceneOrder = append(h.sceneOrder, name)
	modules := h.modulesLocked()
	h.mu.Unlock()

	for _, m := range modules {
		h.attach(ctx, m, s)
	}

	slog.InfoContext(ctx, "region added", "region", name, "region_id", s.ID.String())
	return s, nil
}

func (h *Host) attach(ctx context.Context, m Module, s *scene.Scene) {
	if err := m.AddRegion(ctx, s); err != nil {
		slog.ErrorContext(ctx, "module failed to add region",
			"module", m.Name(),
			"region", s.Name,
			"error", err)
		return
	}
	m.RegionLoaded(ctx, s)
}

// RemoveScene runs RemoveRegion on every module and forgets the scene.
func (h *Host) RemoveScene(ctx context.Context, name string) error {
	h.mu.Lock()
	s, ok := h.scenes[name]
	if !ok {
		h.mu.Unlock()
		return oops.Code(CodeRegionNotFound).With("region", name).Errorf("region %s not found", name)
	}
	delete(h.scenes, name)
	for i, n := range h.sceneOrder {
		if n == name {
			h.sceneOrder = append(h.sceneOrder[:i], h.sceneOrder[i+1:]...)
			break
		}
	}
	modules := h.modulesLocked()
	h.mu.Unlock()

	for _, m := range modules {
		m.RemoveRegion(ctx, s)
	}

	slog.InfoContext(ctx, "region removed", "region", name)
	return nil
}

// Scene looks up a scene by name.
func (h *Host) Scene(name string) (*scene.Scene, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.scenes[name]
	return s, ok
}

// Scenes returns scenes in the order they were added.
func (h *Host) Scenes() []*scene.Scene {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.orderedScenesLocked()
}

// Modules returns loaded module names in load order.
func (h *Host) Modules() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.modules))
	for _, lm := range h.modules {
		names = append(names, lm.module.Name())
	}
	return names
}

// Ready reports whether at least one module has loaded and the host is open.
func (h *Host) Ready() bool {
	return h.ready.Load()
}

// Close removes every scene and closes modules in reverse load order.
// Calling Close twice is a no-op.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.ready.Store(false)
	scenes := h.orderedScenesLocked()
	modules := h.modulesLocked()
	h.scenes = make(map[string]*scene.Scene)
	h.sceneOrder = nil
	h.mu.Unlock()

	for _, s := range scenes {
		for _, m := range modules {
			m.RemoveRegion(ctx, s)
		}
	}

	var errs []error
	for i := len(modules) - 1; i >= 0; i-- {
		if err := modules[i].Close(ctx); err != nil {
			errs = append(errs, oops.With("module", modules[i].Name()).Wrapf(err, "close module"))
		}
	}

	slog.InfoContext(ctx, "region host closed", "regions", len(scenes), "modules", len(modules))
	return errors.Join(errs...)
}

func (h *Host) orderedScenesLocked() []*scene.Scene {
	scenes := make([]*scene.Scene, 0, len(h.sceneOrder))
	for _, name := range h.sceneOrder {
		scenes = append(scenes, h.scenes[name])
	}
	return scenes
}

func (h *Host) modulesLocked() []Module {
	modules := make([]Module, 0, len(h.modules))
	for _, lm := range h.modules {
		modules = append(modules, lm.module)
	}
	return modules
}
