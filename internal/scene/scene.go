// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package scene models a simulated region: its identity, its event manager,
// and the interfaces modules publish on it.
package scene

import (
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/examplemodule/internal/command"
)

// Commanders is the console's table of module command routers.
type Commanders interface {
	RegisterCommander(r *command.Router) error
	UnregisterCommander(topic string) bool
}

// Option configures a Scene.
type Option func(*Scene)

// WithCommanders connects the scene to the console's commander table.
func WithCommanders(c Commanders) Option {
	return func(s *Scene) {
		s.commanders = c
	}
}

// Scene is one region hosted by the simulator.
type Scene struct {
	ID     ulid.ULID
	Name   string
	Events *EventManager

	commanders Commanders
	mu         sync.RWMutex
	interfaces map[string]any
}

// New creates a scene with a fresh ID.
func New(name string, opts ...Option) *Scene {
	s := &Scene{
		ID:         NewID(),
		Name:       name,
		Events:     NewEventManager(),
		interfaces: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterModuleCommander exposes a module's router on the console under the
// router's name.
func (s *Scene) RegisterModuleCommander(r *command.Router) error {
	if s.commanders == nil {
		return oops.Code("NO_CONSOLE").
			With("scene", s.Name).
			With("topic", r.Name()).
			Errorf("scene %s has no console attached", s.Name)
	}
	return s.commanders.RegisterCommander(r)
}

// UnregisterModuleCommander removes a module's router from the console.
func (s *Scene) UnregisterModuleCommander(topic string) bool {
	if s.commanders == nil {
		return false
	}
	return s.commanders.UnregisterCommander(topic)
}

// RegisterModuleInterface publishes v under name, replacing any previous value.
func (s *Scene) RegisterModuleInterface(name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interfaces[name] = v
}

// UnregisterModuleInterface removes the interface published under name.
func (s *Scene) UnregisterModuleInterface(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interfaces[name]; !ok {
		return false
	}
	delete(s.interfaces, name)
	return true
}

// ModuleInterface looks up a published interface.
func (s *Scene) ModuleInterface(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.interfaces[name]
	return v, ok
}
