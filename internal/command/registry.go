// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"log/slog"
	"sync"
)

// Registry manages command registration and lookup.
// It is thread-safe for concurrent access and remembers registration order.
type Registry struct {
	commands map[string]Command
	order    []string
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry.
// If a command with the same name exists, it is overwritten in place (keeping
// its listing position) and a warning is logged.
func (r *Registry) Register(cmd Command) error {
	if err := ValidateCommandName(cmd.Name); err != nil {
		return err
	}
	if cmd.Handler == nil {
		return ErrNilHandler(cmd.Name)
	}
	cmd = cmd.clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commands[cmd.Name]; ok {
		slog.Warn("command conflict: overwriting existing command",
			"command", cmd.Name,
			"previous_source", existing.Source,
			"new_source", cmd.Source)
	} else {
		r.order = append(r.order, cmd.Name)
	}

	r.commands[cmd.Name] = cmd
	return nil
}

// Unregister removes a command. It reports whether the command was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[name]; !ok {
		return false
	}
	delete(r.commands, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get retrieves a command by name.
// Returns the command and true if found, or zero value and false if not found.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	if !ok {
		return Command{}, false
	}
	return cmd.clone(), true
}

// All returns all registered commands in registration order.
// The returned slice is a copy and safe to modify.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name].clone())
	}
	return cmds
}

// Names returns registered command names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
