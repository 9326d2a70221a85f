// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package region

import (
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/examplemodule/internal/command"
)

// CommanderTable maps console topics to module routers.
// It is thread-safe for concurrent access.
type CommanderTable struct {
	mu      sync.RWMutex
	routers map[string]*command.Router
	order   []string
}

// NewCommanderTable creates an empty table.
func NewCommanderTable() *CommanderTable {
	return &CommanderTable{routers: make(map[string]*command.Router)}
}

// RegisterCommander publishes r under r.Name(). A later router with the same
// topic replaces the earlier one.
func (t *CommanderTable) RegisterCommander(r *command.Router) error {
	if r == nil {
		return oops.Code("NIL_ROUTER").Errorf("commander router is nil")
	}
	if err := command.ValidateTopic(r.Name()); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.routers[r.Name()]; ok {
		if existing != r {
			slog.Warn("commander conflict: overwriting existing topic", "topic", r.Name())
		}
	} else {
		t.order = append(t.order, r.Name())
	}
	t.routers[r.Name()] = r
	return nil
}

// UnregisterCommander removes a topic.
func (t *CommanderTable) UnregisterCommander(topic string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.routers[topic]; !ok {
		return false
	}
	delete(t.routers, topic)
	for i, name := range t.order {
		if name == topic {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Commander looks up the router for topic.
func (t *CommanderTable) Commander(topic string) (*command.Router, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routers[topic]
	return r, ok
}

// Topics returns registered topics in registration order.
func (t *CommanderTable) Topics() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	topics := make([]string, len(t.order))
	copy(topics, t.order)
	return topics
}
