// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scene

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Client is a connected viewer arriving in a scene.
type Client interface {
	ID() ulid.ULID
	FirstName() string
	LastName() string
	Name() string
	RemoteAddr() string
	// SendAlert shows message to the client; modal alerts need acknowledging.
	SendAlert(message string, modal bool)
}

// NewClientFunc handles a client entering a scene.
type NewClientFunc func(Client)

// Subscription is the cancellation handle returned by EventManager.
type Subscription struct {
	id     ulid.ULID
	once   sync.Once
	cancel func()
}

// ID identifies the subscription.
func (s *Subscription) ID() ulid.ULID {
	return s.id
}

// Cancel removes the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

type newClientSub struct {
	id ulid.ULID
	fn NewClientFunc
}

// EventManager fans scene events out to subscribed modules.
// Callbacks run synchronously on the emitting goroutine, outside the lock.
type EventManager struct {
	mu        sync.RWMutex
	newClient []newClientSub
}

// NewEventManager creates an event manager with no subscribers.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// OnNewClient subscribes fn to client arrivals.
func (m *EventManager) OnNewClient(fn NewClientFunc) *Subscription {
	id := NewID()

	m.mu.Lock()
	m.newClient = append(m.newClient, newClientSub{id: id, fn: fn})
	m.mu.Unlock()

	return &Subscription{
		id:     id,
		cancel: func() { m.removeNewClient(id) },
	}
}

func (m *EventManager) removeNewClient(id ulid.ULID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.newClient {
		if sub.id == id {
			m.newClient = append(m.newClient[:i:i], m.newClient[i+1:]...)
			return
		}
	}
}

// NewClient delivers a client arrival to every current subscriber in
// subscription order and returns how many were called.
func (m *EventManager) NewClient(c Client) int {
	m.mu.RLock()
	subs := make([]newClientSub, len(m.newClient))
	copy(subs, m.newClient)
	m.mu.RUnlock()

	for _, sub := range subs {
		deliver(sub, c)
	}
	return len(subs)
}

// deliver isolates subscribers from each other's panics.
func deliver(sub newClientSub, c Client) {
	defer func() {
		if recovered := recover(); recovered != nil {
			slog.Error("new client subscriber panicked",
				"subscription_id", sub.id.String(),
				"client", c.Name(),
				"panic", recovered)
		}
	}()
	sub.fn(c)
}

// SubscriberCount returns the number of new-client subscribers.
func (m *EventManager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.newClient)
}
