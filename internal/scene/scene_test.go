// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package scene

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/pkg/errutil"
)

func TestNew(t *testing.T) {
	s := New("Alpha")

	assert.Equal(t, "Alpha", s.Name)
	assert.NotEqual(t, ulid.ULID{}, s.ID)
	require.NotNil(t, s.Events)
	assert.Equal(t, 0, s.Events.SubscriberCount())
}

func TestScene_ModuleInterfaces(t *testing.T) {
	s := New("Alpha")
	type exampleIface interface{ Hello() }
	var impl struct{ exampleIface }

	_, ok := s.ModuleInterface("IExampleModule")
	assert.False(t, ok)

	s.RegisterModuleInterface("IExampleModule", &impl)
	got, ok := s.ModuleInterface("IExampleModule")
	require.True(t, ok)
	assert.Same(t, &impl, got)

	assert.True(t, s.UnregisterModuleInterface("IExampleModule"))
	assert.False(t, s.UnregisterModuleInterface("IExampleModule"))
	_, ok = s.ModuleInterface("IExampleModule")
	assert.False(t, ok)
}

func TestNewID_Monotonic(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Equal(t, -1, a.Compare(b))
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-a-ulid")
	assert.Error(t, err)
}

func TestBasicClient(t *testing.T) {
	var gotMsg string
	var gotModal bool
	c := NewBasicClient("Ruth", "Resident", "127.0.0.1:9000", func(_ *BasicClient, msg string, modal bool) {
		gotMsg, gotModal = msg, modal
	})

	assert.Equal(t, "Ruth Resident", c.Name())
	assert.Equal(t, "127.0.0.1:9000", c.RemoteAddr())

	c.SendAlert("hi", true)
	assert.Equal(t, "hi", gotMsg)
	assert.True(t, gotModal)

	silent := NewBasicClient("A", "", "", nil)
	assert.Equal(t, "A", silent.Name())
	assert.NotPanics(t, func() { silent.SendAlert("dropped", false) })
}

type fakeCommanders struct {
	registered map[string]*command.Router
}

func (f *fakeCommanders) RegisterCommander(r *command.Router) error {
	f.registered[r.Name()] = r
	return nil
}

func (f *fakeCommanders) UnregisterCommander(topic string) bool {
	_, ok := f.registered[topic]
	delete(f.registered, topic)
	return ok
}

func TestScene_ModuleCommander(t *testing.T) {
	table := &fakeCommanders{registered: map[string]*command.Router{}}
	s := New("Alpha", WithCommanders(table))
	r := command.NewRouter(command.WithName("example"))

	require.NoError(t, s.RegisterModuleCommander(r))
	assert.Same(t, r, table.registered["example"])
	assert.True(t, s.UnregisterModuleCommander("example"))
	assert.False(t, s.UnregisterModuleCommander("example"))
}

func TestScene_ModuleCommanderWithoutConsole(t *testing.T) {
	s := New("Detached")

	err := s.RegisterModuleCommander(command.NewRouter(command.WithName("example")))
	errutil.AssertErrorCode(t, err, "NO_CONSOLE")
	assert.False(t, s.UnregisterModuleCommander("example"))
}
