package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/loopkit/core"
)

type fakeHandle struct {
	id      string
	role    string
	state   core.RunState
	stopped bool
}

func (f *fakeHandle) RunID() string          { return f.id }
func (f *fakeHandle) Role() string           { return f.role }
func (f *fakeHandle) State() core.RunState   { return f.state }
func (f *fakeHandle) IsClosed() bool         { return f.state == core.StateClosed }
func (f *fakeHandle) Pause() bool            { return false }
func (f *fakeHandle) Resume() bool           { return false }
func (f *fakeHandle) Result() core.RunResult { return core.RunResult{} }

func (f *fakeHandle) Stop() bool {
	if f.stopped || f.IsClosed() {
		return false
	}
	f.stopped = true
	return true
}

func newFake(i int, state core.RunState) *fakeHandle {
	return &fakeHandle{id: fmt.Sprintf("run-%d", i), role: "worker", state: state}
}

func TestRegisterAndGet(t *testing.T) {
	r := New(nil)
	h := newFake(1, core.StateActive)

	require.NoError(t, r.Register(h))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("run-1")
	require.True(t, ok)
	assert.Same(t, h, got)

	_, ok = r.Get("run-2")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicatesAndUnstarted(t *testing.T) {
	r := New(nil)
	h := newFake(1, core.StateActive)

	require.NoError(t, r.Register(h))
	assert.Error(t, r.Register(h))

	assert.Error(t, r.Register(&fakeHandle{role: "unstarted"}))
}

func TestRemove(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register(newFake(1, core.StateActive)))

	assert.True(t, r.Remove("run-1"))
	assert.False(t, r.Remove("run-1"))
	assert.Equal(t, 0, r.Len())
}

func TestStopAndStopAll(t *testing.T) {
	r := New(nil)
	h1 := newFake(1, core.StateActive)
	h2 := newFake(2, core.StateActive)
	closed := newFake(3, core.StateClosed)

	require.NoError(t, r.Register(h1))
	require.NoError(t, r.Register(h2))
	require.NoError(t, r.Register(closed))

	assert.True(t, r.Stop("run-1"))
	assert.False(t, r.Stop("run-1"), "second stop is a no-op")
	assert.False(t, r.Stop("missing"))

	// h1 already stopped, closed rejects: only h2 is newly accepted.
	assert.Equal(t, 1, r.StopAll())
	assert.True(t, h2.stopped)
}

func TestReap(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register(newFake(1, core.StateActive)))
	require.NoError(t, r.Register(newFake(2, core.StateClosed)))
	require.NoError(t, r.Register(newFake(3, core.StateClosed)))

	assert.Equal(t, 2, r.Reap())
	assert.Equal(t, 1, r.Len())

	_, ok := r.Get("run-1")
	assert.True(t, ok)
}
