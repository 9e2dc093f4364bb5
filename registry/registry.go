// Package registry tracks live handles by run ID so a driver can look up,
// signal and reap runs beyond the scope that created them.
package registry

import (
	"fmt"
	"sync"

	"github.com/hupe1980/loopkit/core"
	"github.com/hupe1980/loopkit/logging"
)

// Handle is the non-generic surface the registry needs; *engine.Handle
// satisfies it for any field type.
type Handle interface {
	RunID() string
	Role() string
	State() core.RunState
	IsClosed() bool
	Pause() bool
	Resume() bool
	Stop() bool
	Result() core.RunResult
}

// Registry is a thread-safe run-ID index over live handles.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]Handle
	logger  logging.Logger
}

// New creates an empty registry. A nil logger disables logging.
func New(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &Registry{
		handles: make(map[string]Handle),
		logger:  logger,
	}
}

// Register indexes h under its run ID. The handle must have been started
// (registration needs the ID) and the ID must not already be taken.
func (r *Registry) Register(h Handle) error {
	id := h.RunID()
	if id == "" {
		return fmt.Errorf("registry: handle %q has not been started", h.Role())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[id]; ok {
		return fmt.Errorf("registry: run %s already registered", id)
	}

	r.handles[id] = h
	r.logger.Debug("run registered", "run_id", id, "role", h.Role())

	return nil
}

// Get returns the handle registered under id.
func (r *Registry) Get(id string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[id]

	return h, ok
}

// List returns all registered handles in unspecified order.
func (r *Registry) List() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}

	return out
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handles)
}

// Remove drops the handle registered under id, reporting whether it existed.
// The run itself is not signalled.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[id]; !ok {
		return false
	}

	delete(r.handles, id)

	return true
}

// Stop records a stop request on the run registered under id.
func (r *Registry) Stop(id string) bool {
	h, ok := r.Get(id)
	if !ok {
		return false
	}

	return h.Stop()
}

// StopAll records a stop request on every registered run and returns how many
// requests were newly accepted.
func (r *Registry) StopAll() int {
	n := 0
	for _, h := range r.List() {
		if h.Stop() {
			n++
		}
	}

	if n > 0 {
		r.logger.Info("stop requested for all runs", "accepted", n)
	}

	return n
}

// Reap removes every closed handle and returns how many were dropped.
func (r *Registry) Reap() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, h := range r.handles {
		if h.IsClosed() {
			delete(r.handles, id)
			n++
		}
	}

	return n
}
