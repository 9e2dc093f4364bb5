// Package hook maps lifecycle phases to user callbacks.
//
// Each phase carries zero or one user hook plus an implicit default that logs
// the phase name and mutates nothing. A hook may opt into notify-context
// mode, in which case mutations it makes to the Context's shared fields and
// mailboxes remain visible after it returns; otherwise it runs on an
// isolation copy.
package hook

import (
	"fmt"

	"github.com/hupe1980/loopkit/core"
)

// Func is a lifecycle hook callback. Its return value is recorded as the
// handle's last result for the phase; a non-nil error is treated as a handler
// failure, reported through the handler-exception meta phase and never
// aborting the surrounding transition.
type Func[T any] func(ctx *core.Context[T]) (any, error)

type entry[T any] struct {
	fn     Func[T]
	notify bool
}

// Registry holds the per-phase hook slots for one handle. It is not safe for
// concurrent registration; the engine rejects registration once a run has
// started, which is the only synchronization the registry needs.
type Registry[T any] struct {
	entries map[core.Phase]entry[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[core.Phase]entry[T])}
}

// Set binds fn to phase, replacing any previous binding. notify opts the hook
// into notify-context mode.
func (r *Registry[T]) Set(phase core.Phase, fn Func[T], notify bool) error {
	if !phase.Valid() {
		return fmt.Errorf("hook: phase %d is not defined", phase)
	}
	r.entries[phase] = entry[T]{fn: fn, notify: notify}
	return nil
}

// Registered reports whether a user hook is bound to phase.
func (r *Registry[T]) Registered(phase core.Phase) bool {
	e, ok := r.entries[phase]
	return ok && e.fn != nil
}

// Notify reports whether the hook bound to phase opted into notify-context
// mode. Phases without a user hook never notify.
func (r *Registry[T]) Notify(phase core.Phase) bool {
	e, ok := r.entries[phase]
	return ok && e.fn != nil && e.notify
}

// Fire invokes the hook bound to phase, or the default logging hook when none
// is registered. The default logs the phase name through the context's logger
// and performs no state mutation.
func (r *Registry[T]) Fire(phase core.Phase, ctx *core.Context[T]) (any, error) {
	e, ok := r.entries[phase]
	if !ok || e.fn == nil {
		ctx.LogDebug("lifecycle phase fired", "phase", phase.String())
		return nil, nil
	}
	return e.fn(ctx)
}
