// Package loopkit provides a high-level façade over the lifecycle engine.
// Most applications interact with this package by:
//  1. Creating a Handle via New() around a routine (or a pure action list)
//  2. Registering lifecycle hooks and named actions
//  3. Starting the run and driving it through pause/resume/stop while
//     exchanging values over the three message mailboxes
//
// The façade delegates lifecycle management to engine.Handle while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger and a
// metrics observer.
package loopkit

import (
	"context"

	"github.com/hupe1980/loopkit/core"
	"github.com/hupe1980/loopkit/engine"
	"github.com/hupe1980/loopkit/hook"
	"github.com/hupe1980/loopkit/logging"
)

// Re-exported core types, so simple callers only import this package.
type (
	// Context is the per-phase / per-step view handed to callbacks.
	Context[T any] = core.Context[T]

	// Routine is the wrapped operation whose lifecycle the engine manages.
	Routine[T any] = core.Routine[T]

	// SubRoutine is one named step of the circuit.
	SubRoutine[T any] = core.SubRoutine[T]

	// HookFunc is a lifecycle hook callback.
	HookFunc[T any] = hook.Func[T]

	// Handle wraps one routine behind control, status and registration surfaces.
	Handle[T any] = engine.Handle[T]

	// Run is the driver's view of one in-flight or finished run.
	Run = engine.Run

	// RunResult is the sealed outcome of a run.
	RunResult = core.RunResult

	// RunState is the lifecycle state of a run.
	RunState = core.RunState

	// Phase is a lifecycle phase.
	Phase = core.Phase

	// Logger is the minimal logging interface.
	Logger = logging.Logger
)

// Sentinel signals a routine can return.
var (
	// ErrContinue requests another circuit pass.
	ErrContinue = core.ErrContinue

	// ErrCancelled exits the run via the Cancelled outcome.
	ErrCancelled = core.ErrCancelled
)

// New creates a Handle around routine with the given engine options. A nil
// routine is allowed when the handle will carry actions only.
func New[T any](routine Routine[T], optFns ...func(o *engine.Options[T])) *Handle[T] {
	return engine.New(routine, optFns...)
}

// StartAndWait is a synchronous helper: it starts the run and blocks until it
// reaches Closed or ctx expires. The returned error is a Start rejection or
// the ctx error; routine failures are inside the RunResult.
func StartAndWait[T any](ctx context.Context, h *Handle[T]) (RunResult, error) {
	r, err := h.Start(ctx)
	if err != nil {
		return RunResult{}, err
	}

	return r.Wait(ctx)
}
