package core

import (
	"context"
	"errors"
)

// ErrContinue is returned by a routine (or circuit step) to request that the
// engine run the entire circuit again before declaring normal termination.
// The previous pass's outcome is carried into the first step of the next pass.
var ErrContinue = errors.New("loopkit: continue requested")

// ErrCancelled is returned by a routine that exits via an explicit
// cancellation decision rather than a raised failure. It drives the
// Cancelled transition, exactly like an honored stop request or a
// context.Canceled bubbling out of the routine.
var ErrCancelled = errors.New("loopkit: run cancelled")

// Routine is the primary wrapped operation whose lifecycle the engine
// manages. It is invoked with exactly one argument, the run Context, and may
// run to completion (nil error), request another circuit pass (ErrContinue),
// exit via cancellation (ErrCancelled / context.Canceled), or fail with any
// other error. Failures never propagate past the engine boundary; they are
// captured into the RunResult.
type Routine[T any] func(ctx *Context[T]) (any, error)

// SubRoutine has the same invocation contract as Routine but is invoked by
// the engine as one named step of the compiled circuit.
type SubRoutine[T any] func(ctx *Context[T]) (any, error)

// IsCancellation reports whether err represents a cancellation outcome
// rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
