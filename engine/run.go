package engine

import (
	"context"

	"github.com/hupe1980/loopkit/core"
)

// Run is the driver's view of one in-flight (or finished) run. Waiting on a
// Run never raises on the routine's behalf: failures are read from the sealed
// RunResult.
type Run struct {
	id     string
	done   chan struct{}
	result func() core.RunResult
}

// ID returns the run's unique identifier.
func (r *Run) ID() string { return r.id }

// Done returns a channel closed when the run reaches Closed.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run reaches Closed or ctx expires. The returned error
// is only ever the ctx error; routine failures are inside the RunResult.
func (r *Run) Wait(ctx context.Context) (core.RunResult, error) {
	select {
	case <-r.done:
		return r.result(), nil
	case <-ctx.Done():
		return r.result(), ctx.Err()
	}
}

// Result returns the current result snapshot. Before Closed it holds only the
// fields recorded so far.
func (r *Run) Result() core.RunResult { return r.result() }
