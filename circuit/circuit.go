// Package circuit turns an ordered list of named sub-operations, plus an
// optional routine, into one executable unit.
//
// Actions are appended before a run starts and are immutable afterwards. At
// run start the sequencer compiles them into a Circuit whose Pass method
// invokes each operation in append order, threading each step's outcome into
// the next step's Context and consulting the engine's pending signals at
// every step boundary.
package circuit

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/loopkit/core"
	"github.com/hupe1980/loopkit/logging"
)

// ProcessRoutine is the process name recorded for the wrapped routine's own
// outcome, distinguishing it from named actions.
const ProcessRoutine = "routine"

// ErrDuplicateAction is returned when an action name is appended twice.
var ErrDuplicateAction = errors.New("circuit: duplicate action name")

// Entry is one registered sub-operation.
type Entry[T any] struct {
	// Name uniquely identifies the action within the run.
	Name string
	// Op is the sub-operation, sharing the Routine invocation contract.
	Op core.SubRoutine[T]
	// Notify opts the step into notify-context mode: its shared-field and
	// mailbox writes stay visible to later steps and hooks. Steps without it
	// run on an isolation copy whose mutations are discarded.
	Notify bool
}

// Sequencer accumulates actions in insertion order. It performs no
// synchronization of its own; the engine rejects appends once started.
type Sequencer[T any] struct {
	entries []Entry[T]
	names   map[string]struct{}
}

// NewSequencer creates an empty sequencer.
func NewSequencer[T any]() *Sequencer[T] {
	return &Sequencer[T]{names: make(map[string]struct{})}
}

// Append registers a named sub-operation. Names must be non-empty and unique
// within the run.
func (s *Sequencer[T]) Append(name string, op core.SubRoutine[T], notify bool) error {
	if name == "" {
		return errors.New("circuit: action name must not be empty")
	}
	if op == nil {
		return fmt.Errorf("circuit: action %q has no operation", name)
	}
	if _, ok := s.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAction, name)
	}
	s.names[name] = struct{}{}
	s.entries = append(s.entries, Entry[T]{Name: name, Op: op, Notify: notify})
	return nil
}

// Len returns the number of registered actions.
func (s *Sequencer[T]) Len() int { return len(s.entries) }

// Entries returns a copy of the registered actions in append order.
func (s *Sequencer[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(s.entries))
	copy(out, s.entries)
	return out
}

// Compile freezes the current action list together with the routine (which
// may be nil when the handle only carries actions) into a Circuit using the
// given step-level context builder.
func (s *Sequencer[T]) Compile(routine core.Routine[T], build core.ContextBuilder[T]) *Circuit[T] {
	if build == nil {
		build = core.NewContext[T]
	}
	return &Circuit[T]{steps: s.Entries(), routine: routine, build: build}
}

// Circuit is the compiled, ordered execution of all registered steps and, in
// execution mode, the routine, for one run.
type Circuit[T any] struct {
	steps   []Entry[T]
	routine core.Routine[T]
	build   core.ContextBuilder[T]
}

// Steps returns the number of compiled steps, the routine included.
func (c *Circuit[T]) Steps() int {
	n := len(c.steps)
	if c.routine != nil {
		n++
	}
	return n
}

// Env carries the run-scoped collaborators one pass executes against.
type Env[T any] struct {
	Fields   *T
	Channels *core.Channels
	Status   core.Status
	Logger   logging.Logger
	// Prev is the outcome carried into the first step: zero on the first
	// pass, the previous pass's final outcome after a continue.
	Prev core.StepOutcome
	// Checkpoint is consulted before every step; a non-nil return aborts the
	// pass with that error. The engine uses it to resolve pending
	// pause/resume/stop requests at step boundaries.
	Checkpoint func(ctx context.Context) error
}

// Pass executes one full pass of the circuit: every action in append order,
// then the routine. It returns the final outcome, the number of steps that
// completed, and the classified error:
//
//   - nil on normal completion
//   - core.ErrContinue when a step requested another pass
//   - a cancellation error when a step exited via cancellation or a pending
//     stop was observed at a boundary
//   - *core.CircuitError for any other step failure
func (c *Circuit[T]) Pass(ctx context.Context, env Env[T]) (core.StepOutcome, int, error) {
	prev := env.Prev
	steps := 0

	runStep := func(name string, op core.SubRoutine[T], notify bool) error {
		if env.Checkpoint != nil {
			if err := env.Checkpoint(ctx); err != nil {
				return err
			}
		}
		sctx := c.build(core.ContextSeed[T]{
			Prev:     prev,
			Fields:   env.Fields,
			Channels: env.Channels,
			Status:   env.Status,
			Logger:   env.Logger,
		})
		if !notify {
			sctx = sctx.Detach()
		}
		res, err := op(sctx)
		if err != nil {
			if errors.Is(err, core.ErrContinue) {
				prev = core.StepOutcome{Process: name, Result: res, Err: err}
				return core.ErrContinue
			}
			if core.IsCancellation(err) {
				return err
			}
			return &core.CircuitError{Process: name, Err: err}
		}
		prev = core.StepOutcome{Process: name, Result: res}
		steps++
		return nil
	}

	for _, step := range c.steps {
		if err := runStep(step.Name, step.Op, step.Notify); err != nil {
			return prev, steps, err
		}
	}

	if c.routine != nil {
		// The routine always runs in notify-context mode: it owns the run.
		if err := runStep(ProcessRoutine, core.SubRoutine[T](c.routine), true); err != nil {
			return prev, steps, err
		}
	}

	return prev, steps, nil
}
