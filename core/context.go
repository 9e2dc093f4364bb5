package core

import "github.com/hupe1980/loopkit/logging"

// Context is the per-phase / per-step view handed to routines, sub-routines
// and hooks. It exposes the run's shared field container (of caller-defined
// type T), the current values of the three message mailboxes, and — for
// circuit steps — the immediately preceding step's outcome.
//
// Context instances are transient: they are built fresh for one phase or one
// step and must not be retained beyond the call. The engine never mutates a
// Context after handing it to a callback except to thread the next step's
// predecessor outcome.
type Context[T any] struct {
	fields   *T
	prev     StepOutcome
	phase    Phase
	channels *Channels
	status   Status
	detached bool

	*loggerAdapter
}

// ContextSeed carries the raw parts a ContextBuilder assembles into a
// Context. The engine fills it; custom builders may ignore parts they do not
// care about but must thread Fields and Channels through for isolation and
// message passing to work.
type ContextSeed[T any] struct {
	Phase    Phase
	Prev     StepOutcome
	Fields   *T
	Channels *Channels
	Status   Status
	Logger   logging.Logger
}

// ContextBuilder produces a Context from a seed. Builders are invoked once
// per phase (loop level) or once per step (circuit level).
type ContextBuilder[T any] func(seed ContextSeed[T]) *Context[T]

// LoopBuilderFactory produces the run-level context builder plus the initial
// shared field container. It is invoked exactly once per run and must be pure
// with respect to the engine's state: it may only read the status view.
type LoopBuilderFactory[T any] func(status Status) (ContextBuilder[T], *T)

// CircuitBuilderFactory produces the step-level context builder. It is
// invoked once per circuit compilation and receives the run-level context.
type CircuitBuilderFactory[T any] func(status Status, loop *Context[T]) ContextBuilder[T]

// NewContext assembles a Context directly from a seed. Custom builders
// usually decorate the seed and delegate here.
func NewContext[T any](seed ContextSeed[T]) *Context[T] {
	return &Context[T]{
		fields:        seed.Fields,
		prev:          seed.Prev,
		phase:         seed.Phase,
		channels:      seed.Channels,
		status:        seed.Status,
		loggerAdapter: newLoggerAdapter(seed.Logger),
	}
}

// DefaultLoopBuilderFactory returns the stock run-level factory: a plain
// NewContext builder over a zero-valued field container.
func DefaultLoopBuilderFactory[T any]() LoopBuilderFactory[T] {
	return func(Status) (ContextBuilder[T], *T) {
		return NewContext[T], new(T)
	}
}

// DefaultCircuitBuilderFactory returns the stock step-level factory, which
// reuses the plain builder regardless of the loop context.
func DefaultCircuitBuilderFactory[T any]() CircuitBuilderFactory[T] {
	return func(Status, *Context[T]) ContextBuilder[T] {
		return NewContext[T]
	}
}

// Fields returns the shared field container. Mutations stick for downstream
// steps and hooks only when the executing step or hook opted into
// notify-context mode; otherwise the container is a discarded copy.
func (c *Context[T]) Fields() *T { return c.fields }

// Prev returns the preceding step's outcome. For the first step of the first
// pass it is the zero StepOutcome.
func (c *Context[T]) Prev() StepOutcome { return c.prev }

// Phase returns the lifecycle phase this context was built for, or PhaseNone
// for circuit step contexts.
func (c *Context[T]) Phase() Phase { return c.phase }

// Status returns the restricted read-only view of the handle, letting a
// cooperative routine observe pending pause/stop requests.
func (c *Context[T]) Status() Status { return c.status }

// Environment reads the driver-to-run mailbox.
func (c *Context[T]) Environment() (any, bool) { return c.channels.Environment.Load() }

// SetEnvironment overwrites the driver-to-run mailbox.
func (c *Context[T]) SetEnvironment(v any) { c.channels.Environment.Store(v) }

// EventMessage reads the hook-to-run mailbox.
func (c *Context[T]) EventMessage() (any, bool) { return c.channels.EventMessage.Load() }

// SetEventMessage overwrites the hook-to-run mailbox.
func (c *Context[T]) SetEventMessage(v any) { c.channels.EventMessage.Store(v) }

// RoutineMessage reads the run-to-driver mailbox.
func (c *Context[T]) RoutineMessage() (any, bool) { return c.channels.RoutineMessage.Load() }

// SetRoutineMessage overwrites the run-to-driver mailbox.
func (c *Context[T]) SetRoutineMessage(v any) { c.channels.RoutineMessage.Store(v) }

// Detached reports whether this context is an isolation copy whose mutations
// will be discarded after the step.
func (c *Context[T]) Detached() bool { return c.detached }

// Detach returns an isolation copy: a shallow copy of the field container and
// scratch copies of the three mailboxes. Mutations through the copy are
// invisible to subsequent steps and hooks. Pointer-typed members inside T
// still alias the originals; keeping those isolated is the routine author's
// discipline.
func (c *Context[T]) Detach() *Context[T] {
	cp := *c
	if c.fields != nil {
		fieldsCopy := *c.fields
		cp.fields = &fieldsCopy
	}
	cp.channels = c.channels.Detach()
	cp.detached = true
	return &cp
}

// withStep returns a copy of c carrying a new predecessor outcome. The engine
// uses it to thread step results without rebuilding the whole context.
func (c *Context[T]) withStep(prev StepOutcome) *Context[T] {
	cp := *c
	cp.prev = prev
	return &cp
}

// WithPrev returns a copy of c whose predecessor outcome is prev. Exposed for
// custom circuit builders that assemble step contexts themselves.
func (c *Context[T]) WithPrev(prev StepOutcome) *Context[T] { return c.withStep(prev) }
