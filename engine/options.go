package engine

import (
	"github.com/hupe1980/loopkit/core"
	"github.com/hupe1980/loopkit/logging"
)

// Options configures a Handle.
type Options[T any] struct {
	// Role is a human-readable label attached to logs and metrics. It does
	// not have to be unique.
	Role string

	// Logger receives the engine's structured log output.
	Logger logging.Logger

	// Observer receives phase and run-completion notifications, for metrics.
	Observer Observer

	// MaxContinues caps how many continue requests a single run may honor.
	// Zero means unlimited.
	MaxContinues int

	// LoopBuilderFactory produces the run-level context builder and the
	// shared field container. Defaults to a plain builder over a zero value.
	LoopBuilderFactory core.LoopBuilderFactory[T]

	// CircuitBuilderFactory produces the step-level context builder.
	CircuitBuilderFactory core.CircuitBuilderFactory[T]
}

// WithRole sets the handle's role label.
func WithRole[T any](role string) func(o *Options[T]) {
	return func(o *Options[T]) { o.Role = role }
}

// WithLogger sets the logger.
func WithLogger[T any](l logging.Logger) func(o *Options[T]) {
	return func(o *Options[T]) { o.Logger = l }
}

// WithObserver sets the metrics observer.
func WithObserver[T any](obs Observer) func(o *Options[T]) {
	return func(o *Options[T]) { o.Observer = obs }
}

// WithMaxContinues caps continue requests per run.
func WithMaxContinues[T any](n int) func(o *Options[T]) {
	return func(o *Options[T]) { o.MaxContinues = n }
}

// WithLoopBuilderFactory overrides the run-level context builder factory.
func WithLoopBuilderFactory[T any](f core.LoopBuilderFactory[T]) func(o *Options[T]) {
	return func(o *Options[T]) { o.LoopBuilderFactory = f }
}

// WithCircuitBuilderFactory overrides the step-level context builder factory.
func WithCircuitBuilderFactory[T any](f core.CircuitBuilderFactory[T]) func(o *Options[T]) {
	return func(o *Options[T]) { o.CircuitBuilderFactory = f }
}
