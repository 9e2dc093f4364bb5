package core

import "fmt"

// HandlerError marks a failure raised by a lifecycle hook itself. It is
// caught by the engine, reported through the handler-exception meta phase and
// never aborts the transition the hook was observing.
type HandlerError struct {
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %v", e.Phase, e.Err)
}

// Unwrap returns the original hook failure.
func (e *HandlerError) Unwrap() error { return e.Err }

// CircuitError marks an unhandled failure raised by the routine or a circuit
// step. It drives the Errored transition.
type CircuitError struct {
	Process string // name of the failing step, or "routine"
	Err     error
}

// Error implements the error interface.
func (e *CircuitError) Error() string {
	return fmt.Sprintf("circuit step %q: %v", e.Process, e.Err)
}

// Unwrap returns the original step failure.
func (e *CircuitError) Unwrap() error { return e.Err }
