package core

// StepOutcome records the result of the immediately preceding step (or of
// the previous circuit pass when the routine requested a continue). It is
// threaded by the engine into the next step's Context.
type StepOutcome struct {
	// Process identifies the step that produced this outcome; "routine" for
	// the wrapped routine itself, "" before anything ran.
	Process string
	// Result is the value the step returned.
	Result any
	// Err is the failure the step raised, if any.
	Err error
}

// RunResult is the sealed outcome of a run. It is set exactly once, becomes
// immutable when the run reaches Closed, and is only readable through the
// handle's status surface — awaiting a run never raises on the routine's
// behalf.
type RunResult struct {
	// Value is the routine's final return value, if the run ended normally.
	Value any
	// Err is the recorded failure: a *CircuitError for routine/step
	// failures, a *HandlerError when a hook raised first.
	Err error
	// NestedErr captures a failure that occurred while another failure was
	// already being handled (for example a close hook raising after the
	// circuit errored). It never suppresses Err.
	NestedErr error
	// LastEvent is the last lifecycle phase that fired.
	LastEvent Phase
	// LastResult is the outcome value of the last completed step.
	LastResult any
}

// Failed reports whether any failure was recorded.
func (r RunResult) Failed() bool { return r.Err != nil || r.NestedErr != nil }
