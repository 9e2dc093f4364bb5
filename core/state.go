package core

// RunState is the lifecycle state of a managed run.
//
// The machine is Idle -> Active <-> Paused -> {Ended|Cancelled|Errored} ->
// Closed. Exactly one of the three terminal outcomes is reached from
// Active/Paused, and Closed always follows it, even when a hook or the
// circuit raised an unhandled failure.
type RunState uint8

const (
	// StateIdle is the initial state; registration calls are only valid here.
	StateIdle RunState = iota
	// StateActive means the run loop is executing (or between steps).
	StateActive
	// StatePaused means a pause request has been honored and the engine is
	// blocked at a step boundary.
	StatePaused
	// StateEnded records normal completion.
	StateEnded
	// StateCancelled records a honored stop request or cancellation.
	StateCancelled
	// StateErrored records an unhandled circuit failure.
	StateErrored
	// StateClosed is terminal; it always follows Ended, Cancelled or Errored.
	StateClosed
)

// String returns a lower-case state name.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateCancelled:
		return "cancelled"
	case StateErrored:
		return "errored"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of the three terminal outcomes.
func (s RunState) Terminal() bool {
	return s == StateEnded || s == StateCancelled || s == StateErrored
}

// Status is the restricted, read-only view of a handle that context builder
// factories and Contexts receive. It exposes enough for a routine to
// cooperate with pending signals without reaching the control surface.
type Status interface {
	// RunID returns the unique identifier assigned when the run started,
	// or "" before Start.
	RunID() string

	// Role returns the label the handle was constructed with.
	Role() string

	// State returns the current run state.
	State() RunState

	// PausePending reports whether a pause request is waiting to be consumed.
	PausePending() bool

	// ResumePending reports whether a resume request is waiting to be consumed.
	ResumePending() bool

	// StopRequested reports whether a stop request has been recorded.
	StopRequested() bool

	// Result returns the sealed run result. Before Closed all fields are
	// zero except those already recorded.
	Result() RunResult
}
