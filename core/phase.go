package core

// Phase identifies a lifecycle point where a hook can be executed.
//
// The phase set is fixed and closed: hooks are registered against one of the
// enumerated phases below, never against open-ended strings. Each phase fires
// at exactly the transition its name describes, and the terminal ordering
// (End|Cancel|CircuitException) -> Close -> Result is invariant.
type Phase uint8

const (
	// PhaseNone is the zero value; no phase has fired yet.
	PhaseNone Phase = iota

	// PhaseStart fires after the Idle -> Active transition, before the
	// circuit begins.
	PhaseStart

	// PhaseContinue fires each time the routine requests another pass of
	// the circuit before declaring normal termination.
	PhaseContinue

	// PhasePause fires when a pending pause request is consumed, before the
	// state is reported as Paused.
	PhasePause

	// PhaseResume fires when a pending resume request is consumed, after the
	// state returns to Active.
	PhaseResume

	// PhaseEnd fires on normal completion, before Close.
	PhaseEnd

	// PhaseStop fires when a stop request is observed at a step boundary,
	// acknowledging the request before cancellation unwinds.
	PhaseStop

	// PhaseCancel fires at the Cancelled transition.
	PhaseCancel

	// PhaseClose fires unconditionally after exactly one of End, Cancel or
	// CircuitException, including when a prior hook failed.
	PhaseClose

	// PhaseResult fires last, after Close, with the sealed run result
	// visible through the status view.
	PhaseResult

	// PhaseHandlerException is the always-registered meta phase reporting a
	// failure raised by another hook.
	PhaseHandlerException

	// PhaseCircuitException fires when the routine or a circuit step raises
	// an unhandled failure, driving the Errored transition.
	PhaseCircuitException
)

var phaseNames = map[Phase]string{
	PhaseNone:             "none",
	PhaseStart:            "on_start",
	PhaseContinue:         "on_continue",
	PhasePause:            "on_pause",
	PhaseResume:           "on_resume",
	PhaseEnd:              "on_end",
	PhaseStop:             "on_stop",
	PhaseCancel:           "on_cancel",
	PhaseClose:            "on_close",
	PhaseResult:           "on_result",
	PhaseHandlerException: "on_handler_exception",
	PhaseCircuitException: "on_circuit_exception",
}

// String returns the conventional handler name of the phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether p is one of the defined phases (PhaseNone excluded).
func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok && p != PhaseNone
}

// Phases returns all registrable phases in firing-precedence order.
func Phases() []Phase {
	return []Phase{
		PhaseStart, PhaseContinue, PhasePause, PhaseResume,
		PhaseEnd, PhaseStop, PhaseCancel, PhaseClose, PhaseResult,
		PhaseHandlerException, PhaseCircuitException,
	}
}
