// Package engine implements the lifecycle manager for wrapped routines.
//
// A Handle wraps one routine (or a pure action list) behind a control surface
// (pause, resume, stop), a status surface and a hook registry. Start launches
// the run on its own goroutine; all lifecycle hooks fire from that goroutine,
// which serializes them without additional locking. The handle's mutex guards
// only the state word, the pending signal flags and the result record.
//
// The state machine is Idle -> Active <-> Paused -> {Ended|Cancelled|Errored}
// -> Closed. Pending pause, resume and stop requests are resolved at step
// boundaries; a stop request always wins over a pending pause and is never
// overwritten. Failures raised by the routine, a circuit step or a hook never
// escape the engine: they are captured into the RunResult and surfaced
// through the meta phases.
package engine
