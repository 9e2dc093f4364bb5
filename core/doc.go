// Package core defines the shared contracts of the loopkit framework: the
// lifecycle phase and run-state enums, the generic Context passed to routines
// and hooks, the three message mailboxes, the Routine/SubRoutine invocation
// contract, and the RunResult captured when a run reaches Closed.
//
// The engine package drives these types; user code mostly consumes them
// through the Context it receives.
package core
