package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseNames(t *testing.T) {
	assert.Equal(t, "on_start", PhaseStart.String())
	assert.Equal(t, "on_continue", PhaseContinue.String())
	assert.Equal(t, "on_pause", PhasePause.String())
	assert.Equal(t, "on_resume", PhaseResume.String())
	assert.Equal(t, "on_end", PhaseEnd.String())
	assert.Equal(t, "on_stop", PhaseStop.String())
	assert.Equal(t, "on_cancel", PhaseCancel.String())
	assert.Equal(t, "on_close", PhaseClose.String())
	assert.Equal(t, "on_result", PhaseResult.String())
	assert.Equal(t, "on_handler_exception", PhaseHandlerException.String())
	assert.Equal(t, "on_circuit_exception", PhaseCircuitException.String())
}

func TestPhaseValid(t *testing.T) {
	for _, p := range Phases() {
		assert.True(t, p.Valid(), p.String())
	}

	assert.False(t, PhaseNone.Valid())
	assert.False(t, Phase(200).Valid())
}

func TestRunStateTerminal(t *testing.T) {
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateActive.Terminal())
	assert.False(t, StatePaused.Terminal())
	assert.True(t, StateEnded.Terminal())
	assert.True(t, StateCancelled.Terminal())
	assert.True(t, StateErrored.Terminal())
	assert.False(t, StateClosed.Terminal())
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("boom")

	herr := &HandlerError{Phase: PhaseClose, Err: cause}
	assert.ErrorIs(t, herr, cause)
	assert.Contains(t, herr.Error(), "on_close")

	cerr := &CircuitError{Process: "a1", Err: cause}
	assert.ErrorIs(t, cerr, cause)
	assert.Contains(t, cerr.Error(), "a1")
}

func TestRunResultFailed(t *testing.T) {
	assert.False(t, RunResult{}.Failed())
	assert.True(t, RunResult{Err: errors.New("x")}.Failed())
	assert.True(t, RunResult{NestedErr: errors.New("x")}.Failed())
}
