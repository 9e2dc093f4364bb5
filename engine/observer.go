package engine

import (
	"time"

	"github.com/hupe1980/loopkit/core"
)

// Observer receives engine telemetry. Implementations must be safe for
// concurrent use; the engine calls PhaseFired from the run goroutine of every
// handle sharing the observer.
type Observer interface {
	// PhaseFired is called after every lifecycle phase, default hooks included.
	PhaseFired(role string, phase core.Phase)

	// RunFinished is called once per run, after the run reached Closed.
	RunFinished(role string, outcome core.RunState, steps int, dur time.Duration)
}
