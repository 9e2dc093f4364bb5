package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/loopkit/circuit"
	"github.com/hupe1980/loopkit/core"
	"github.com/hupe1980/loopkit/hook"
	"github.com/hupe1980/loopkit/logging"
)

// ErrAlreadyStarted is returned by registration calls and Start once a run
// has been launched. A Handle manages exactly one run.
var ErrAlreadyStarted = errors.New("engine: run already started")

// ErrNothingToRun is returned by Start when the handle carries neither a
// routine nor any registered action.
var ErrNothingToRun = errors.New("engine: no routine and no actions registered")

// Handle wraps one routine (or action list) behind the control, status and
// registration surfaces. All methods are safe for concurrent use; the
// lifecycle itself executes on a single run goroutine.
type Handle[T any] struct {
	role         string
	logger       logging.Logger
	observer     Observer
	maxContinues int

	routine core.Routine[T]
	seq     *circuit.Sequencer[T]
	hooks   *hook.Registry[T]

	loopFactory    core.LoopBuilderFactory[T]
	circuitFactory core.CircuitBuilderFactory[T]

	mu            sync.Mutex
	runID         string
	started       bool
	state         core.RunState
	pausePending  bool
	pausing       bool
	resumePending bool
	stopRequested bool
	stopFired     bool
	result        core.RunResult
	lastOutcome   core.StepOutcome

	// rich is set when the supplied logger is a *logging.RunLogger, enabling
	// the phase and run-completion helpers.
	rich *logging.RunLogger

	// wake nudges a paused run goroutine; capacity one so signal methods
	// never block.
	wake chan struct{}

	// populated at Start, read only from the run goroutine afterwards
	fields    *T
	channels  *core.Channels
	loopBuild core.ContextBuilder[T]
}

// New creates a Handle around routine. A nil routine is allowed when the
// handle will carry actions only.
func New[T any](routine core.Routine[T], optFns ...func(o *Options[T])) *Handle[T] {
	opts := Options[T]{
		Role:                  "routine",
		Logger:                logging.NewDefaultSlogLogger(),
		LoopBuilderFactory:    core.DefaultLoopBuilderFactory[T](),
		CircuitBuilderFactory: core.DefaultCircuitBuilderFactory[T](),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.LoopBuilderFactory == nil {
		opts.LoopBuilderFactory = core.DefaultLoopBuilderFactory[T]()
	}

	if opts.CircuitBuilderFactory == nil {
		opts.CircuitBuilderFactory = core.DefaultCircuitBuilderFactory[T]()
	}

	return &Handle[T]{
		role:           opts.Role,
		logger:         opts.Logger,
		observer:       opts.Observer,
		maxContinues:   opts.MaxContinues,
		routine:        routine,
		seq:            circuit.NewSequencer[T](),
		hooks:          hook.NewRegistry[T](),
		loopFactory:    opts.LoopBuilderFactory,
		circuitFactory: opts.CircuitBuilderFactory,
		state:          core.StateIdle,
		wake:           make(chan struct{}, 1),
		channels:       core.NewChannels(),
	}
}

// AppendAction registers a named sub-operation to run, in append order,
// before the routine on every circuit pass. Registration is rejected once
// the run has started.
func (h *Handle[T]) AppendAction(name string, op core.SubRoutine[T], notify bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return ErrAlreadyStarted
	}

	return h.seq.Append(name, op, notify)
}

// Actions returns the number of registered actions.
func (h *Handle[T]) Actions() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.seq.Len()
}

// SetHook binds fn to a lifecycle phase, replacing any previous binding.
// notify opts the hook into notify-context mode. Registration is rejected
// once the run has started.
func (h *Handle[T]) SetHook(phase core.Phase, fn hook.Func[T], notify bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return ErrAlreadyStarted
	}

	return h.hooks.Set(phase, fn, notify)
}

// SetOnStart binds the on_start hook.
func (h *Handle[T]) SetOnStart(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseStart, fn, notify)
}

// SetOnContinue binds the on_continue hook.
func (h *Handle[T]) SetOnContinue(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseContinue, fn, notify)
}

// SetOnPause binds the on_pause hook.
func (h *Handle[T]) SetOnPause(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhasePause, fn, notify)
}

// SetOnResume binds the on_resume hook.
func (h *Handle[T]) SetOnResume(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseResume, fn, notify)
}

// SetOnEnd binds the on_end hook.
func (h *Handle[T]) SetOnEnd(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseEnd, fn, notify)
}

// SetOnStop binds the on_stop hook.
func (h *Handle[T]) SetOnStop(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseStop, fn, notify)
}

// SetOnCancel binds the on_cancel hook.
func (h *Handle[T]) SetOnCancel(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseCancel, fn, notify)
}

// SetOnClose binds the on_close hook.
func (h *Handle[T]) SetOnClose(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseClose, fn, notify)
}

// SetOnResult binds the on_result hook.
func (h *Handle[T]) SetOnResult(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseResult, fn, notify)
}

// SetOnHandlerException binds the on_handler_exception meta hook.
func (h *Handle[T]) SetOnHandlerException(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseHandlerException, fn, notify)
}

// SetOnCircuitException binds the on_circuit_exception meta hook.
func (h *Handle[T]) SetOnCircuitException(fn hook.Func[T], notify bool) error {
	return h.SetHook(core.PhaseCircuitException, fn, notify)
}

// Pause records a pause request, honored at the next step boundary. It
// reports false when the request was dropped: a stop is already recorded, the
// run is already paused or pausing, or the run is over.
func (h *Handle[T]) Pause() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopRequested || h.state.Terminal() || h.state == core.StateClosed {
		return false
	}

	if h.state == core.StatePaused || h.pausePending || h.pausing {
		return false
	}

	h.pausePending = true

	return true
}

// Resume records a resume request. It reports false when there is nothing to
// resume: no pause is in effect or pending, a resume is already recorded, a
// stop is recorded, or the run is over.
func (h *Handle[T]) Resume() bool {
	h.mu.Lock()

	if h.stopRequested || h.state.Terminal() || h.state == core.StateClosed {
		h.mu.Unlock()
		return false
	}

	if h.state != core.StatePaused && !h.pausePending && !h.pausing {
		h.mu.Unlock()
		return false
	}

	if h.resumePending {
		h.mu.Unlock()
		return false
	}

	h.resumePending = true
	h.mu.Unlock()

	h.signalWake()

	return true
}

// Stop records a stop request. A stop supersedes any pending pause or resume
// and is never overwritten; repeated calls report false. The run exits via
// the Cancelled outcome at the next step boundary (immediately when paused).
func (h *Handle[T]) Stop() bool {
	h.mu.Lock()

	if h.state.Terminal() || h.state == core.StateClosed {
		h.mu.Unlock()
		return false
	}

	if h.stopRequested {
		h.mu.Unlock()
		return false
	}

	h.stopRequested = true
	h.pausePending = false
	h.resumePending = false
	h.mu.Unlock()

	h.signalWake()

	return true
}

func (h *Handle[T]) signalWake() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Start launches the run on its own goroutine and returns immediately. The
// ctx cancels the run (Cancelled outcome), it does not bound Start itself.
//
// An optional pre-compiled circuit override runs in place of the registered
// actions and routine; at most one may be given.
func (h *Handle[T]) Start(ctx context.Context, override ...*circuit.Circuit[T]) (*Run, error) {
	var oc *circuit.Circuit[T]
	if len(override) > 0 {
		oc = override[0]
	}

	h.mu.Lock()

	if h.started {
		h.mu.Unlock()
		return nil, ErrAlreadyStarted
	}

	if oc == nil && h.routine == nil && h.seq.Len() == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRun
	}

	if oc != nil && oc.Steps() == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRun
	}

	h.started = true
	h.runID = core.NewID()
	h.mu.Unlock()

	if rl, ok := h.logger.(*logging.RunLogger); ok {
		enriched := rl.WithRun(h.role, h.runID).WithComponent("engine")
		h.logger = enriched
		h.rich = enriched
	}

	build, fields := h.loopFactory(h)
	if build == nil {
		build = core.NewContext[T]
	}

	if fields == nil {
		fields = new(T)
	}

	h.loopBuild = build
	h.fields = fields

	c := oc
	if c == nil {
		loopCtx := build(core.ContextSeed[T]{
			Fields:   fields,
			Channels: h.channels,
			Status:   h,
			Logger:   h.logger,
		})

		c = h.seq.Compile(h.routine, h.circuitFactory(h, loopCtx))
	}

	r := &Run{id: h.runID, done: make(chan struct{}), result: h.Result}

	go h.execute(ctx, c, r)

	return r, nil
}

func (h *Handle[T]) execute(ctx context.Context, c *circuit.Circuit[T], r *Run) {
	start := time.Now()
	defer close(r.done)

	h.firePhase(core.PhaseStart, core.StepOutcome{})
	h.setState(core.StateActive)

	h.logger.Debug("run started", "run_id", r.id, "role", h.role, "steps", c.Steps())

	var (
		prev      core.StepOutcome
		runErr    error
		steps     int
		continues int
	)

	checkpoint := func(cctx context.Context) error { return h.resolveSignals(cctx) }

	for {
		out, n, err := c.Pass(ctx, circuit.Env[T]{
			Fields:     h.fields,
			Channels:   h.channels,
			Status:     h,
			Logger:     h.logger,
			Prev:       prev,
			Checkpoint: checkpoint,
		})

		steps += n

		if out.Process != "" {
			prev = out
			h.recordOutcome(out)
		}

		if err == nil {
			break
		}

		if errors.Is(err, core.ErrContinue) {
			continues++
			if h.maxContinues > 0 && continues > h.maxContinues {
				runErr = &core.CircuitError{
					Process: out.Process,
					Err:     fmt.Errorf("continue limit %d exceeded", h.maxContinues),
				}
				break
			}

			h.firePhase(core.PhaseContinue, prev)

			continue
		}

		runErr = err

		break
	}

	outcome := core.StateEnded
	switch {
	case runErr == nil:
	case core.IsCancellation(runErr):
		outcome = core.StateCancelled
	default:
		outcome = core.StateErrored
	}

	h.mu.Lock()
	h.state = outcome
	switch outcome {
	case core.StateEnded:
		h.result.Value = prev.Result
	case core.StateErrored:
		if h.result.Err == nil {
			h.result.Err = runErr
		} else if h.result.NestedErr == nil {
			h.result.NestedErr = runErr
		}
	}
	h.mu.Unlock()

	switch outcome {
	case core.StateEnded:
		h.firePhase(core.PhaseEnd, prev)
	case core.StateCancelled:
		h.firePhase(core.PhaseCancel, prev)
	case core.StateErrored:
		h.firePhase(core.PhaseCircuitException, core.StepOutcome{Process: failingProcess(runErr), Err: runErr})
	}

	h.firePhase(core.PhaseClose, prev)
	h.setState(core.StateClosed)
	h.firePhase(core.PhaseResult, prev)

	dur := time.Since(start)

	switch {
	case h.rich != nil && outcome == core.StateErrored:
		h.rich.ErrorWithStack(runErr, "run failed", "outcome", outcome.String(), "steps", steps, "duration", dur)
	case h.rich != nil:
		h.rich.LogRunFinished(outcome.String(), steps, dur, nil)
	case outcome == core.StateErrored:
		h.logger.Error("run failed", "run_id", r.id, "role", h.role, "outcome", outcome.String(), "steps", steps, "duration", dur, "error", runErr.Error())
	default:
		h.logger.Info("run finished", "run_id", r.id, "role", h.role, "outcome", outcome.String(), "steps", steps, "duration", dur)
	}

	if h.observer != nil {
		h.observer.RunFinished(h.role, outcome, steps, dur)
	}
}

// resolveSignals honors pending pause/resume/stop requests at a step
// boundary. Stop wins over pause; a honored pause blocks here until a resume
// or stop arrives.
func (h *Handle[T]) resolveSignals(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		h.mu.Lock()

		if h.stopRequested {
			fired := h.stopFired
			h.stopFired = true
			h.mu.Unlock()

			if !fired {
				h.firePhase(core.PhaseStop, h.snapshotOutcome())
			}

			return core.ErrCancelled
		}

		if h.pausePending {
			h.pausePending = false
			// The on_pause hook completes before the state is reported as
			// Paused; pausing keeps Resume() open in the meantime.
			h.pausing = true
			h.mu.Unlock()

			h.firePhase(core.PhasePause, h.snapshotOutcome())

			h.mu.Lock()
			h.pausing = false
			h.state = core.StatePaused
			h.mu.Unlock()

			if err := h.blockWhilePaused(ctx); err != nil {
				return err
			}

			continue
		}

		h.mu.Unlock()

		return nil
	}
}

func (h *Handle[T]) blockWhilePaused(ctx context.Context) error {
	for {
		h.mu.Lock()

		if h.stopRequested {
			fired := h.stopFired
			h.stopFired = true
			h.mu.Unlock()

			if !fired {
				h.firePhase(core.PhaseStop, h.snapshotOutcome())
			}

			return core.ErrCancelled
		}

		if h.resumePending {
			h.resumePending = false
			h.state = core.StateActive
			h.mu.Unlock()

			h.firePhase(core.PhaseResume, h.snapshotOutcome())

			return nil
		}

		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.wake:
		}
	}
}

// firePhase runs the hook bound to phase (or the logging default) on a fresh
// phase context. Hook failures are recorded and reported through the
// handler-exception meta phase; they never abort the transition in progress.
func (h *Handle[T]) firePhase(phase core.Phase, prev core.StepOutcome) {
	pctx := h.loopBuild(core.ContextSeed[T]{
		Phase:    phase,
		Prev:     prev,
		Fields:   h.fields,
		Channels: h.channels,
		Status:   h,
		Logger:   h.logger,
	})

	if !h.hooks.Notify(phase) {
		pctx = pctx.Detach()
	}

	res, err := h.hooks.Fire(phase, pctx)

	h.mu.Lock()
	h.result.LastEvent = phase
	if h.hooks.Registered(phase) && res != nil {
		h.result.LastResult = res
	}
	h.mu.Unlock()

	if h.rich != nil {
		h.rich.LogPhase(phase.String(), h.State().String())
	}

	if h.observer != nil {
		h.observer.PhaseFired(h.role, phase)
	}

	if err != nil {
		herr := &core.HandlerError{Phase: phase, Err: err}

		h.mu.Lock()
		// The result is sealed by the time on_result fires, so its hook's
		// failure only ever lands in the nested slot.
		if h.result.Err == nil && phase != core.PhaseResult {
			h.result.Err = herr
		} else if h.result.NestedErr == nil {
			h.result.NestedErr = herr
		}
		h.mu.Unlock()

		h.logger.Warn("lifecycle hook failed", "phase", phase.String(), "error", err.Error())

		if phase != core.PhaseHandlerException {
			h.firePhase(core.PhaseHandlerException, core.StepOutcome{Process: "handler:" + phase.String(), Err: herr})
		}
	}
}

func (h *Handle[T]) recordOutcome(out core.StepOutcome) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastOutcome = out
	if out.Result != nil {
		h.result.LastResult = out.Result
	}
}

func (h *Handle[T]) snapshotOutcome() core.StepOutcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.lastOutcome
}

func (h *Handle[T]) setState(s core.RunState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = s
}

func failingProcess(err error) string {
	var ce *core.CircuitError
	if errors.As(err, &ce) {
		return ce.Process
	}

	return ""
}

// RunID returns the identifier assigned at Start, or "" before it.
func (h *Handle[T]) RunID() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.runID
}

// Role returns the handle's role label.
func (h *Handle[T]) Role() string { return h.role }

// State returns the current run state.
func (h *Handle[T]) State() core.RunState {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// IsRunning reports whether a run has started and not yet reached Closed.
func (h *Handle[T]) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.started && h.state != core.StateClosed
}

// IsActive reports whether the run is executing or paused.
func (h *Handle[T]) IsActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state == core.StateActive || h.state == core.StatePaused
}

// IsClosed reports whether the run reached Closed.
func (h *Handle[T]) IsClosed() bool {
	return h.State() == core.StateClosed
}

// PausePending reports whether a pause request is waiting to be honored.
func (h *Handle[T]) PausePending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pausePending
}

// ResumePending reports whether a resume request is waiting to be honored.
func (h *Handle[T]) ResumePending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.resumePending
}

// StopRequested reports whether a stop request has been recorded.
func (h *Handle[T]) StopRequested() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stopRequested
}

// Result returns a snapshot of the run result. After Closed the result is
// sealed and never changes.
func (h *Handle[T]) Result() core.RunResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.result
}

// Exception returns the recorded failure, if any.
func (h *Handle[T]) Exception() error { return h.Result().Err }

// NestedException returns a failure recorded while another failure was
// already being handled, if any.
func (h *Handle[T]) NestedException() error { return h.Result().NestedErr }

// LastEvent returns the last lifecycle phase that fired.
func (h *Handle[T]) LastEvent() core.Phase { return h.Result().LastEvent }

// LastResult returns the outcome value of the last completed step or hook.
func (h *Handle[T]) LastResult() any { return h.Result().LastResult }

// SetEnvironment overwrites the driver-to-run mailbox.
func (h *Handle[T]) SetEnvironment(v any) { h.channels.Environment.Store(v) }

// Environment reads the driver-to-run mailbox.
func (h *Handle[T]) Environment() (any, bool) { return h.channels.Environment.Load() }

// EventMessage reads the hook-to-run mailbox.
func (h *Handle[T]) EventMessage() (any, bool) { return h.channels.EventMessage.Load() }

// RoutineMessage reads the run-to-driver mailbox.
func (h *Handle[T]) RoutineMessage() (any, bool) { return h.channels.RoutineMessage.Load() }
