package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/registry"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Stats are cumulative counters since construction.
type Stats struct {
	Ticks           uint64
	Transitions     uint64
	Faults          uint64
	DeadlineMisses  uint64
	UnknownRequests uint64
}

// Orchestrator is the mode state machine. It owns the active mode, the motion
// feedback and the fault latch, and drives the lifecycle of every mode.
//
// Start, Tick, Release and Stop must be called from a single goroutine (the
// control loop). Snapshot and Modes are safe from anywhere.
type Orchestrator struct {
	registry *registry.Registry
	ectx     *domain.ExecutionContext

	startMode    domain.ModeName
	safeMode     domain.ModeName
	robot        domain.RobotType
	period       time.Duration
	clock        Clock
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	diagInterval time.Duration
	diagLimiter  *rate.Limiter
	runID        string

	active   domain.ControlMode
	feedback domain.MotionFeedback
	tick     uint64

	// latched holds the robot in the safe mode until Release.
	latched       bool
	latchNoticed  bool
	deadlineFault bool

	// safeFaulted is set while a fault condition persists in the safe mode.
	safeFaulted bool

	stats    Stats
	snapshot atomic.Pointer[domain.Snapshot]
}

// NewOrchestrator creates an orchestrator over a registry and a shared context.
// The context must be non-nil; it is never replaced afterwards.
func NewOrchestrator(reg *registry.Registry, ectx *domain.ExecutionContext, opts ...Option) (*Orchestrator, error) {
	if reg == nil {
		return nil, fmt.Errorf("orchestrator: nil registry")
	}
	if ectx == nil {
		return nil, fmt.Errorf("orchestrator: %w: execution context", domain.ErrMissingCollaborator)
	}

	o := &Orchestrator{
		registry:     reg,
		ectx:         ectx,
		startMode:    domain.ModeStandby,
		safeMode:     domain.ModeSafeStop,
		robot:        domain.RobotLite3,
		clock:        systemClock{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		diagInterval: time.Second,
		runID:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.startMode == o.safeMode {
		return nil, fmt.Errorf("orchestrator: start mode %q must differ from safe mode", o.startMode)
	}
	if o.period < 0 {
		return nil, fmt.Errorf("orchestrator: negative period %v", o.period)
	}
	o.diagLimiter = rate.NewLimiter(rate.Every(o.diagInterval), 1)
	o.logger = o.logger.With("run_id", o.runID)
	o.snapshot.Store(&domain.Snapshot{})

	return o, nil
}

// Start validates the mode graph, activates the start mode and calls its
// OnEnter. The safe mode is built eagerly so the fault path can never fail.
func (o *Orchestrator) Start() error {
	if o.active != nil {
		return domain.ErrAlreadyStarted
	}
	if err := o.registry.Validate(o.startMode, o.safeMode); err != nil {
		return fmt.Errorf("invalid mode graph: %w", err)
	}
	if _, err := o.registry.Resolve(o.safeMode, o.robot, o.ectx); err != nil {
		return fmt.Errorf("build safe mode: %w", err)
	}
	start, err := o.registry.Resolve(o.startMode, o.robot, o.ectx)
	if err != nil {
		return fmt.Errorf("build start mode: %w", err)
	}

	o.feedback.Reset()
	o.tick = 0
	o.latched = false
	o.latchNoticed = false
	o.deadlineFault = false
	o.safeFaulted = false

	start.OnEnter()
	o.active = start
	o.emitModeEnter(start.Name(), domain.ReasonStartup)
	o.publish(o.clock.Now())

	o.logger.Info("orchestrator started",
		"mode", start.Name(),
		"safe_mode", o.safeMode,
		"robot", o.robot,
		"period", o.period,
	)
	return nil
}

// Tick runs one control cycle and returns the mode active at its end.
//
// Order per tick: Run, LoseControlJudge, NextModeName, resolve, then OnExit of
// the outgoing mode and OnEnter of the incoming one. A fault (or a deadline
// miss on the previous tick) overrides the requested mode with the safe mode.
func (o *Orchestrator) Tick() (domain.ModeName, error) {
	if o.active == nil {
		return "", domain.ErrNotStarted
	}
	began := o.clock.Now()
	o.tick++
	o.stats.Ticks++

	// 1. Active mode computes and reports
	current := o.active
	current.Run(&o.feedback)
	fault := current.LoseControlJudge()
	requested := current.NextModeName()

	// 2. Decide and switch
	next, reason := o.resolveNext(current.Name(), fault, requested)
	switch {
	case next != current.Name():
		o.switchTo(next, reason, requested)
	case reason.IsFault():
		o.holdSafe(reason, requested)
	default:
		o.safeFaulted = false
	}

	// 3. Publish the tick boundary
	now := o.clock.Now()
	o.publish(now)
	o.ectx.Telemetry().Record(domain.TelemetryRecord{
		RunID:    o.runID,
		Tick:     o.tick,
		Time:     now,
		Mode:     o.active.Name(),
		Feedback: o.feedback,
	})

	// 4. Deadline supervision applies to the next tick
	elapsed := now.Sub(began)
	if o.period > 0 && elapsed > o.period {
		o.deadlineFault = true
		o.stats.DeadlineMisses++
		o.emitDeadlineMiss(current.Name(), elapsed)
	}
	o.emitTick(o.active.Name(), elapsed)

	return o.active.Name(), nil
}

// resolveNext applies the fault priority rule.
func (o *Orchestrator) resolveNext(current domain.ModeName, fault bool, requested domain.ModeName) (domain.ModeName, domain.TransitionReason) {
	switch {
	case o.deadlineFault:
		o.deadlineFault = false
		return o.safeMode, domain.ReasonDeadlineMiss
	case fault:
		return o.safeMode, domain.ReasonLoseControl
	case requested == "" || requested == current:
		return current, ""
	case o.latched:
		if !o.latchNoticed {
			o.latchNoticed = true
			o.logger.Warn("safe mode latched, ignoring transition request until release",
				"mode", current, "requested", requested)
		}
		return current, ""
	case requested == o.safeMode:
		return o.safeMode, domain.ReasonSafeRequest
	default:
		return requested, domain.ReasonRequested
	}
}

// switchTo performs the exit/enter sequence. The target is resolved before the
// outgoing mode is told to exit, so an unknown target leaves it untouched.
func (o *Orchestrator) switchTo(target domain.ModeName, reason domain.TransitionReason, requested domain.ModeName) {
	prev := o.active

	if reason.IsFault() {
		o.stats.Faults++
		o.emitFault(prev.Name(), requested, reason)
	}

	next, err := o.registry.Resolve(target, o.robot, o.ectx)
	if err != nil {
		o.stats.UnknownRequests++
		o.diagnose(prev.Name(), target, "transition target unavailable, staying in current mode", err)
		return
	}

	prev.OnExit()
	o.emitModeExit(prev.Name(), reason)

	next.OnEnter()
	if reason.IsFault() {
		notifyFault(next, reason)
	}
	o.active = next
	o.stats.Transitions++
	o.emitModeEnter(next.Name(), reason)

	o.latched = target == o.safeMode
	o.latchNoticed = false
	o.safeFaulted = reason.IsFault()

	o.logger.Info("mode transition",
		"from", prev.Name(),
		"to", next.Name(),
		"reason", reason,
		"tick", o.tick,
	)
}

// holdSafe handles a fault raised while the safe mode is already active. The
// latch is re-armed and the fault is counted once per episode.
func (o *Orchestrator) holdSafe(reason domain.TransitionReason, requested domain.ModeName) {
	if !o.latched {
		o.latched = true
		o.latchNoticed = false
		o.logger.Warn("fault in safe mode, latch re-armed", "mode", o.active.Name(), "reason", reason, "tick", o.tick)
	}
	if o.safeFaulted {
		return
	}
	o.safeFaulted = true
	o.stats.Faults++
	o.emitFault(o.active.Name(), requested, reason)
	notifyFault(o.active, reason)
}

func notifyFault(m domain.ControlMode, reason domain.TransitionReason) {
	if r, ok := m.(domain.FaultReceiver); ok {
		r.OnFault(reason)
	}
}

// Release clears the safe-mode latch so the safe mode's own transition
// request is honoured on the next tick. A fault raised after Release latches
// again.
func (o *Orchestrator) Release() error {
	if !o.latched {
		return domain.ErrNotLatched
	}
	o.latched = false
	o.latchNoticed = false
	o.safeFaulted = false
	o.publish(o.clock.Now())
	o.logger.Info("safe mode released", "mode", o.activeName())
	return nil
}

// Stop calls OnExit on the active mode. The orchestrator can be started again.
func (o *Orchestrator) Stop() {
	if o.active == nil {
		return
	}
	last := o.active
	last.OnExit()
	o.emitModeExit(last.Name(), domain.ReasonShutdown)
	o.active = nil
	o.logger.Info("orchestrator stopped", "mode", last.Name(), "ticks", o.tick)
}

// Snapshot returns the state published at the last tick boundary.
func (o *Orchestrator) Snapshot() domain.Snapshot {
	return *o.snapshot.Load()
}

// Active returns the active mode name, or "" before Start.
func (o *Orchestrator) Active() domain.ModeName {
	return o.activeName()
}

// Latched reports whether the safe mode is holding the robot.
func (o *Orchestrator) Latched() bool { return o.latched }

// Stats returns the cumulative counters.
func (o *Orchestrator) Stats() Stats { return o.stats }

// RunID identifies this orchestrator in telemetry.
func (o *Orchestrator) RunID() string { return o.runID }

// SafeMode returns the configured safe mode.
func (o *Orchestrator) SafeMode() domain.ModeName { return o.safeMode }

// Modes describes the registered modes for introspection.
func (o *Orchestrator) Modes() []domain.ModeInfo {
	active := o.Snapshot().Mode
	entries := o.registry.Entries()
	out := make([]domain.ModeInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.ModeInfo{
			Name:        e.Name,
			Transitions: e.Transitions,
			Start:       e.Name == o.startMode,
			Safe:        e.Name == o.safeMode,
			Active:      e.Name == active,
		})
	}
	return out
}

func (o *Orchestrator) activeName() domain.ModeName {
	if o.active == nil {
		return ""
	}
	return o.active.Name()
}

func (o *Orchestrator) publish(now time.Time) {
	o.snapshot.Store(&domain.Snapshot{
		Tick:      o.tick,
		Mode:      o.activeName(),
		Latched:   o.latched,
		Feedback:  o.feedback,
		UpdatedAt: now,
	})
}

func (o *Orchestrator) diagnose(mode, target domain.ModeName, msg string, err error) {
	if o.diagLimiter.Allow() {
		o.logger.Warn(msg, "mode", mode, "target", target, "error", err, "tick", o.tick)
	}
	if o.hooks.OnDiagnostic != nil {
		o.hooks.OnDiagnostic(&domain.DiagnosticEvent{
			EventBase: o.eventBase(domain.EventDiagnostic),
			Mode:      mode,
			Target:    target,
			Message:   msg,
			Err:       err,
		})
	}
}
