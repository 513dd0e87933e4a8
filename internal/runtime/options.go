package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStartMode sets the mode entered by Start (default: standby).
func WithStartMode(name domain.ModeName) Option {
	return func(o *Orchestrator) {
		o.startMode = name
	}
}

// WithSafeMode sets the mode forced on a fault (default: safe_stop).
func WithSafeMode(name domain.ModeName) Option {
	return func(o *Orchestrator) {
		o.safeMode = name
	}
}

// WithRobotType selects the hardware variant passed to every mode factory.
func WithRobotType(robot domain.RobotType) Option {
	return func(o *Orchestrator) {
		o.robot = robot
	}
}

// WithPeriod sets the tick deadline. A tick that takes longer than the period
// forces the safe mode on the following tick. Zero disables supervision.
func WithPeriod(period time.Duration) Option {
	return func(o *Orchestrator) {
		o.period = period
	}
}

// WithClock injects the time source used for deadline supervision.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithDiagnosticInterval throttles repeated diagnostic log lines (default: 1s).
// Hooks still see every diagnostic.
func WithDiagnosticInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.diagInterval = d
	}
}

// WithRunID overrides the generated run identifier stamped on telemetry.
func WithRunID(id string) Option {
	return func(o *Orchestrator) {
		if id != "" {
			o.runID = id
		}
	}
}
