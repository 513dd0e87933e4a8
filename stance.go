package stance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/stance/internal/runtime"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/observability"
	"github.com/aretw0/stance/pkg/registry"
	"github.com/aretw0/stance/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultPeriod is the control period used when WithPeriod is not given.
const DefaultPeriod = runner.DefaultPeriod

// Stats are the cumulative orchestrator counters.
type Stats = runtime.Stats

// Controller is the high-level entry point for the stance library.
// It wraps the mode orchestrator and the fixed-period runner.
//
// Either drive it with Run, or manually with Start, Step and Stop; do not mix
// the two. Snapshot, Modes and RequestRelease are safe from any goroutine.
type Controller struct {
	orch   *runtime.Orchestrator
	runner *runner.Runner

	period      time.Duration
	hooks       domain.LifecycleHooks
	metrics     *observability.Metrics
	logger      *slog.Logger
	runtimeOpts []runtime.Option
	runnerOpts  []runner.Option
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithMetrics registers Prometheus metrics with reg and feeds them from the
// lifecycle hooks, alongside any hooks given with WithLifecycleHooks.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Controller) {
		c.metrics = observability.NewMetrics(reg)
	}
}

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPeriod sets the control period. It paces Run and bounds every tick.
func WithPeriod(d time.Duration) Option {
	return func(c *Controller) {
		c.period = d
	}
}

// WithStartMode configures the mode activated by Start (default: "standby").
func WithStartMode(name domain.ModeName) Option {
	return func(c *Controller) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithStartMode(name))
	}
}

// WithSafeMode configures the fault target (default: "safe_stop").
func WithSafeMode(name domain.ModeName) Option {
	return func(c *Controller) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithSafeMode(name))
	}
}

// WithRobotType selects the hardware variant every mode is built for.
func WithRobotType(robot domain.RobotType) Option {
	return func(c *Controller) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithRobotType(robot))
	}
}

// WithDiagnosticInterval throttles repeated warnings from the tick path.
func WithDiagnosticInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithDiagnosticInterval(d))
	}
}

// WithRunID overrides the generated run identifier used in telemetry.
func WithRunID(id string) Option {
	return func(c *Controller) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithRunID(id))
	}
}

// WithMaxTicks makes Run return after n ticks.
func WithMaxTicks(n uint64) Option {
	return func(c *Controller) {
		c.runnerOpts = append(c.runnerOpts, runner.WithMaxTicks(n))
	}
}

// WithTickObserver is called by Run after every tick, on the control goroutine.
func WithTickObserver(fn func(tick uint64, mode domain.ModeName)) Option {
	return func(c *Controller) {
		c.runnerOpts = append(c.runnerOpts, runner.WithTickObserver(fn))
	}
}

// New creates a controller over the modes in reg. ectx is shared by every mode
// and must outlive the controller.
func New(reg *registry.Registry, ectx *domain.ExecutionContext, opts ...Option) (*Controller, error) {
	c := &Controller{
		period: DefaultPeriod,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	hooks := c.hooks
	if c.metrics != nil {
		hooks = observability.ChainHooks(c.metrics.Hooks(), c.hooks)
	}

	rtOpts := []runtime.Option{
		runtime.WithPeriod(c.period),
		runtime.WithLogger(c.logger),
		runtime.WithLifecycleHooks(hooks),
	}
	orch, err := runtime.NewOrchestrator(reg, ectx, append(rtOpts, c.runtimeOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	c.orch = orch

	rnOpts := []runner.Option{
		runner.WithPeriod(c.period),
		runner.WithLogger(c.logger),
	}
	c.runner = runner.NewRunner(append(rnOpts, c.runnerOpts...)...)

	return c, nil
}

// Run starts the controller and ticks it every period until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	return c.runner.Run(ctx, c.orch)
}

// Start activates the start mode for manual stepping.
func (c *Controller) Start() error { return c.orch.Start() }

// Step runs exactly one tick and returns the mode active at its end.
func (c *Controller) Step() (domain.ModeName, error) { return c.orch.Tick() }

// Stop exits the active mode.
func (c *Controller) Stop() { c.orch.Stop() }

// Release clears the safe-mode latch immediately. Use it only when stepping
// manually; while Run is active use RequestRelease.
func (c *Controller) Release() error { return c.orch.Release() }

// RequestRelease asks the running loop to release the safe-mode latch before
// its next tick.
func (c *Controller) RequestRelease() { c.runner.RequestRelease() }

// Snapshot returns the state published at the last tick boundary.
func (c *Controller) Snapshot() domain.Snapshot { return c.orch.Snapshot() }

// Modes describes the registered modes.
func (c *Controller) Modes() []domain.ModeInfo { return c.orch.Modes() }

// Stats returns the cumulative counters. Read it from the control goroutine or
// after Run has returned.
func (c *Controller) Stats() Stats { return c.orch.Stats() }

// RunID identifies this controller in telemetry.
func (c *Controller) RunID() string { return c.orch.RunID() }

// Metrics returns the Prometheus metrics, or nil without WithMetrics.
func (c *Controller) Metrics() *observability.Metrics { return c.metrics }

// Period returns the control period.
func (c *Controller) Period() time.Duration { return c.period }
