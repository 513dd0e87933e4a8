package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

// Stepper is the state machine driven by the Runner. All methods are called
// from the control goroutine only.
type Stepper interface {
	Start() error
	Tick() (domain.ModeName, error)
	Release() error
	Stop()
}

// Runner is the fixed-period control loop.
type Runner struct {
	// Period between two tick starts.
	Period time.Duration

	// MaxTicks bounds the run; zero means until the context ends.
	MaxTicks uint64

	// Logger is used for loop events. If nil, a no-op logger is used.
	Logger *slog.Logger

	observer func(uint64, domain.ModeName)
	release  atomic.Bool
	ticks    atomic.Uint64
}

// NewRunner creates a Runner with the default period.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Period: DefaultPeriod,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RequestRelease asks the loop to release a latched safe mode before the next
// tick. Safe from any goroutine.
func (r *Runner) RequestRelease() {
	r.release.Store(true)
}

// Ticks returns how many ticks the current or last run completed.
func (r *Runner) Ticks() uint64 {
	return r.ticks.Load()
}

// Run starts s, ticks it every Period and stops it when ctx ends or MaxTicks
// is reached. A cancelled context is a normal shutdown and returns nil.
func (r *Runner) Run(ctx context.Context, s Stepper) error {
	if r.Period <= 0 {
		return fmt.Errorf("runner: period must be positive, got %v", r.Period)
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer s.Stop()

	r.ticks.Store(0)
	r.release.Store(false)

	ticker := time.NewTicker(r.Period)
	defer ticker.Stop()

	r.Logger.Info("control loop started", "period", r.Period)
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("control loop stopped", "ticks", r.ticks.Load(), "cause", context.Cause(ctx))
			return nil
		case <-ticker.C:
		}

		if r.release.Swap(false) {
			if err := s.Release(); err != nil && !errors.Is(err, domain.ErrNotLatched) {
				return fmt.Errorf("release: %w", err)
			}
		}

		mode, err := s.Tick()
		if err != nil {
			return fmt.Errorf("tick %d: %w", r.ticks.Load()+1, err)
		}
		n := r.ticks.Add(1)
		if r.observer != nil {
			r.observer(n, mode)
		}
		if r.MaxTicks > 0 && n >= r.MaxTicks {
			r.Logger.Info("control loop finished", "ticks", n, "mode", mode)
			return nil
		}
	}
}
