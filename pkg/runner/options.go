package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/stance/pkg/domain"
)

// DefaultPeriod is the control period used when none is configured.
const DefaultPeriod = 2 * time.Millisecond

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithPeriod sets the tick period.
func WithPeriod(d time.Duration) Option {
	return func(r *Runner) {
		r.Period = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithMaxTicks stops the loop after n ticks. Zero runs until cancelled.
func WithMaxTicks(n uint64) Option {
	return func(r *Runner) {
		r.MaxTicks = n
	}
}

// WithTickObserver calls fn after every tick with the mode active at its end.
// fn runs on the control goroutine and must not block.
func WithTickObserver(fn func(tick uint64, mode domain.ModeName)) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}
