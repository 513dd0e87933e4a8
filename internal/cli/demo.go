package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/ports"
)

// DemoStep is one scripted operator action.
type DemoStep struct {
	After  time.Duration
	Intent domain.UserIntent
}

// DefaultDemo stands the robot up, walks forward, stops and lies down.
var DefaultDemo = []DemoStep{
	{After: 500 * time.Millisecond, Intent: domain.UserIntent{Mode: domain.ModeStand}},
	{After: 2500 * time.Millisecond, Intent: domain.UserIntent{Mode: domain.ModeWalk, Velocity: [3]float64{0.4, 0, 0.1}}},
	{After: 3 * time.Second, Intent: domain.UserIntent{Mode: domain.ModeStand}},
	{After: time.Second, Intent: domain.UserIntent{Mode: domain.ModeStandby}},
}

// RunDemo plays steps against intents, each After the previous one. It returns
// early when ctx ends.
func RunDemo(ctx context.Context, intents ports.IntentSetter, steps []DemoStep, logger *slog.Logger) {
	for _, step := range steps {
		timer := time.NewTimer(step.After)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		logger.Info("demo operator", "mode", step.Intent.Mode, "velocity", step.Intent.Velocity)
		intents.SetIntent(step.Intent)
	}
}
