/*
Package runner drives a mode orchestrator at a fixed period.

The runner owns the control goroutine: it starts the orchestrator, ticks it on
every period boundary and stops it when the context ends. Other goroutines
interact with the loop only through RequestRelease, which is applied between
two ticks.

# Key Components

  - Runner: the fixed-period control loop.
  - Stepper: what the loop drives (implemented by the orchestrator).
  - SignalManager: turns SIGINT/SIGTERM into context cancellation.

# Usage

	signals := runner.NewSignalManager()
	defer signals.Stop()

	r := runner.NewRunner(runner.WithPeriod(2 * time.Millisecond))
	if err := r.Run(signals.Context(), orchestrator); err != nil {
		log.Fatal(err)
	}
*/
package runner
