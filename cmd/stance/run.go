package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stance"
	"github.com/aretw0/stance/internal/cli"
	"github.com/aretw0/stance/internal/presentation/tui"
	"github.com/aretw0/stance/pkg/runner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the control loop on simulated hardware",
	Long: `Starts the mode orchestrator at the configured period. The loop stops on
SIGINT/SIGTERM or after --ticks ticks. With --http the diagnostics API is
served alongside; with a Redis address configured, telemetry is streamed and
operator commands are read from the Redis channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ticks, _ := cmd.Flags().GetUint64("ticks")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		demo, _ := cmd.Flags().GetBool("demo")
		if addr, _ := cmd.Flags().GetString("http"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		if !noBanner && term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(os.Stdout)
		}

		sm := runner.NewSignalManager()
		defer sm.Stop()
		ctx := sm.Context()

		app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{
			Debug:      logger.Enabled(ctx, slog.LevelDebug),
			Controller: []stance.Option{stance.WithMaxTicks(ticks)},
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(context.Background()); err != nil {
				logger.Error("close adapters", "err", err)
			}
		}()

		return runApp(ctx, app, demo)
	},
}

func runApp(ctx context.Context, app *cli.App, demo bool) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(loopCtx)
	g.Go(func() error {
		// The loop ends the whole group, including when --ticks is reached.
		defer cancel()
		return app.Controller.Run(gctx)
	})
	if addr := app.Config.HTTP.Addr; addr != "" {
		g.Go(func() error {
			return cli.Serve(gctx, addr, app.Handler(), app.Logger)
		})
	}
	if demo {
		g.Go(func() error {
			cli.RunDemo(gctx, app.Intents, cli.DefaultDemo, app.Logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats := app.Controller.Stats()
	snap := app.Controller.Snapshot()
	fmt.Printf("stopped in %s after %d ticks (%d transitions, %d faults, %d deadline misses)\n",
		snap.Mode, stats.Ticks, stats.Transitions, stats.Faults, stats.DeadlineMisses)
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Uint64("ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	runCmd.Flags().String("http", "", "Serve the diagnostics API on this address (overrides http.addr)")
	runCmd.Flags().Bool("demo", false, "Drive the robot through a scripted stand/walk/standby sequence")
}
