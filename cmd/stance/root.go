package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stance/internal/config"
	"github.com/aretw0/stance/internal/logging"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stance",
	Short: "Stance is an operating-mode controller for legged robots",
	Long: `Stance runs a fixed-period mode state machine (standby, stand, walk,
safe_stop) against simulated hardware, with a diagnostics API, a Redis
telemetry stream and an MCP server for introspection.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("robot", "", "Override the robot type (lite3, x30)")
}

// loadConfig resolves the configuration and logger shared by every command.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if robot, _ := cmd.Flags().GetString("robot"); robot != "" {
		cfg.Robot = domain.RobotType(robot)
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	// Logs go to stderr so stdout stays clean for graph output and MCP stdio.
	logger := logging.NewWithWriter(os.Stderr, level, cfg.Log.Format == "json")
	return cfg, logger, nil
}
