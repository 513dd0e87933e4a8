package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/stance/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the mode graph",
	Long: `Loads the configuration, checks that the start mode, the safe mode and every
declared transition are registered, and builds each mode once for the
configured robot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidate(cmd); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Println("Mode graph is valid! ✅")
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("print-config", false, "Print the effective configuration as YAML")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if printConfig, _ := cmd.Flags().GetBool("print-config"); printConfig {
		if err := cfg.Dump(os.Stdout); err != nil {
			return err
		}
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{Offline: true})
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	warnings, err := app.ValidateModes()
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return err
}
