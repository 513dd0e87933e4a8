package main

import (
	"context"
	"fmt"

	"github.com/aretw0/stance/internal/cli"
	"github.com/aretw0/stance/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the registered modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		style, _ := cmd.Flags().GetString("style")

		ctx := context.Background()
		app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{Offline: true})
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		md := tui.DescribeModes(cfg.Robot, app.Controller.Modes())
		out, err := tui.NewRenderer(style)(md)
		if err != nil {
			// Fallback to raw markdown
			out = md
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().String("style", "", "Glamour style (dark, light, notty); empty picks one from the terminal")
}
