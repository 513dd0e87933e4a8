package main

import (
	"context"
	"fmt"

	"github.com/aretw0/stance/internal/cli"
	"github.com/aretw0/stance/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the mode graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the registered modes, their declared
transitions and the fault edges into the safe mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{Offline: true})
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		fmt.Print(graph.GenerateMermaid(app.Controller.Modes(), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
