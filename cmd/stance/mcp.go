package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/stance"
	"github.com/aretw0/stance/internal/cli"
	mcpAdapter "github.com/aretw0/stance/pkg/adapters/mcp"
	"github.com/aretw0/stance/pkg/runner"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Runs the control loop in the background and exposes it as an MCP server.
Agents can read the motion feedback, list the modes, request a mode and
release the safe mode.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if transport != "stdio" && transport != "sse" {
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}

		sm := runner.NewSignalManager()
		defer sm.Stop()
		ctx, cancel := context.WithCancel(sm.Context())
		defer cancel()

		app, err := cli.NewApp(ctx, cfg, logger, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		loopErr := make(chan error, 1)
		go func() { loopErr <- app.Controller.Run(ctx) }()

		srv := mcpAdapter.NewServer(app.Controller, stance.Version,
			mcpAdapter.WithIntentSetter(app.Intents),
			mcpAdapter.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			logger.Info("Starting stance MCP Server (Stdio)...")
			err = srv.ServeStdio()
		case "sse":
			addr := fmt.Sprintf(":%d", port)
			logger.Info("Starting stance MCP Server (SSE)", "port", port)
			err = srv.ServeSSE(ctx, addr, fmt.Sprintf("http://localhost:%d", port))
		}

		cancel()
		if lerr := <-loopErr; lerr != nil {
			logger.Error("control loop failed", "err", lerr)
			err = errors.Join(err, lerr)
		}
		if err != nil {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
