package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/aretw0/turing/pkg/history"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Starts the machine as an MCP Server, exposing evaluation, graph export
and table description as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := sharedOptions(cmd)
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")
			record, _ := cmd.Flags().GetBool("record")

			logger, closer, err := setupLogger(o)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			machine, err := cli.OpenMachine(ctx, o, logger)
			if err != nil {
				return err
			}

			opts := []mcp.Option{mcp.WithLogger(logger)}
			if record {
				var runs *history.Manager
				if runs, err = cli.OpenHistory(o, logger); err != nil {
					return err
				}
				opts = append(opts, mcp.WithHistory(runs))
			}
			srv := mcp.NewServer(machine, opts...)

			switch transport {
			case "stdio":
				// Ensure logs don't corrupt JSON-RPC on Stdout
				log.SetOutput(os.Stderr)
				logger.Info("Starting Turing MCP Server (Stdio)")
				return srv.ServeStdio()
			case "sse":
				logger.Info("Starting Turing MCP Server (SSE)", "port", port)
				if err := srv.ServeSSE(ctx, port); err != nil {
					return err
				}
				logger.Info("MCP Server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}

	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	cmd.Flags().Bool("record", false, "Record evaluations in the run history")
	return cmd
}
