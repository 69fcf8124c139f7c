package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/riseflow/internal/cli"
	"github.com/aretw0/riseflow/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the flow to AI agents as MCP tools (search_nodes, get_node,
list_nodes, navigate, set_query) and the riseflow://graph resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Stdout carries JSON-RPC; the logger already writes to Stderr.
		logger := cli.CreateLogger(cfg, debug)

		backend, err := cli.OpenBackend(cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		engine, err := cli.NewEngine(cfg, backend, logger)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(engine, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting riseflow MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			addr := fmt.Sprintf(":%d", port)
			err := srv.ServeSSE(sigCtx, addr, fmt.Sprintf("http://localhost:%d", port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
