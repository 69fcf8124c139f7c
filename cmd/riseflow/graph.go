package main

import (
	"fmt"

	"github.com/aretw0/riseflow/internal/cli"
	"github.com/aretw0/riseflow/internal/logging"
	"github.com/aretw0/riseflow/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the flow as a Mermaid diagram",
	Long:  `Renders the flow as a Mermaid graph. With --session, the session's trail is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		g, _, err := cli.LoadGraph(cfg)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("session") {
			sessionID, _ := cmd.Flags().GetString("session")
			backend, err := cli.OpenBackend(cfg, logging.NewNop())
			if err != nil {
				return err
			}
			defer backend.Close()

			engine, err := cli.NewEngine(cfg, backend, logging.NewNop())
			if err != nil {
				return err
			}
			snap, err := engine.Sessions().Inspect(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{
				VisitedNodes: snap.Stack,
				CurrentNode:  snap.Current,
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g.Nodes(), g.Root(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the trail of this session")
}
