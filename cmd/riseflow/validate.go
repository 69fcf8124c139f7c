package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/riseflow/internal/cli"
	"github.com/aretw0/riseflow/pkg/graph"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flow-file]",
	Short: "Check the flow for consistency",
	Long: `Loads the flow (the shipped one, the configured one or the given file),
reports dangling choices and warns about nodes no path from the root reaches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Flow = args[0]
		}

		g, _, err := cli.LoadGraph(cfg)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if orphans := graph.Unreachable(g); len(orphans) > 0 {
			fmt.Fprintf(out, "Warning: unreachable from %q: %s\n", g.Root(), strings.Join(orphans, ", "))
		}
		fmt.Fprintf(out, "Flow is valid! ✅ (%d nodes)\n", g.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
