package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/cli"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <words>...",
	Short: "Search the flow from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		g, jumps, err := cli.LoadGraph(cfg)
		if err != nil {
			return err
		}

		engine := riseflow.New(riseflow.WithGraph(g), riseflow.WithQuickJumps(jumps))
		results := engine.Search(strings.Join(args, " "))

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No results for %q\n", strings.Join(args, " "))
			return nil
		}
		for _, n := range results {
			fmt.Fprintf(out, "%-16s %-4s %s\n", n.ID, n.Role.Short(), n.Title)
		}
		fmt.Fprintf(out, "\nOpen one with: riseflow run --at <id>\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
