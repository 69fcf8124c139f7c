package main

import (
	"fmt"

	"github.com/aretw0/riseflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of riseflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "riseflow version %s\n", riseflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
