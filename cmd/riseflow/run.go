package main

import (
	"github.com/aretw0/riseflow/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk the flow interactively",
	Long: `Starts an interactive session in the terminal. The trail and the search
text are saved in the configured store, so the next run resumes where you left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cli.RunOptions{Config: cfg}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.At, _ = cmd.Flags().GetString("at")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("session", "", "Session id (empty uses the shared default session)")
	runCmd.Flags().String("at", "", "Open at a node, like following a shared '#id' link")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (JSON-Lines input/output)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the flow file when it changes")
	runCmd.Flags().Bool("fresh", false, "Forget the stored trail before starting")

	// 'riseflow' alone runs a session.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
