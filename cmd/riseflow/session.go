package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/riseflow"
	"github.com/aretw0/riseflow/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect, and remove the navigation sessions kept in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(engine *riseflow.Engine) error {
			sessions, err := engine.Sessions().List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No stored sessions found.")
				return nil
			}
			fmt.Fprintln(out, "Stored Sessions:")
			for _, s := range sessions {
				if s == "" {
					s = "(default)"
				}
				fmt.Fprintln(out, "- "+s)
			}
			return nil
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Show the stored trail and search text of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(engine *riseflow.Engine) error {
			snap, err := engine.Sessions().Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("requires at least 1 session id, or --all")
		}

		return withEngine(cmd, func(engine *riseflow.Engine) error {
			ids := args
			if all {
				var err error
				if ids, err = engine.Sessions().List(cmd.Context()); err != nil {
					return err
				}
			}

			var failed bool
			for _, sessionID := range ids {
				if err := engine.Sessions().Delete(cmd.Context(), sessionID); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", sessionID, err)
					failed = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
			}
			if failed {
				return fmt.Errorf("some sessions could not be removed")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

func withEngine(cmd *cobra.Command, fn func(*riseflow.Engine) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	debug, _ := cmd.Flags().GetBool("debug")
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
	return fn(engine)
}
