package main

import (
	"fmt"
	"os"

	"github.com/aretw0/riseflow/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riseflow",
	Short: "riseflow walks staff through the RISE behaviour flow",
	Long: `riseflow is a navigator for the RISE whole-school behaviour flow.
Follow the choices, search for a situation, and share a link to any step.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("flow", "", "Flow definition to use instead of the shipped RISE flow")
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every navigation to stderr")
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("flow") {
		cfg.Flow, _ = cmd.Flags().GetString("flow")
	}
	if cmd.Flags().Changed("store") {
		cfg.Store.Backend, _ = cmd.Flags().GetString("store")
	}
	return cfg, cfg.Validate()
}
