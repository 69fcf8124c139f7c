package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/riseflow/internal/cli"
	riseHTTP "github.com/aretw0/riseflow/pkg/adapters/http"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the flow and its sessions over HTTP",
	Long: `Starts a JSON API for the flow: read-only graph and search endpoints,
per-session navigation, SSE updates and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger := cli.CreateLogger(cfg, debug)

		backend, err := cli.OpenBackend(cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		hooks := []domain.LifecycleHooks{metrics.Hooks()}
		if debug {
			hooks = append(hooks, observability.LogHooks(logger))
		}
		engine, err := cli.NewEngine(cfg, backend, logger, hooks...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: riseHTTP.NewHandler(engine, riseHTTP.WithLogger(logger), riseHTTP.WithMetrics(reg)),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting riseflow server on %s (%d nodes, %s store)\n",
				srv.Addr, engine.Graph().Len(), cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-sigCtx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "riseflow server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
