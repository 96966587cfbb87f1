package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/lookout/pkg/cli"
	"mercator-hq/lookout/pkg/config"
	"mercator-hq/lookout/pkg/server"
	"mercator-hq/lookout/pkg/telemetry/metrics"
	"mercator-hq/lookout/pkg/telemetry/tracing"
)

// tracerShutdownTimeout bounds the final span flush.
const tracerShutdownTimeout = 5 * time.Second

var runFlags struct {
	listenAddress string
	port          int
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the enrichment proxy",
	Long: `Start the enrichment proxy with the specified configuration.

The proxy listens on a dual-stack socket and forwards every enriched request
to {OLLAMA_API}/v1/chat/completions.

Examples:
  # Start with defaults (port 8080, backend from OLLAMA_API)
  lookout run

  # Start with a config file
  lookout run --config /etc/lookout/config.yaml

  # Override the port
  lookout run --port 9000

  # Validate config without starting the proxy
  lookout run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address (host only)")
	runCmd.Flags().IntVarP(&runFlags.port, "port", "p", 0, "override listen port")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the proxy")
}

// applyRunFlags applies the run overrides and re-validates.
func applyRunFlags(cfg *config.Config) error {
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.port != 0 {
		cfg.Proxy.Port = runFlags.port
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("tracing: %w", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	srv, err := server.New(cfg, logger, collector, versionInfo())
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	logger.Info("starting lookout",
		"version", Version,
		"addr", cfg.Proxy.Addr(),
		"backend", cfg.Backend.BaseURL,
		"search_provider", cfg.Search.Provider,
	)

	ctx, stop := cli.SetupSignalHandler(cmd.Context(), logger)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	logger.Info("lookout stopped")
	return nil
}
