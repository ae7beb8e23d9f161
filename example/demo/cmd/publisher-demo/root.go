package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/domain-events-go/example/shared/shell"
	"github.com/AntonStoeckl/domain-events-go/example/shared/shell/observable"
	"github.com/AntonStoeckl/domain-events-go/publisher"
	"github.com/AntonStoeckl/domain-events-go/publisher/promadapters"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publisher-demo",
		Short: "Domain event publisher demo",
		Long: `publisher-demo runs a small library circulation scenario.

Book copy aggregates record domain events, which are published in-process
to a projection of the books currently lent out and to an event log.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error), overrides the config file")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "publisher-demo %s\n", version)
			return err
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the library circulation scenario",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
}

func loadConfigFromFlags(cmd *cobra.Command) (*Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("getting config flag: %w", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("getting log-level flag: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	level, err := parseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), level, cfg.Log.Console)

	registry := prometheus.NewRegistry()
	metrics := promadapters.NewMetricsCollector(registry)

	if cfg.Metrics.ListenAddress != "" {
		stop := serveMetrics(logger, registry, cfg.Metrics.ListenAddress)
		defer stop()
	}

	options := []publisher.Option{
		publisher.WithContextualLogger(logger),
		publisher.WithMetrics(metrics),
	}
	if cfg.Dispatch.Concurrent {
		options = append(options, publisher.WithConcurrentDispatch())
	}

	p, err := publisher.NewPublisher(options...)
	if err != nil {
		return err
	}
	defer p.Reset()

	projection := shell.NewBooksLentOut()
	if err = subscribeListeners(p, projection, logger, metrics); err != nil {
		return err
	}

	published, err := runScenario(ctx, p, logger, cfg.Scenario.BookCopies)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), projection.Result(), published)
}

func subscribeListeners(p *publisher.Publisher, projection *shell.BooksLentOut, logger *slog.Logger, metrics publisher.MetricsCollector) error {
	observedProjection, err := observable.NewListener(
		projection,
		"books_lent_out",
		observable.WithMetrics(metrics),
		observable.WithContextualLogging(logger),
	)
	if err != nil {
		return err
	}

	eventLog, err := shell.NewEventLog(logger)
	if err != nil {
		return err
	}

	retryingEventLog, err := shell.NewRetryingListener(eventLog, shell.WithRetryMetrics(metrics, "event_log"))
	if err != nil {
		return err
	}

	observedEventLog, err := observable.NewListener(
		retryingEventLog,
		"event_log",
		observable.WithMetrics(metrics),
		observable.WithContextualLogging(logger),
	)
	if err != nil {
		return err
	}

	p.Subscribe(observedProjection)
	p.Subscribe(observedEventLog)

	return nil
}

// serveMetrics exposes the registry on /metrics and returns a function that shuts the server down.
func serveMetrics(logger *slog.Logger, registry *prometheus.Registry, address string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err.Error())
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err.Error())
		}
	}
}
