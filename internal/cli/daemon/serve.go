package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/vitrine/internal/api/handlers"
	"github.com/cloo-solutions/vitrine/internal/config"
	"github.com/cloo-solutions/vitrine/internal/server"
	"github.com/cloo-solutions/vitrine/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Load the catalog, build the retrieval index and start the vitrine HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides VITRINE_PORT)")
	cmd.Flags().String("data-dir", "", "Directory holding the catalog documents (overrides VITRINE_DATA_DIR)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("reuse-index", false, "Keep non-empty pgvector collections instead of re-embedding the catalog")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	shutdownTelemetry := initTelemetry(cfg, logger, cmd.Root().Version)
	defer shutdownTelemetry()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	a, err := newApp(ctx, cfg, logger, appOptions{migrate: !noMigrate})
	if err != nil {
		return err
	}
	defer a.Close()

	reuse, _ := cmd.Flags().GetBool("reuse-index")
	if err := a.buildIndex(ctx, reuse && cfg.HasDatabase()); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	products, policies := a.retrievers()
	assistant := a.newAssistant(products, policies)

	router := server.NewRouter(server.RouterConfig{
		ChatHandler:   handlers.NewChatHandler(assistant),
		SearchHandler: handlers.NewSearchHandler(products, policies, logger),
		HealthHandler: handlers.NewHealthHandler(a.health),
		Metrics:       a.metrics,
		StaticDir:     cfg.StaticDir,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server exited")
	return nil
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger := telemetry.NewLogger(telemetry.LogConfig{
		Level:  level,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	return cfg, logger, nil
}

func initTelemetry(cfg *config.Config, logger zerolog.Logger, release string) func() {
	if cfg.SentryDSN == "" {
		return func() {}
	}

	// 10% sampling in production, everything in development.
	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "vitrine@" + release,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry init failed, continuing without tracing")
		return func() {}
	}
	return shutdown
}
