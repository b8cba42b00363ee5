package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/handlers"
	"github.com/ekaya-inc/chemmd-engine/pkg/middleware"
)

// shutdownTimeout bounds how long in-flight exports may run after a signal.
const shutdownTimeout = 15 * time.Second

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dataset exports over HTTP",
	Long: `Serve dataset exports over HTTP.

Datasets are directories below CHEMMD_BASE_PATH and are selected with the
dataset query parameter.

Endpoints:
  GET /api/export?dataset=NAME[&format=csv]
  GET /api/export/details?dataset=NAME&rows=0,3[&format=markdown]
  GET /health, GET /ping, GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Env),
		zap.String("listen_addr", cfg.ListenAddr()),
		zap.String("base_path", cfg.BasePath),
		zap.String("groups_file", cfg.Export.GroupsFile),
		zap.Bool("apply_stoichiometry", cfg.Export.ApplyStoichiometry))

	// Requests may only name datasets below the base path.
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "."
	}

	var sessions *handlers.SessionStore
	if cfg.SessionSecret != "" {
		sessions = handlers.NewSessionStore(cfg.SessionSecret, cfg.Env != "local")
	} else {
		logger.Warn("SESSION_SECRET not set; datasets will not be remembered between requests")
	}

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewExportHandler(newDatasetService(cfg, basePath, logger), sessions, cfg, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting chemmd-engine", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
