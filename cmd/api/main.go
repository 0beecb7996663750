// Package main starts an HTTP server that provides endpoints for health checks
// and dependency graph construction. It uses the internal handlers package to
// process incoming requests and return JSON responses.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/relgraph/core/cmd/api/middleware"
	"github.com/relgraph/core/internal/config"
	"github.com/relgraph/core/internal/handlers"
	"github.com/relgraph/core/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config.", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error.", "error", err)
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(cfg.CollapseJoins, cfg.MaxBodyBytes))
	mux.Handle("/graph", handlers.NewGraphHandler(logger, cfg.CollapseJoins, cfg.MaxBodyBytes))
	return mux
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	handler := middleware.RequestLogger(logger, newRouter(cfg, logger))
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.Cors(cfg.CORSAllowedOrigin, handler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("🚀 Server starting.", "addr", server.Addr, "collapse_joins", cfg.CollapseJoins)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
