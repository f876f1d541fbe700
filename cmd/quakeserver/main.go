package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/thomhuang/EarthquakesByDistance/internal/config"
	"github.com/thomhuang/EarthquakesByDistance/internal/feed"
	"github.com/thomhuang/EarthquakesByDistance/internal/graceful"
	"github.com/thomhuang/EarthquakesByDistance/internal/logging"
	"github.com/thomhuang/EarthquakesByDistance/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	// the server refetches at most once a minute unless told otherwise
	if cfg.Feed.CacheTTL == 0 {
		cfg.Feed.CacheTTL = time.Minute
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	defer logger.Close()

	pipeline, err := cfg.Pipeline()
	if err != nil {
		return fmt.Errorf("could not build pipeline: %w", err)
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(feed.NewClient(cfg.Feed, logger.Logger), pipeline, logger.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := serve(ctx, srv, logger.Logger); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}

// serve runs srv until ctx ends, then shuts it down and waits for in-flight
// requests.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server started", "addr", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
