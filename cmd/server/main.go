package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	apphttp "github.com/amakane-hakari/appsample/internal/api/http"
	"github.com/amakane-hakari/appsample/internal/app"
	"github.com/amakane-hakari/appsample/internal/config"
	ilog "github.com/amakane-hakari/appsample/internal/log"
	"github.com/amakane-hakari/appsample/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := ilog.New(cfg.LogLevel, cfg.LogFormat)

	st := app.New(app.Identity{Pool: cfg.Pool, Release: cfg.Release})

	opts := []apphttp.Option{apphttp.WithLogger(logger)}
	if cfg.MetricsEnabled {
		p := metrics.NewProm("appsample")
		opts = append(opts, apphttp.WithMetrics(p), apphttp.WithMetricsHandler(p.Handler()))
	}
	router := apphttp.NewRouter(st, opts...)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	logger.Info(startupMessage(cfg),
		"pool", cfg.Pool, "release", cfg.Release, "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "err", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	} else {
		logger.Info("server stopped")
	}
	if exitCode != 0 {
		cancel()
		stop()
		os.Exit(exitCode)
	}
}

func startupMessage(cfg *config.Config) string {
	return fmt.Sprintf("app (%s:%s) listening on %d", cfg.Pool, cfg.Release, cfg.Port)
}
