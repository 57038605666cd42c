package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/config"
)

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// RunServer starts the API server, the metrics server when metrics are enabled
// and the expiry sweeper when EXPIRY_SWEEP_ENABLED is set. It blocks until
// SIGINT/SIGTERM or a fatal server error, then shuts every server down within
// DBConnMaxLifetime.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initializes every dependency, so configuration errors surface before listening.
	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	servers := []shutdowner{server}
	serverErr := make(chan error, 2)

	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		servers = append(servers, metricsServer)
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	sweeperDone := make(chan struct{})
	if cfg.ExpirySweepEnabled {
		sweeper, err := container.ExpirySweeper(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize expiry sweeper: %w", err)
		}
		go func() {
			defer close(sweeperDone)
			_ = sweeper.Start(ctx)
		}()
	} else {
		close(sweeperDone)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", runErr))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer shutdownCancel()

	shutdownErrors := []error{runErr}
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("server shutdown: %w", err))
		}
	}

	select {
	case <-sweeperDone:
	case <-shutdownCtx.Done():
		shutdownErrors = append(shutdownErrors, fmt.Errorf("expiry sweeper shutdown: %w", shutdownCtx.Err()))
	}

	return errors.Join(shutdownErrors...)
}
