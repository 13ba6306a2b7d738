// Package main runs the task board API: HTTP routes, the realtime websocket
// gateway and the in-memory stores behind them.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harrypotter228/TaskManagement/internal/common/config"
	"github.com/harrypotter228/TaskManagement/internal/common/constants"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/common/tracing"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/seed"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("taskboard stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting taskboard...")

	if err := tracing.Init(ctx, cfg.Tracing.OTLPEndpoint, cfg.Tracing.ServiceName); err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
	}

	provided, closeBus, err := events.Provide(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeBus() }()

	stores := repository.Provide()
	svcs := provideServices(cfg, stores, provided.Bus, log)

	if n, err := seed.NewSeeder(svcs.Boards, svcs.Tasks, log).Run(ctx, cfg.Seed); err != nil {
		return fmt.Errorf("seed: %w", err)
	} else if n > 0 {
		log.Info("Seeded demo boards", zap.Int("boards", n))
	}

	gw, err := provideGateway(ctx, provided.Bus, log)
	if err != nil {
		return fmt.Errorf("websocket gateway: %w", err)
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newRouter(cfg, provideControllers(svcs), gw, log),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gw.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("HTTP server listening",
			zap.String("addr", server.Addr),
			zap.String("websocket", "/ws"),
			zap.String("http", "/api/v1"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down taskboard...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			log.Error("Tracing shutdown error", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	log.Info("taskboard stopped")
	return err
}
