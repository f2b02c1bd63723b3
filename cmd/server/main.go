package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gatherly/ticketing/internal/config"
	"github.com/gatherly/ticketing/internal/di"
	"github.com/gatherly/ticketing/internal/handler"
	"github.com/gatherly/ticketing/pkg/logger"
	"github.com/gatherly/ticketing/pkg/middleware"
	"github.com/gatherly/ticketing/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTel.Enabled {
		if _, err := telemetry.Init(ctx, &telemetry.Config{
			Enabled:        true,
			ServiceName:    cfg.OTel.ServiceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			CollectorAddr:  cfg.OTel.CollectorAddr,
			SampleRatio:    cfg.OTel.SampleRatio,
		}); err != nil {
			log.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx); err != nil {
					log.Warn("telemetry shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	container, err := di.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}
	defer container.Close()

	routerCfg := handler.RouterConfig{
		Events:   container.EventHandler,
		Bookings: container.BookingHandler,
		Health:   container.HealthHandler,
		Logger:   log,
		Auth: &middleware.AuthConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
		},
		Debug: cfg.App.Debug,
	}
	if container.Redis != nil {
		routerCfg.Idempotency = middleware.DefaultIdempotencyConfig(container.Redis.Client())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.NewRouter(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
