package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/wpfront"
	"github.com/eringen/wpfront/telemetry"
)

const shutdownTimeout = 10 * time.Second

func runServe() error {
	cfg, err := wpfront.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := wpfront.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "wpfront", version, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	app := wpfront.New(cfg, wpfront.WithLogger(logger))
	if err := app.Init(); err != nil {
		return err
	}
	defer app.Close()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err = <-errc:
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = app.Shutdown(shutdownCtx)
		if startErr := <-errc; startErr != nil {
			err = errors.Join(err, startErr)
		}
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if tErr := shutdownTracing(flushCtx); tErr != nil {
		logger.Warn("flush traces", zap.Error(tErr))
	}
	return err
}
