package core

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/encodeous/topomon/perf"
	"github.com/encodeous/topomon/state"
)

// Start runs the monitor described by cfg until it is interrupted, or after one cycle when once is set.
func Start(cfg *state.Config, logLevel slog.Level, once bool) error {
	logger, logCloser, err := NewLogger(cfg.Log, logLevel, os.Stderr)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(context.Canceled)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
			return
		}
	}()

	if cfg.Debug.Listen != "" {
		go perf.Serve(ctx, cfg.Debug.Listen, logger)
	}

	m, err := NewMonitor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Error("failed to close link source", "error", err)
		}
	}()

	s := &Scheduler{
		Interval: cfg.Interval,
		OnError:  cfg.OnError,
		Log:      logger,
	}
	cycle := func(ctx context.Context) error {
		_, err := m.RunCycle(ctx)
		return err
	}

	switch {
	case once:
		err = s.RunOnce(ctx, cycle)
	case cfg.Schedule != "":
		logger.Info("topomon has been initialized. To gracefully exit, send SIGINT or Ctrl+C.", "schedule", cfg.Schedule, "source", cfg.Source.Kind)
		err = s.RunCron(ctx, cfg.Schedule, cycle)
	default:
		logger.Info("topomon has been initialized. To gracefully exit, send SIGINT or Ctrl+C.", "interval", cfg.Interval, "source", cfg.Source.Kind)
		err = s.Run(ctx, cycle)
	}
	if err != nil {
		logger.Error("monitor stopped", "error", err)
		return err
	}
	if cause := context.Cause(ctx); cause != nil {
		logger.Info("stopped", "reason", cause.Error())
	}
	return nil
}
