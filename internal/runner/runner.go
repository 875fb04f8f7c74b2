// Package runner repeats processing passes on an interval.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vmunix/arrshelf/internal/lock"
)

// Pass is one processing run.
type Pass func(ctx context.Context) error

// Config for the runner.
type Config struct {
	Interval time.Duration
}

// Runner calls a pass immediately and then once per interval.
type Runner struct {
	pass   Pass
	config Config
	logger *slog.Logger
}

// New creates a runner.
func New(pass Pass, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		pass:   pass,
		config: cfg,
		logger: logger.With("component", "runner"),
	}
}

// Run blocks until ctx is canceled and returns its error. A failed pass is
// logged and the next one runs on schedule. With no interval Run makes a
// single pass and returns its error.
func (r *Runner) Run(ctx context.Context) error {
	if r.config.Interval <= 0 {
		return r.pass(ctx)
	}

	r.logger.Info("runner started", "interval", r.config.Interval.String())
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.once(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return ctx.Err()
		case <-ticker.C:
			r.once(ctx)
		}
	}
}

func (r *Runner) once(ctx context.Context) {
	err := r.pass(ctx)
	switch {
	case err == nil, ctx.Err() != nil:
	case errors.Is(err, lock.ErrLockHeld):
		r.logger.Warn("pass skipped, lock held elsewhere")
	default:
		r.logger.Error("pass failed", "error", err)
	}
}
