package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpirySweeper periodically marks cards past their expiry date as EXPIRED.
// Reads and mutations still run the expiry check themselves; the sweep only
// keeps stored statuses fresh for cards nobody touches.
type ExpirySweeper struct {
	schedule cron.Schedule
	spec     string
	cards    CardUseCase
	logger   *slog.Logger
}

// NewExpirySweeper parses spec (standard cron syntax or descriptors such as
// "@daily" and "@every 1h") and returns a sweeper.
func NewExpirySweeper(spec string, cards CardUseCase, logger *slog.Logger) (*ExpirySweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry sweep schedule %q: %w", spec, err)
	}

	return &ExpirySweeper{
		schedule: schedule,
		spec:     spec,
		cards:    cards,
		logger:   logger,
	}, nil
}

// Start runs the sweep on schedule until ctx is cancelled. It waits for a
// running sweep to finish before returning ctx.Err().
func (s *ExpirySweeper) Start(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting card expiry sweeper", slog.String("schedule", s.spec))
	}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		_, _ = s.Sweep(ctx)
	}))
	c.Start()

	<-ctx.Done()

	if s.logger != nil {
		s.logger.Info("stopping card expiry sweeper")
	}
	<-c.Stop().Done()

	return ctx.Err()
}

// Sweep runs a single expiry pass.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int64, error) {
	count, err := s.cards.ExpireOverdue(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to expire overdue cards", slog.Any("error", err))
		}
		return 0, err
	}

	if s.logger != nil && count > 0 {
		s.logger.Info("expired overdue cards", slog.Int64("count", count))
	}
	return count, nil
}
