package aggregation

import (
	"context"
	"time"

	domain "github.com/zd0907-arc/market-live-terminal/internal/domain/aggregation"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
)

// SchedulerConfig sets when the daily finalization runs.
type SchedulerConfig struct {
	// At is the exchange-local HH:MM of the run, after the close auction.
	At string `env:"AT" envDefault:"15:05"`
}

// Scheduler runs Finalize once per weekday at a fixed exchange time.
type Scheduler struct {
	usecase domain.Usecase
	at      time.Duration
	logger  logger.Interface

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewScheduler parses config.At and returns a scheduler for usecase.
func NewScheduler(config SchedulerConfig, usecase domain.Usecase, log logger.Interface) (*Scheduler, error) {
	secs, ok := util.ClockSeconds(config.At)
	if !ok {
		return nil, errors.NewErrorDetails("invalid finalization time "+config.At, string(errors.GeneralBadRequestError), "at")
	}
	return &Scheduler{
		usecase: usecase,
		at:      time.Duration(secs) * time.Second,
		logger:  log,
		now:     time.Now,
		after:   time.After,
	}, nil
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = util.WithLoop(ctx, "finalize")
	for {
		next := NextRun(s.now(), s.at)
		s.logger.InfoContext(ctx, "Next finalization scheduled", logger.NewField("at", next.Format(time.RFC3339)))

		select {
		case <-ctx.Done():
			return
		case <-s.after(next.Sub(s.now())):
		}

		date := next.Format(util.DateLayout)
		report, err := s.usecase.Finalize(ctx, date)
		if err != nil {
			s.logger.ErrorContext(ctx, err, logger.NewField("date", date))
		}
		if report != nil {
			s.logger.InfoContext(ctx, "Finalized trading day",
				logger.NewField("date", date),
				logger.NewField("runs", report.Runs),
				logger.NewField("empty", report.Empty),
				logger.NewField("failed", len(report.Failed)),
			)
		}
	}
}

// NextRun returns the first weekday instant at offset `at` from exchange
// midnight that is strictly after now.
func NextRun(now time.Time, at time.Duration) time.Time {
	local := now.In(util.Exchange)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, util.Exchange)
	for {
		candidate := day.Add(at)
		if candidate.After(local) && day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			return candidate
		}
		day = day.AddDate(0, 0, 1)
	}
}
