package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/middleware"
)

// Scheduler runs the in-process cron jobs, currently just the daily rollover.
// The rollover's watermark makes overlapping triggers (cron plus external)
// harmless.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler using standard 5-field cron expressions.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// ScheduleRollover registers the daily carry-forward at the given cron
// expression.
func (s *Scheduler) ScheduleRollover(expr string, rollover portssvc.RolloverSvcFacade) error {
	jobLogger := s.logger.With(slog.String("job", "rollover"))
	_, err := s.cron.AddFunc(expr, func() {
		ctx := middleware.WithLogger(context.Background(), jobLogger)
		if _, err := rollover.Run(ctx, "cron"); err != nil {
			jobLogger.Error("Scheduled rollover failed", slog.String("error", err.Error()))
		}
	})
	return err
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the cron loop, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
