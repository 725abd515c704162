package services

import (
	"context"
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/middleware"
)

// SystemActorID marks mutations performed by the system itself rather than a
// user, e.g. the nightly carry-forward.
const SystemActorID = "SYSTEM"

// rolloverService runs the daily carry-forward. The watermark makes it safe
// to invoke arbitrarily many times per day from the scheduler or the manual
// trigger endpoint.
type rolloverService struct {
	rolloverRepo portsrepo.RolloverRepository
	now          func() time.Time
}

// NewRolloverService creates the rollover engine.
func NewRolloverService(rolloverRepo portsrepo.RolloverRepository, now func() time.Time) portssvc.RolloverSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &rolloverService{rolloverRepo: rolloverRepo, now: now}
}

var _ portssvc.RolloverSvcFacade = (*rolloverService)(nil)

// Run executes the carry-forward for today's date. Only the first invocation
// of a calendar date does work; subsequent ones observe the watermark and
// return a skipped result.
func (s *rolloverService) Run(ctx context.Context, trigger string) (*domain.RolloverResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.now()
	runDate := now.Format(domain.WatermarkDateLayout)

	accountsUpdated, skipped, err := s.rolloverRepo.RunCarryForward(ctx, runDate, SystemActorID, now)
	if err != nil {
		logger.Error("Rollover failed",
			"run_date", runDate,
			"trigger", trigger,
			"error", err,
		)
		return nil, err
	}

	result := &domain.RolloverResult{
		RunDate:         runDate,
		Skipped:         skipped,
		AccountsUpdated: accountsUpdated,
	}
	if skipped {
		logger.Info("Rollover already ran today, skipping", "run_date", runDate, "trigger", trigger)
	} else {
		logger.Info("Rollover completed",
			"run_date", runDate,
			"trigger", trigger,
			"accounts_updated", accountsUpdated,
		)
	}
	return result, nil
}
