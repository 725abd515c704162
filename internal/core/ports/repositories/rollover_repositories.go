package repositories

import (
	"context"
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// RolloverRepository persists the daily carry-forward and its watermark.
type RolloverRepository interface {
	// GetWatermark reads the singleton watermark row; ErrNotFound before the
	// first ever rollover.
	GetWatermark(ctx context.Context) (*domain.RolloverWatermark, error)

	// RunCarryForward executes the whole rollover atomically: it locks the
	// watermark row, returns skipped=true if it already equals runDate, and
	// otherwise sets start_of_day := end_of_day on every account and writes
	// runDate into the watermark as the final step of the same transaction.
	// A crash mid-batch leaves the watermark untouched so a retry is safe.
	RunCarryForward(ctx context.Context, runDate string, actorID string, now time.Time) (accountsUpdated int, skipped bool, err error)
}
