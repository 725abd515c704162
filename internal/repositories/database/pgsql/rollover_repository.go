package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRolloverRepository struct {
	BaseRepository
}

// newPgxRolloverRepository creates a new repository for the daily rollover
// watermark and carry-forward.
func newPgxRolloverRepository(pool *pgxpool.Pool) portsrepo.RolloverRepository {
	return &PgxRolloverRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RolloverRepository = (*PgxRolloverRepository)(nil)

// GetWatermark reads the single watermark row. ErrNotFound means the rollover
// has never run.
func (r *PgxRolloverRepository) GetWatermark(ctx context.Context) (*domain.RolloverWatermark, error) {
	query := `SELECT last_run_date, updated_at FROM rollover_watermark WHERE singleton = TRUE;`
	var wm domain.RolloverWatermark
	err := r.Pool.QueryRow(ctx, query).Scan(&wm.LastRunDate, &wm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to read rollover watermark", err)
	}
	return &wm, nil
}

// RunCarryForward performs the daily rollover atomically: it locks the
// watermark row, skips if the run date was already processed, copies every
// account's end-of-day into start-of-day and advances the watermark. Locking
// the watermark first makes concurrent triggers (cron plus manual) serialize,
// so exactly one of them does the work.
func (r *PgxRolloverRepository) RunCarryForward(ctx context.Context, runDate string, actorID string, now time.Time) (int, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer r.Rollback(ctx, tx)

	var lastRunDate string
	err = tx.QueryRow(ctx, `SELECT last_run_date FROM rollover_watermark WHERE singleton = TRUE FOR UPDATE;`).Scan(&lastRunDate)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, apperrors.NewAppError(500, "failed to lock rollover watermark", err)
	}

	// Dates are lexicographically comparable in YYYY-MM-DD form.
	if lastRunDate >= runDate {
		return 0, true, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET start_of_day = end_of_day, last_updated_at = $1, last_updated_by = $2
		WHERE start_of_day IS DISTINCT FROM end_of_day;
	`, now, actorID)
	if err != nil {
		return 0, false, apperrors.NewAppError(500, "failed to carry forward account balances", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO rollover_watermark (singleton, last_run_date, updated_at)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (singleton) DO UPDATE SET last_run_date = $1, updated_at = $2;
	`, runDate, now)
	if err != nil {
		return 0, false, apperrors.NewAppError(500, "failed to advance rollover watermark", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, false, err
	}
	return int(tag.RowsAffected()), false, nil
}
