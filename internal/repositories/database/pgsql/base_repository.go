package pgsql

import (
	"context"
	"errors"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository carries the shared connection pool and the transaction
// helpers the pgsql repositories build on. Balance mutations always run
// through these so the paired ledger append commits or rolls back with them.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin opens a transaction on the pool.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "could not open database transaction", err)
	}
	return tx, nil
}

// Commit finishes the transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "could not commit database transaction", err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to defer past a successful commit;
// rolling back an already-closed transaction is not an error.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "could not roll back database transaction", err)
	}
	return nil
}
