package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, channel_type, start_of_day, end_of_day, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.UserID,
		&a.ChannelType,
		&a.StartOfDay,
		&a.EndOfDay,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// balanceColumn maps a line kind to its accounts column. Kinds are validated
// upstream; the switch keeps column names out of caller control.
func balanceColumn(kind domain.LineKind) (string, error) {
	switch kind {
	case domain.LineStartOfDay:
		return "start_of_day", nil
	case domain.LineEndOfDay:
		return "end_of_day", nil
	default:
		return "", apperrors.NewAppError(500, "unknown balance line kind "+string(kind), nil)
	}
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}
	return account, nil
}

// FindAccount retrieves the account for a (user, channel) pair.
func (r *PgxAccountRepository) FindAccount(ctx context.Context, userID string, channel domain.ChannelType) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND channel_type = $2;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, userID, channel))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account for user "+userID, err)
	}
	return account, nil
}

// ListAccountsByUser retrieves every account a user holds.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY channel_type;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for user "+userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// AggregateChannel sums start-of-day and end-of-day balances across all
// accounts on the given channel.
func (r *PgxAccountRepository) AggregateChannel(ctx context.Context, channel domain.ChannelType) (int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(start_of_day), 0), COALESCE(SUM(end_of_day), 0)
		FROM accounts
		WHERE channel_type = $1;
	`
	var startTotal, endTotal int64
	if err := r.Pool.QueryRow(ctx, query, channel).Scan(&startTotal, &endTotal); err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to aggregate channel "+string(channel), err)
	}
	return startTotal, endTotal, nil
}

// GetOrCreateAccount upserts the zero-initialized account for a (user, channel)
// pair. The (user_id, channel_type) uniqueness constraint makes this safe under
// concurrent calls; the no-op conflict update lets RETURNING yield the existing
// row.
func (r *PgxAccountRepository) GetOrCreateAccount(ctx context.Context, userID string, channel domain.ChannelType, actorID string, now time.Time) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, 0, 0, $4, $5, $4, $5)
		ON CONFLICT (user_id, channel_type) DO UPDATE SET user_id = accounts.user_id
		RETURNING ` + accountColumns + `;
	`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, uuid.NewString(), userID, channel, now, actorID))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert account for user "+userID, err)
	}
	return account, nil
}

// FindAccountForUpdate selects an account and locks its row for the duration of
// the surrounding transaction.
func (r *PgxAccountRepository) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	account, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock account "+accountID, err)
	}
	return account, nil
}

// SetBalanceInTx sets the start-of-day or end-of-day field to an absolute value.
func (r *PgxAccountRepository) SetBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, kind domain.LineKind, value int64, actorID string, now time.Time) error {
	column, err := balanceColumn(kind)
	if err != nil {
		return err
	}
	query := `UPDATE accounts SET ` + column + ` = $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query, accountID, value, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set balance for account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IncrementBalanceInTx adjusts the start-of-day or end-of-day field by a signed
// delta.
func (r *PgxAccountRepository) IncrementBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, kind domain.LineKind, delta int64, actorID string, now time.Time) error {
	column, err := balanceColumn(kind)
	if err != nil {
		return err
	}
	query := `UPDATE accounts SET ` + column + ` = ` + column + ` + $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query, accountID, delta, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust balance for account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
