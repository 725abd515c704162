package repositories

import (
	"context"
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccount retrieves the account for a (user, channel) pair.
	FindAccount(ctx context.Context, userID string, channel domain.ChannelType) (*domain.Account, error)

	// ListAccountsByUser retrieves every account a user holds.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// AggregateChannel sums start-of-day and end-of-day balances across all
	// accounts on the given channel.
	AggregateChannel(ctx context.Context, channel domain.ChannelType) (startTotal int64, endTotal int64, err error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// GetOrCreateAccount upserts the zero-initialized account for a (user,
	// channel) pair. Idempotent; the uniqueness constraint guarantees a single
	// row per pair.
	GetOrCreateAccount(ctx context.Context, userID string, channel domain.ChannelType, actorID string, now time.Time) (*domain.Account, error)
}

// AccountTransactionSupport defines the balance mutations that must run inside
// the same database transaction as their paired ledger append.
type AccountTransactionSupport interface {
	// FindAccountForUpdate selects an account and locks its row for update.
	FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// SetBalanceInTx sets the start-of-day or end-of-day field to an absolute value.
	SetBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, kind domain.LineKind, value int64, actorID string, now time.Time) error

	// IncrementBalanceInTx adjusts the start-of-day or end-of-day field by a
	// signed delta.
	IncrementBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, kind domain.LineKind, delta int64, actorID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
