package pgsql

import (
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool, accountRepo)
	rolloverRepo := newPgxRolloverRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:     userRepo,
		AccountRepo:  accountRepo,
		LedgerRepo:   ledgerRepo,
		RolloverRepo: rolloverRepo,
	}
}
