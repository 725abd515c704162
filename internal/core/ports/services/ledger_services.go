package services

import (
	"context"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/floatops/float_ledger_app/internal/dto"
)

// LedgerSvcFacade exposes the append-only transaction log operations.
type LedgerSvcFacade interface {
	// RecordDeposit appends a DEPOSIT against a partner sub-ledger or a
	// channel account. Channel deposits raise the account's end-of-day float.
	RecordDeposit(ctx context.Context, actor domain.Actor, req dto.MovementRequest) (*domain.LedgerEntry, error)

	// RecordWithdrawal appends a WITHDRAWAL; the channel form lowers the
	// account's end-of-day float.
	RecordWithdrawal(ctx context.Context, actor domain.Actor, req dto.MovementRequest) (*domain.LedgerEntry, error)

	// RecordStartOfDay declares a channel's opening balance: sets the account
	// field and appends the paired START_OF_DAY entry atomically.
	RecordStartOfDay(ctx context.Context, actor domain.Actor, req dto.ChannelLineRequest) (*domain.LedgerEntry, error)

	// RecordEndOfDay declares a channel's closing balance.
	RecordEndOfDay(ctx context.Context, actor domain.Actor, req dto.ChannelLineRequest) (*domain.LedgerEntry, error)

	// RecordTransfer moves float between two supervisors on one channel,
	// appending the TRANSFER_OUT/TRANSFER_IN pair atomically.
	RecordTransfer(ctx context.Context, actor domain.Actor, req dto.TransferRequest) ([]domain.LedgerEntry, error)

	// AllocatePool credits working capital to a supervisor's float pool.
	AllocatePool(ctx context.Context, actor domain.Actor, req dto.PoolAllocationRequest) (*domain.LedgerEntry, error)

	// QueryEntries browses the log with filters and token pagination; each
	// returned entry carries the viewer's edit/delete permissions.
	QueryEntries(ctx context.Context, actor domain.Actor, req dto.LedgerQueryRequest) (*dto.LedgerQueryResponse, error)

	// ArchiveEntry soft-deletes a single entry after the per-entry permission
	// table allows it.
	ArchiveEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) error
}

// PartnerResolverSvc disambiguates a partner display name for a supervisor.
// Names are not unique; the partner with the most recent matching transaction
// wins.
type PartnerResolverSvc interface {
	Resolve(ctx context.Context, supervisorID string, displayName string, types []domain.EntryType) (*domain.User, error)
}
