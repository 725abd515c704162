package repositories

import (
	"context"
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// LedgerFilter describes one page of a filtered ledger query. Results are
// ordered by (created_at DESC, entry_id DESC); NextToken restarts the
// sequence from where the previous page stopped.
type LedgerFilter struct {
	Range           domain.DateRange
	SenderID        string // exact id filter, empty = any
	ReceiverID      string
	InvolvedID      string // matches sender OR receiver; used to scope non-admin queries
	PartnerID       string
	ParticipantName string // case-insensitive substring on sender/receiver display names
	Types           []domain.EntryType
	Channel         domain.ChannelType // filters via the linked account, empty = any
	IncludeArchived bool
	Limit           int
	NextToken       *string
}

// RecencyQuery locates the most recent non-archived entry relevant to a
// correction target: same channel account or same partner, matching the
// operation direction (the entry types the targeted line kind maps to).
type RecencyQuery struct {
	AccountID string // set for standard-channel targets
	PartnerID string // set for partner targets
	SenderID  string // scopes partner targets to one supervisor's entries
	Types     []domain.EntryType
}

// OwnershipStats summarizes an account's ledger history for the permission
// engine's ownership rule.
type OwnershipStats struct {
	Total       int // all non-archived entries against the account
	NonAudit    int // entries that are not audit entries
	SentByActor int // non-archived entries the candidate actor sent
}

// LedgerReader defines read operations over the append-only transaction log.
type LedgerReader interface {
	// FindEntryByID retrieves a single entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// QueryEntries returns one page of entries matching the filter plus the
	// token for the next page (nil when exhausted).
	QueryEntries(ctx context.Context, filter LedgerFilter) ([]domain.LedgerEntry, *string, error)

	// FindLatestRelevantEntry returns the most recent non-archived entry
	// matching the recency query, or ErrNotFound when none exists.
	FindLatestRelevantEntry(ctx context.Context, q RecencyQuery) (*domain.LedgerEntry, error)

	// ListEntriesForDashboard returns all non-archived entries in range where
	// the supervisor is sender or receiver, oldest first.
	ListEntriesForDashboard(ctx context.Context, supervisorID string, rng domain.DateRange) ([]domain.LedgerEntry, error)

	// FindPartnerEntries returns the supervisor's entries against a partner,
	// restricted to the given types.
	FindPartnerEntries(ctx context.Context, supervisorID string, partnerID string, types []domain.EntryType, includeArchived bool) ([]domain.LedgerEntry, error)

	// AccountOwnershipStats counts an account's entries for the ownership rule.
	AccountOwnershipStats(ctx context.Context, accountID string, actorID string) (*OwnershipStats, error)

	// FindLatestPartnerActivity returns, per partner user ID, the createdAt of
	// the most recent non-archived entry a supervisor recorded against them.
	// Used to disambiguate partners sharing a display name.
	FindLatestPartnerActivity(ctx context.Context, supervisorID string, partnerIDs []string, types []domain.EntryType) (map[string]time.Time, error)
}

// LedgerWriter defines the append and archive operations. Methods that pair a
// ledger append with an account mutation execute both inside one database
// transaction; a request never observes a balance without its audit trail.
type LedgerWriter interface {
	// AppendEntry persists a standalone entry (partner deposits/withdrawals).
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error

	// AppendWithBalanceSet appends the entry and sets the linked account's
	// balance field to an absolute value, atomically.
	AppendWithBalanceSet(ctx context.Context, entry domain.LedgerEntry, accountID string, kind domain.LineKind, value int64) error

	// AppendWithBalanceIncrement appends the entry and adjusts the linked
	// account's balance field by a signed delta, atomically.
	AppendWithBalanceIncrement(ctx context.Context, entry domain.LedgerEntry, accountID string, kind domain.LineKind, delta int64) error

	// AppendTransfer appends the out/in entry pair and moves amount between
	// the two accounts' end-of-day balances, all in one transaction.
	AppendTransfer(ctx context.Context, out domain.LedgerEntry, in domain.LedgerEntry, fromAccountID string, toAccountID string, amount int64) error

	// ArchiveEntry soft-deletes one entry, rewriting its description with the
	// given prefix. Amount fields are never altered.
	ArchiveEntry(ctx context.Context, entryID string, descriptionPrefix string, archivedAt time.Time) error

	// ArchiveEntriesWithAudit archives the given entries and appends the audit
	// entry documenting the archival, atomically.
	ArchiveEntriesWithAudit(ctx context.Context, entryIDs []string, descriptionPrefix string, archivedAt time.Time, audit domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
