package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	"github.com/floatops/float_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for the transaction log.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const entryColumns = `entry_id, entry_type, amount, sender_id, receiver_id, partner_id, account_id, description, metadata, archived, archived_at, created_at`

// execer abstracts pool vs. transaction execution for entry inserts.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var metadata []byte
	err := row.Scan(
		&e.EntryID,
		&e.Type,
		&e.Amount,
		&e.SenderID,
		&e.ReceiverID,
		&e.PartnerID,
		&e.AccountID,
		&e.Description,
		&metadata,
		&e.Archived,
		&e.ArchivedAt,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		var m domain.AuditMetadata
		if err := json.Unmarshal(metadata, &m); err != nil {
			return nil, err
		}
		e.Metadata = &m
	}
	return &e, nil
}

func insertEntry(ctx context.Context, db execer, entry domain.LedgerEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.NewAppError(500, "failed to marshal audit metadata for entry "+entry.EntryID, err)
		}
	}
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := db.Exec(ctx, query,
		entry.EntryID,
		entry.Type,
		entry.Amount,
		entry.SenderID,
		entry.ReceiverID,
		entry.PartnerID,
		entry.AccountID,
		entry.Description,
		metadata,
		entry.Archived,
		entry.ArchivedAt,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+entry.EntryID, err)
	}
	return nil
}

func entryTypeStrings(types []domain.EntryType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	entries := []domain.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}
	return entries, nil
}

// FindEntryByID retrieves a single entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry "+entryID, err)
	}
	return entry, nil
}

// QueryEntries returns one page of entries matching the filter plus the token
// for the next page. Ordering is newest first with entry_id as tiebreaker so
// pagination never skips or repeats rows.
func (r *PgxLedgerRepository) QueryEntries(ctx context.Context, filter portsrepo.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT e.` + strings.ReplaceAll(entryColumns, ", ", ", e.") + ` FROM ledger_entries e`)

	joins := ""
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !filter.Range.IsAllTime() {
		conditions = append(conditions, "e.created_at >= "+arg(filter.Range.From))
		conditions = append(conditions, "e.created_at < "+arg(filter.Range.To))
	}
	if filter.SenderID != "" {
		conditions = append(conditions, "e.sender_id = "+arg(filter.SenderID))
	}
	if filter.ReceiverID != "" {
		conditions = append(conditions, "e.receiver_id = "+arg(filter.ReceiverID))
	}
	if filter.InvolvedID != "" {
		p := arg(filter.InvolvedID)
		conditions = append(conditions, "(e.sender_id = "+p+" OR e.receiver_id = "+p+")")
	}
	if filter.PartnerID != "" {
		conditions = append(conditions, "e.partner_id = "+arg(filter.PartnerID))
	}
	if filter.ParticipantName != "" {
		joins += ` LEFT JOIN users s ON s.user_id = e.sender_id LEFT JOIN users rcv ON rcv.user_id = e.receiver_id`
		p := arg("%" + strings.ToLower(filter.ParticipantName) + "%")
		conditions = append(conditions, "(lower(s.name) LIKE "+p+" OR lower(rcv.name) LIKE "+p+")")
	}
	if len(filter.Types) > 0 {
		conditions = append(conditions, "e.entry_type = ANY("+arg(entryTypeStrings(filter.Types))+")")
	}
	if filter.Channel != "" {
		joins += ` LEFT JOIN accounts a ON a.account_id = e.account_id`
		conditions = append(conditions, "a.channel_type = "+arg(filter.Channel))
	}
	if !filter.IncludeArchived {
		conditions = append(conditions, "e.archived = FALSE")
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", decodeErr)
		}
		conditions = append(conditions, "(e.created_at, e.entry_id) < ("+arg(lastCreatedAt)+", "+arg(lastEntryID)+")")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	sb.WriteString(joins)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	// Fetch one extra row to decide whether another page exists.
	sb.WriteString(" ORDER BY e.created_at DESC, e.entry_id DESC LIMIT " + arg(limit+1) + ";")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextToken = &token
	}
	return entries, nextToken, nil
}

// FindLatestRelevantEntry returns the most recent non-archived entry matching
// the recency query, or ErrNotFound when none exists.
func (r *PgxLedgerRepository) FindLatestRelevantEntry(ctx context.Context, q portsrepo.RecencyQuery) (*domain.LedgerEntry, error) {
	conditions := []string{"archived = FALSE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.AccountID != "" {
		conditions = append(conditions, "account_id = "+arg(q.AccountID))
	}
	if q.PartnerID != "" {
		conditions = append(conditions, "partner_id = "+arg(q.PartnerID))
	}
	if q.SenderID != "" {
		conditions = append(conditions, "sender_id = "+arg(q.SenderID))
	}
	if len(q.Types) > 0 {
		conditions = append(conditions, "entry_type = ANY("+arg(entryTypeStrings(q.Types))+")")
	}

	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, entry_id DESC LIMIT 1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest relevant entry", err)
	}
	return entry, nil
}

// ListEntriesForDashboard returns all non-archived entries in range where the
// supervisor is sender or receiver, oldest first.
func (r *PgxLedgerRepository) ListEntriesForDashboard(ctx context.Context, supervisorID string, rng domain.DateRange) ([]domain.LedgerEntry, error) {
	conditions := []string{"(sender_id = $1 OR receiver_id = $1)", "archived = FALSE"}
	args := []any{supervisorID}
	if !rng.IsAllTime() {
		args = append(args, rng.From, rng.To)
		conditions = append(conditions, "created_at >= $2", "created_at < $3")
	}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY created_at, entry_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query dashboard entries for "+supervisorID, err)
	}
	return collectEntries(rows)
}

// FindPartnerEntries returns the supervisor's entries against a partner,
// restricted to the given types.
func (r *PgxLedgerRepository) FindPartnerEntries(ctx context.Context, supervisorID string, partnerID string, types []domain.EntryType, includeArchived bool) ([]domain.LedgerEntry, error) {
	conditions := []string{"sender_id = $1", "partner_id = $2"}
	args := []any{supervisorID, partnerID}
	if len(types) > 0 {
		args = append(args, entryTypeStrings(types))
		conditions = append(conditions, "entry_type = ANY($3)")
	}
	if !includeArchived {
		conditions = append(conditions, "archived = FALSE")
	}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY created_at, entry_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query partner entries", err)
	}
	return collectEntries(rows)
}

// AccountOwnershipStats counts an account's entries for the ownership rule.
func (r *PgxLedgerRepository) AccountOwnershipStats(ctx context.Context, accountID string, actorID string) (*portsrepo.OwnershipStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE entry_type NOT IN ($2, $3)),
		       COUNT(*) FILTER (WHERE sender_id = $4)
		FROM ledger_entries
		WHERE account_id = $1 AND archived = FALSE;
	`
	var stats portsrepo.OwnershipStats
	err := r.Pool.QueryRow(ctx, query, accountID, domain.EntryAuditCorrection, domain.EntryAuditDeletion, actorID).
		Scan(&stats.Total, &stats.NonAudit, &stats.SentByActor)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute ownership stats for account "+accountID, err)
	}
	return &stats, nil
}

// FindLatestPartnerActivity returns, per partner user ID, the createdAt of the
// most recent non-archived entry a supervisor recorded against them.
func (r *PgxLedgerRepository) FindLatestPartnerActivity(ctx context.Context, supervisorID string, partnerIDs []string, types []domain.EntryType) (map[string]time.Time, error) {
	result := make(map[string]time.Time, len(partnerIDs))
	if len(partnerIDs) == 0 {
		return result, nil
	}
	conditions := []string{"sender_id = $1", "partner_id = ANY($2)", "archived = FALSE"}
	args := []any{supervisorID, partnerIDs}
	if len(types) > 0 {
		args = append(args, entryTypeStrings(types))
		conditions = append(conditions, "entry_type = ANY($3)")
	}
	query := `
		SELECT partner_id, MAX(created_at)
		FROM ledger_entries
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY partner_id;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query latest partner activity", err)
	}
	defer rows.Close()

	for rows.Next() {
		var partnerID string
		var latest time.Time
		if err := rows.Scan(&partnerID, &latest); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan partner activity row", err)
		}
		result[partnerID] = latest
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating partner activity rows", err)
	}
	return result, nil
}

// AppendEntry persists a standalone entry.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	return insertEntry(ctx, r.Pool, entry)
}

// AppendWithBalanceSet appends the entry and sets the linked account's balance
// field to an absolute value inside one transaction. The account row is locked
// first so concurrent corrections serialize on the row.
func (r *PgxLedgerRepository) AppendWithBalanceSet(ctx context.Context, entry domain.LedgerEntry, accountID string, kind domain.LineKind, value int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.accountRepo.FindAccountForUpdate(ctx, tx, accountID); err != nil {
		return err
	}
	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.accountRepo.SetBalanceInTx(ctx, tx, accountID, kind, value, entry.SenderID, entry.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AppendWithBalanceIncrement appends the entry and adjusts the linked account's
// balance field by a signed delta inside one transaction.
func (r *PgxLedgerRepository) AppendWithBalanceIncrement(ctx context.Context, entry domain.LedgerEntry, accountID string, kind domain.LineKind, delta int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.accountRepo.FindAccountForUpdate(ctx, tx, accountID); err != nil {
		return err
	}
	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.accountRepo.IncrementBalanceInTx(ctx, tx, accountID, kind, delta, entry.SenderID, entry.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AppendTransfer appends the out/in entry pair and moves amount between the two
// accounts' end-of-day balances, all in one transaction. Accounts are locked in
// a deterministic order to avoid deadlocks between crossing transfers.
func (r *PgxLedgerRepository) AppendTransfer(ctx context.Context, out domain.LedgerEntry, in domain.LedgerEntry, fromAccountID string, toAccountID string, amount int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockOrder := []string{fromAccountID, toAccountID}
	sort.Strings(lockOrder)
	for _, accountID := range lockOrder {
		if _, err := r.accountRepo.FindAccountForUpdate(ctx, tx, accountID); err != nil {
			return err
		}
	}

	if err := insertEntry(ctx, tx, out); err != nil {
		return err
	}
	if err := insertEntry(ctx, tx, in); err != nil {
		return err
	}
	if err := r.accountRepo.IncrementBalanceInTx(ctx, tx, fromAccountID, domain.LineEndOfDay, -amount, out.SenderID, out.CreatedAt); err != nil {
		return err
	}
	if err := r.accountRepo.IncrementBalanceInTx(ctx, tx, toAccountID, domain.LineEndOfDay, amount, in.SenderID, in.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

const archiveQuery = `
	UPDATE ledger_entries
	SET archived = TRUE, archived_at = $2, description = $3 || description
	WHERE entry_id = ANY($1) AND archived = FALSE;
`

// ArchiveEntry soft-deletes one entry, rewriting its description with the given
// prefix. Amounts are never altered.
func (r *PgxLedgerRepository) ArchiveEntry(ctx context.Context, entryID string, descriptionPrefix string, archivedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, archiveQuery, []string{entryID}, archivedAt, descriptionPrefix)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive ledger entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ArchiveEntriesWithAudit archives the given entries and appends the audit
// entry documenting the archival, atomically.
func (r *PgxLedgerRepository) ArchiveEntriesWithAudit(ctx context.Context, entryIDs []string, descriptionPrefix string, archivedAt time.Time, audit domain.LedgerEntry) error {
	if len(entryIDs) == 0 {
		return apperrors.ErrNotFound
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, archiveQuery, entryIDs, archivedAt, descriptionPrefix)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive ledger entries", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := insertEntry(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
