package domain

import (
	"strings"
	"time"
)

// EntryType classifies a ledger entry. Amounts are stored as non-negative
// magnitudes; the direction of the movement is implied by the type.
type EntryType string

const (
	EntryDeposit        EntryType = "DEPOSIT"
	EntryWithdrawal     EntryType = "WITHDRAWAL"
	EntryStartOfDay     EntryType = "START_OF_DAY"
	EntryEndOfDay       EntryType = "END_OF_DAY"
	EntryTransferOut    EntryType = "TRANSFER_OUT"
	EntryTransferIn     EntryType = "TRANSFER_IN"
	EntryPoolAllocation EntryType = "POOL_ALLOCATION"
	// Audit types document manual balance changes outside the normal
	// deposit/withdrawal flow. They are written by the correction path only.
	EntryAuditCorrection EntryType = "AUDIT_CORRECTION"
	EntryAuditDeletion   EntryType = "AUDIT_DELETION"
)

// IsAudit reports whether the type is one of the audit-trail variants.
func (t EntryType) IsAudit() bool {
	return t == EntryAuditCorrection || t == EntryAuditDeletion
}

// EntryCategory is the coarse grouping used by query filters; a single
// category name expands to several concrete entry types.
type EntryCategory string

const (
	CategoryDeposit    EntryCategory = "deposit"
	CategoryWithdrawal EntryCategory = "withdrawal"
	CategoryTransfer   EntryCategory = "transfer"
	CategoryPool       EntryCategory = "pool"
	CategoryAudit      EntryCategory = "audit"
)

// ExpandCategory maps a category name (case-insensitive) to the entry types it
// covers. Unknown names return nil.
func ExpandCategory(name string) []EntryType {
	switch EntryCategory(strings.ToLower(name)) {
	case CategoryDeposit:
		return []EntryType{EntryDeposit, EntryStartOfDay}
	case CategoryWithdrawal:
		return []EntryType{EntryWithdrawal, EntryEndOfDay}
	case CategoryTransfer:
		return []EntryType{EntryTransferOut, EntryTransferIn}
	case CategoryPool:
		return []EntryType{EntryPoolAllocation}
	case CategoryAudit:
		return []EntryType{EntryAuditCorrection, EntryAuditDeletion}
	}
	return nil
}

// AuditKind tags the shape of an audit metadata payload.
type AuditKind string

const (
	AuditCorrection      AuditKind = "CORRECTION"       // balance field reset to a new value
	AuditSuppression     AuditKind = "SUPPRESSION"      // balance field zeroed by a delete
	AuditPartnerArchival AuditKind = "PARTNER_ARCHIVAL" // partner sub-ledger archived
)

// AuditMetadata is the structured payload attached to audit entries. Exactly
// one of the detail pointers is set, selected by Kind.
type AuditMetadata struct {
	Kind       AuditKind         `json:"kind"`
	ActorID    string            `json:"actorID"`
	Reason     string            `json:"reason,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Correction *CorrectionDetail `json:"correction,omitempty"`
	Archival   *ArchivalDetail   `json:"archival,omitempty"`
}

// CorrectionDetail records the before/after values of a balance reset or
// suppression. Key is a channel type or a "partner:<name>" key.
type CorrectionDetail struct {
	SupervisorID string   `json:"supervisorID"`
	Key          string   `json:"key"`
	LineKind     LineKind `json:"lineKind"`
	OldValue     int64    `json:"oldValue"`
	NewValue     int64    `json:"newValue"`
}

// ArchivalDetail records a partner sub-ledger archival: the partner selected,
// how many entries were archived and their summed magnitude.
type ArchivalDetail struct {
	SupervisorID string   `json:"supervisorID"`
	PartnerID    string   `json:"partnerID"`
	PartnerName  string   `json:"partnerName"`
	LineKind     LineKind `json:"lineKind"`
	EntryCount   int      `json:"entryCount"`
	TotalAmount  int64    `json:"totalAmount"`
}

// LedgerEntry is one line of the append-only transaction log. Entries are
// never physically deleted; corrections append new audit entries and partner
// lines are archived via the soft-delete marker.
type LedgerEntry struct {
	EntryID     string         `json:"entryID"` // Primary Key (UUID)
	Type        EntryType      `json:"type"`
	Amount      int64          `json:"amount"` // Non-negative magnitude, minor units
	SenderID    string         `json:"senderID"`
	ReceiverID  string         `json:"receiverID"`
	PartnerID   *string        `json:"partnerID,omitempty"`
	AccountID   *string        `json:"accountID,omitempty"` // Linked account, when channel-bound
	Description string         `json:"description"`
	Metadata    *AuditMetadata `json:"metadata,omitempty"`
	Archived    bool           `json:"archived"`
	ArchivedAt  *time.Time     `json:"archivedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// PartnerKeyPrefix marks dashboard/correction keys that address a partner
// sub-ledger instead of a channel.
const PartnerKeyPrefix = "partner:"

// PartnerKey builds the synthetic grouping key for a partner display name.
func PartnerKey(displayName string) string {
	return PartnerKeyPrefix + displayName
}

// ParsePartnerKey extracts the display name from a partner key; ok is false
// for channel keys.
func ParsePartnerKey(key string) (string, bool) {
	if !strings.HasPrefix(key, PartnerKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, PartnerKeyPrefix), true
}
