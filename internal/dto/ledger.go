package dto

import (
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/floatops/float_ledger_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

// MovementRequest records a deposit or withdrawal. Exactly one of PartnerName
// (third-party sub-ledger) or Channel (the supervisor's own float) must be
// set. Amount is in major currency units; the monetary codec converts it at
// the boundary.
type MovementRequest struct {
	SupervisorID string              `json:"supervisorID"` // defaults to the acting supervisor
	PartnerName  *string             `json:"partnerName"`
	Channel      *domain.ChannelType `json:"channel"`
	Amount       decimal.Decimal     `json:"amount" binding:"required"`
	Description  string              `json:"description"`
}

// ChannelLineRequest records a start-of-day or end-of-day declaration for one
// of a supervisor's channels.
type ChannelLineRequest struct {
	SupervisorID string             `json:"supervisorID"`
	Channel      domain.ChannelType `json:"channel" binding:"required,oneof=CASH MOBILE_MONEY_A MOBILE_MONEY_B FLOAT_POOL"`
	Amount       decimal.Decimal    `json:"amount" binding:"required"`
	Description  string             `json:"description"`
}

// TransferRequest moves float between two supervisors on the same channel.
type TransferRequest struct {
	FromSupervisorID string             `json:"fromSupervisorID"`
	ToSupervisorID   string             `json:"toSupervisorID" binding:"required"`
	Channel          domain.ChannelType `json:"channel" binding:"required,oneof=CASH MOBILE_MONEY_A MOBILE_MONEY_B FLOAT_POOL"`
	Amount           decimal.Decimal    `json:"amount" binding:"required"`
	Description      string             `json:"description"`
}

// PoolAllocationRequest credits centrally allocated working capital to a
// supervisor's float pool channel. Admin only.
type PoolAllocationRequest struct {
	SupervisorID string          `json:"supervisorID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description"`
}

// LedgerQueryRequest is the filter set for browsing the transaction log.
type LedgerQueryRequest struct {
	Preset          string     `form:"range,default=today"`
	From            *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To              *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	SenderID        string     `form:"senderID"`
	ReceiverID      string     `form:"receiverID"`
	PartnerID       string     `form:"partnerID"`
	ParticipantName string     `form:"name"`     // case-insensitive substring
	Category        string     `form:"category"` // deposit|withdrawal|transfer|pool|audit
	Channel         string     `form:"channel"`
	IncludeArchived bool       `form:"includeArchived"`
	Limit           int        `form:"limit,default=50"`
	NextToken       *string    `form:"nextToken"`
}

// LedgerEntryResponse is the outward shape of a ledger entry. Amount is
// rendered in major units alongside the raw minor-unit value.
type LedgerEntryResponse struct {
	EntryID     string                   `json:"entryID"`
	Type        domain.EntryType         `json:"type"`
	Amount      string                   `json:"amount"`
	AmountMinor int64                    `json:"amountMinor"`
	SenderID    string                   `json:"senderID"`
	ReceiverID  string                   `json:"receiverID"`
	PartnerID   *string                  `json:"partnerID,omitempty"`
	AccountID   *string                  `json:"accountID,omitempty"`
	Description string                   `json:"description"`
	Metadata    *domain.AuditMetadata    `json:"metadata,omitempty"`
	Archived    bool                     `json:"archived"`
	ArchivedAt  *time.Time               `json:"archivedAt,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	Permissions *domain.EntryPermissions `json:"permissions,omitempty"`
}

// LedgerQueryResponse is one page of entries plus the restart token.
type LedgerQueryResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain entry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:     e.EntryID,
		Type:        e.Type,
		Amount:      money.Format(e.Amount),
		AmountMinor: e.Amount,
		SenderID:    e.SenderID,
		ReceiverID:  e.ReceiverID,
		PartnerID:   e.PartnerID,
		AccountID:   e.AccountID,
		Description: e.Description,
		Metadata:    e.Metadata,
		Archived:    e.Archived,
		ArchivedAt:  e.ArchivedAt,
		CreatedAt:   e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}
