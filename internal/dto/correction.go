package dto

import (
	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ResetLineRequest rewrites a balance line to a new value. Key is either a
// channel type or a "partner:<name>" key.
type ResetLineRequest struct {
	SupervisorID string          `json:"supervisorID" binding:"required"`
	Key          string          `json:"key" binding:"required"`
	LineKind     domain.LineKind `json:"lineKind" binding:"required,oneof=START_OF_DAY END_OF_DAY"`
	NewValue     decimal.Decimal `json:"newValue"`
	Reason       string          `json:"reason"`
}

// DeleteLineRequest zeroes a balance line (standard channels) or archives a
// partner sub-ledger (partner keys).
type DeleteLineRequest struct {
	SupervisorID string          `json:"supervisorID" binding:"required"`
	Key          string          `json:"key" binding:"required"`
	LineKind     domain.LineKind `json:"lineKind" binding:"required,oneof=START_OF_DAY END_OF_DAY"`
	Reason       string          `json:"reason"`
}

// CorrectionResult reports the outcome of a reset or delete, including the
// audit entry that now documents it.
type CorrectionResult struct {
	SupervisorID     string          `json:"supervisorID"`
	Key              string          `json:"key"`
	LineKind         domain.LineKind `json:"lineKind"`
	OldValue         int64           `json:"oldValue"`
	NewValue         int64           `json:"newValue"`
	ArchivedEntries  int             `json:"archivedEntries,omitempty"`
	AuditEntryID     string          `json:"auditEntryID"`
	OrganicOwnership bool            `json:"organicOwnership"`
}
