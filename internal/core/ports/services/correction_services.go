package services

import (
	"context"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/floatops/float_ledger_app/internal/dto"
)

// CorrectionSvcFacade performs the controlled mutations of posted balance
// lines. Every mutation is paired with an audit entry in the same database
// transaction and followed by a best-effort notification to the affected
// supervisor.
type CorrectionSvcFacade interface {
	// ResetLine rewrites a balance line to a new non-negative value.
	ResetLine(ctx context.Context, actor domain.Actor, req dto.ResetLineRequest) (*dto.CorrectionResult, error)

	// DeleteLine zeroes a standard-channel line, or archives all matching
	// non-archived entries for a partner key (no dedicated account exists for
	// partner sub-ledgers).
	DeleteLine(ctx context.Context, actor domain.Actor, req dto.DeleteLineRequest) (*dto.CorrectionResult, error)
}
