package services

import (
	"context"
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// PermissionSvcFacade decides whether ledger mutations are allowed.
type PermissionSvcFacade interface {
	// CheckCorrection evaluates the ordered correction rules (role, target,
	// float pool, recency window, ownership) for a reset/delete request.
	// A denial is returned as an allowed=false decision with the specific
	// reason, not as an error; errors are infrastructure failures only.
	CheckCorrection(ctx context.Context, actor domain.Actor, target domain.CorrectionTarget) (*domain.CorrectionDecision, error)

	// EntryPermissions applies the role-by-age table to a single entry shown
	// to a viewer.
	EntryPermissions(actor domain.Actor, entry *domain.LedgerEntry, now time.Time) domain.EntryPermissions
}
