package services

import (
	"context"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// DashboardSvcFacade reconstructs supervisor and network positions from the
// account store and the ledger.
type DashboardSvcFacade interface {
	// SupervisorCard builds the per-supervisor view for a date range.
	SupervisorCard(ctx context.Context, actor domain.Actor, supervisorID string, rng domain.DateRange) (*domain.SupervisorCard, error)

	// GlobalDashboard aggregates every active supervisor plus the float pool
	// position. Admin only.
	GlobalDashboard(ctx context.Context, actor domain.Actor, rng domain.DateRange) (*domain.GlobalDashboard, error)
}
