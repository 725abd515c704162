package services

import (
	"context"
	"fmt"
	"time"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/middleware"
)

// partnerResolver disambiguates partner display names. Names are not unique;
// when several partners share one, the partner the supervisor most recently
// transacted with (in the requested direction) wins, so a correction aimed at
// "Amadou" lands on the Amadou whose ledger actually has matching entries.
type partnerResolver struct {
	userRepo   portsrepo.UserReader
	ledgerRepo portsrepo.LedgerReader
}

// NewPartnerResolver creates the name resolution service.
func NewPartnerResolver(userRepo portsrepo.UserReader, ledgerRepo portsrepo.LedgerReader) portssvc.PartnerResolverSvc {
	return &partnerResolver{userRepo: userRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.PartnerResolverSvc = (*partnerResolver)(nil)

// Resolve picks the partner user for a display name. A single match wins
// outright; multiple matches are ranked by the supervisor's latest activity
// against each. Ambiguity with no activity at all is a conflict the caller
// must resolve by ID.
func (s *partnerResolver) Resolve(ctx context.Context, supervisorID string, displayName string, types []domain.EntryType) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	candidates, err := s.userRepo.FindPartnersByName(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up partner %q: %w", displayName, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no partner named %q", apperrors.ErrNotFound, displayName)
	}
	if len(candidates) == 1 {
		return &candidates[0], nil
	}

	partnerIDs := make([]string, len(candidates))
	byID := make(map[string]*domain.User, len(candidates))
	for i := range candidates {
		partnerIDs[i] = candidates[i].UserID
		byID[candidates[i].UserID] = &candidates[i]
	}

	activity, err := s.ledgerRepo.FindLatestPartnerActivity(ctx, supervisorID, partnerIDs, types)
	if err != nil {
		return nil, fmt.Errorf("failed to rank partners named %q: %w", displayName, err)
	}

	var chosen *domain.User
	var chosenAt time.Time
	for id, latest := range activity {
		if chosen == nil || latest.After(chosenAt) {
			chosen = byID[id]
			chosenAt = latest
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %d partners named %q and none with matching transactions", apperrors.ErrConflict, len(candidates), displayName)
	}

	logger.Debug("Resolved ambiguous partner name",
		"partner_name", displayName,
		"candidates", len(candidates),
		"chosen_partner_id", chosen.UserID,
	)
	return chosen, nil
}
