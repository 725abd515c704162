package services

import (
	"context"
	"fmt"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/middleware"
)

// dashboardService reconstructs supervisor and network positions from the
// account store and the non-archived ledger entries of a date range.
type dashboardService struct {
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	userRepo    portsrepo.UserReader
}

// NewDashboardService creates the aggregation service.
func NewDashboardService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, userRepo portsrepo.UserReader) portssvc.DashboardSvcFacade {
	return &dashboardService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// SupervisorCard builds the per-supervisor view: account balance fields keyed
// by channel, partner deposit/withdrawal sums keyed by "partner:<name>".
func (s *dashboardService) SupervisorCard(ctx context.Context, actor domain.Actor, supervisorID string, rng domain.DateRange) (*domain.SupervisorCard, error) {
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleSupervisor:
		if actor.UserID != supervisorID {
			return nil, apperrors.Forbidden("cannot view another supervisor's dashboard")
		}
	default:
		return nil, apperrors.Forbidden("role cannot view dashboards")
	}

	supervisor, err := s.userRepo.FindUserByID(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supervisor %s: %w", supervisorID, err)
	}
	if supervisor.Role != domain.RoleSupervisor {
		return nil, fmt.Errorf("%w: user %s is not a supervisor", apperrors.ErrValidation, supervisorID)
	}
	return s.buildCard(ctx, supervisor, rng)
}

func (s *dashboardService) buildCard(ctx context.Context, supervisor *domain.User, rng domain.DateRange) (*domain.SupervisorCard, error) {
	card := &domain.SupervisorCard{
		SupervisorID:   supervisor.UserID,
		SupervisorName: supervisor.Name,
		StartOfDay:     map[string]int64{},
		EndOfDay:       map[string]int64{},
		Range:          rng,
	}

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, supervisor.UserID)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		key := string(account.ChannelType)
		card.StartOfDay[key] = account.StartOfDay
		card.EndOfDay[key] = account.EndOfDay
	}

	entries, err := s.ledgerRepo.ListEntriesForDashboard(ctx, supervisor.UserID, rng)
	if err != nil {
		return nil, err
	}

	// Partner sub-ledger lines: DEPOSIT sums feed the start map, WITHDRAWAL
	// sums the end map, grouped under "partner:<name>" keys.
	partnerIDs := []string{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.PartnerID != nil && !seen[*entry.PartnerID] {
			seen[*entry.PartnerID] = true
			partnerIDs = append(partnerIDs, *entry.PartnerID)
		}
	}
	partners, err := s.userRepo.FindUsersByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	for _, entry := range entries {
		if entry.PartnerID == nil {
			continue
		}
		partner, ok := partners[*entry.PartnerID]
		key := domain.PartnerKey(partner.Name)
		if !ok {
			// A partner row deleted out from under its entries still groups
			// consistently, just under the raw ID.
			logger.Warn("Ledger entry references unknown partner", "partner_id", *entry.PartnerID)
			key = domain.PartnerKey(*entry.PartnerID)
		}
		switch entry.Type {
		case domain.EntryDeposit:
			card.StartOfDay[key] += entry.Amount
		case domain.EntryWithdrawal:
			card.EndOfDay[key] += entry.Amount
		}
	}

	for _, v := range card.StartOfDay {
		card.StartTotal += v
	}
	for _, v := range card.EndOfDay {
		card.EndTotal += v
	}
	card.Net = card.EndTotal - card.StartTotal
	return card, nil
}

// GlobalDashboard aggregates every active supervisor plus the float pool
// position. Admin only.
func (s *dashboardService) GlobalDashboard(ctx context.Context, actor domain.Actor, rng domain.DateRange) (*domain.GlobalDashboard, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can view the global dashboard")
	}

	supervisors, err := s.userRepo.ListSupervisors(ctx, true)
	if err != nil {
		return nil, err
	}

	global := &domain.GlobalDashboard{
		Cards: make([]domain.SupervisorCard, 0, len(supervisors)),
		Range: rng,
	}
	for i := range supervisors {
		card, err := s.buildCard(ctx, &supervisors[i], rng)
		if err != nil {
			return nil, fmt.Errorf("failed to build card for supervisor %s: %w", supervisors[i].UserID, err)
		}
		global.Cards = append(global.Cards, *card)
		global.StartTotal += card.StartTotal
		global.EndTotal += card.EndTotal
	}
	global.Net = global.EndTotal - global.StartTotal

	global.FloatPoolStart, global.FloatPoolNow, err = s.accountRepo.AggregateChannel(ctx, domain.ChannelFloatPool)
	if err != nil {
		return nil, err
	}
	return global, nil
}
