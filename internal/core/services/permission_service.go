package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
)

// Denial reasons returned by the correction rules. Callers surface these
// verbatim so the user always learns why a correction was blocked.
const (
	ReasonRoleDenied    = "role cannot perform corrections"
	ReasonNotOwnData    = "cannot correct another supervisor's data"
	ReasonFloatPool     = "float pool lines are centrally managed and cannot be corrected"
	ReasonTooRecent     = "too recent, avoid accidental edits"
	ReasonOutsideWindow = "outside correction window"
	ReasonNoOwnership   = "no transactions of your own against this line"
)

// permissionService evaluates the ordered correction rules and the per-entry
// role-by-age table.
type permissionService struct {
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
	resolver    portssvc.PartnerResolverSvc
	now         func() time.Time
}

// NewPermissionService creates the permission engine. The clock is injectable
// for the window tests.
func NewPermissionService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, resolver portssvc.PartnerResolverSvc, now func() time.Time) portssvc.PermissionSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &permissionService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		resolver:    resolver,
		now:         now,
	}
}

var _ portssvc.PermissionSvcFacade = (*permissionService)(nil)

// directionTypes maps the targeted line kind to the entry types that count as
// "matching the operation direction" for recency and ownership.
func directionTypes(kind domain.LineKind) []domain.EntryType {
	if kind == domain.LineStartOfDay {
		return domain.ExpandCategory(string(domain.CategoryDeposit))
	}
	return domain.ExpandCategory(string(domain.CategoryWithdrawal))
}

func denied(reason string) *domain.CorrectionDecision {
	return &domain.CorrectionDecision{Allowed: false, Reason: reason}
}

// CheckCorrection evaluates the correction rules in order; the first failing
// rule wins. A denial is a decision, not an error.
func (s *permissionService) CheckCorrection(ctx context.Context, actor domain.Actor, target domain.CorrectionTarget) (*domain.CorrectionDecision, error) {
	if !target.LineKind.IsValid() {
		return nil, fmt.Errorf("%w: invalid line kind %q", apperrors.ErrValidation, target.LineKind)
	}
	channel, isChannel := target.Channel()
	if isChannel && !channel.IsValid() {
		return nil, fmt.Errorf("%w: invalid correction key %q", apperrors.ErrValidation, target.Key)
	}

	// Rule 1: admins are always allowed, with default-granted ownership.
	if actor.Role == domain.RoleAdmin {
		return &domain.CorrectionDecision{Allowed: true}, nil
	}
	// Rule 2: only supervisors beyond this point.
	if actor.Role != domain.RoleSupervisor {
		return denied(ReasonRoleDenied), nil
	}
	// Rule 3: supervisors only touch their own lines.
	if actor.UserID != target.SupervisorID {
		return denied(ReasonNotOwnData), nil
	}
	// Rule 4: the float pool is centrally managed.
	if isChannel && channel == domain.ChannelFloatPool {
		return denied(ReasonFloatPool), nil
	}

	types := directionTypes(target.LineKind)
	if isChannel {
		return s.checkChannelTarget(ctx, actor, target.SupervisorID, channel, types)
	}
	name, _ := domain.ParsePartnerKey(target.Key)
	return s.checkPartnerTarget(ctx, actor, target.SupervisorID, name, types)
}

// checkRecency applies rule 5 to the latest relevant entry. A missing entry
// short-circuits to allowed with default-granted ownership.
func (s *permissionService) checkRecency(latest *domain.LedgerEntry) *domain.CorrectionDecision {
	age := s.now().Sub(latest.CreatedAt)
	if age < domain.MinCorrectionAge {
		return denied(ReasonTooRecent)
	}
	if age > domain.MaxCorrectionAge {
		return denied(ReasonOutsideWindow)
	}
	return nil
}

func (s *permissionService) checkChannelTarget(ctx context.Context, actor domain.Actor, supervisorID string, channel domain.ChannelType, types []domain.EntryType) (*domain.CorrectionDecision, error) {
	account, err := s.accountRepo.FindAccount(ctx, supervisorID, channel)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// No account means nothing to protect; the reset path upserts it.
			return &domain.CorrectionDecision{Allowed: true}, nil
		}
		return nil, err
	}

	latest, err := s.ledgerRepo.FindLatestRelevantEntry(ctx, portsrepo.RecencyQuery{
		AccountID: account.AccountID,
		Types:     types,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.CorrectionDecision{Allowed: true}, nil
		}
		return nil, err
	}
	if decision := s.checkRecency(latest); decision != nil {
		return decision, nil
	}

	// Rule 6, standard channels: own at least one entry against the account,
	// or the account was never organically populated.
	stats, err := s.ledgerRepo.AccountOwnershipStats(ctx, account.AccountID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if stats.SentByActor > 0 {
		return &domain.CorrectionDecision{Allowed: true, OrganicOwnership: true}, nil
	}
	if stats.Total == 0 || stats.NonAudit == 0 {
		return &domain.CorrectionDecision{Allowed: true}, nil
	}
	return denied(ReasonNoOwnership), nil
}

func (s *permissionService) checkPartnerTarget(ctx context.Context, actor domain.Actor, supervisorID string, partnerName string, types []domain.EntryType) (*domain.CorrectionDecision, error) {
	partner, err := s.resolver.Resolve(ctx, supervisorID, partnerName, types)
	if err != nil {
		return nil, err
	}

	latest, err := s.ledgerRepo.FindLatestRelevantEntry(ctx, portsrepo.RecencyQuery{
		PartnerID: partner.UserID,
		SenderID:  supervisorID,
		Types:     types,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.CorrectionDecision{Allowed: true}, nil
		}
		return nil, err
	}
	if decision := s.checkRecency(latest); decision != nil {
		return decision, nil
	}

	// Rule 6, partner targets: the recency query is already scoped to entries
	// the supervisor sent, so a hit doubles as proof of organic ownership.
	return &domain.CorrectionDecision{Allowed: true, OrganicOwnership: true}, nil
}

// entryRule is one row of the role-by-age table governing edits to a single
// already-posted ledger entry.
type entryRule struct {
	modifyTypes  map[domain.EntryType]bool
	deleteTypes  map[domain.EntryType]bool
	maxAge       time.Duration
	receiverOnly bool
}

var balanceEntryTypes = map[domain.EntryType]bool{
	domain.EntryDeposit:    true,
	domain.EntryWithdrawal: true,
	domain.EntryStartOfDay: true,
	domain.EntryEndOfDay:   true,
}

var movementEntryTypes = map[domain.EntryType]bool{
	domain.EntryDeposit:    true,
	domain.EntryWithdrawal: true,
}

var entryRules = map[domain.Role]entryRule{
	domain.RoleAdmin: {
		modifyTypes: balanceEntryTypes,
		deleteTypes: balanceEntryTypes,
		maxAge:      domain.AdminEntryEditWindow,
	},
	domain.RoleSupervisor: {
		modifyTypes:  balanceEntryTypes,
		deleteTypes:  movementEntryTypes,
		maxAge:       domain.SupervisorEntryEditWindow,
		receiverOnly: true,
	},
}

// EntryPermissions applies the role-by-age table to one entry. Archived and
// audit entries are immutable for everyone.
func (s *permissionService) EntryPermissions(actor domain.Actor, entry *domain.LedgerEntry, now time.Time) domain.EntryPermissions {
	rule, ok := entryRules[actor.Role]
	if !ok {
		return domain.EntryPermissions{}
	}
	if entry.Archived || entry.Type.IsAudit() {
		return domain.EntryPermissions{}
	}
	if rule.receiverOnly && entry.ReceiverID != actor.UserID {
		return domain.EntryPermissions{}
	}
	if now.Sub(entry.CreatedAt) > rule.maxAge {
		return domain.EntryPermissions{}
	}
	return domain.EntryPermissions{
		CanModify: rule.modifyTypes[entry.Type],
		CanDelete: rule.deleteTypes[entry.Type],
	}
}
