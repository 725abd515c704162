package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/dto"
	"github.com/floatops/float_ledger_app/internal/middleware"
	"github.com/floatops/float_ledger_app/internal/utils/money"
)

// recordableTypes lists, per role, the entry types a caller may append through
// the record operations. Audit types are never recordable directly; they are
// written by the correction path only.
var recordableTypes = map[domain.Role]map[domain.EntryType]bool{
	domain.RoleAdmin: {
		domain.EntryDeposit:        true,
		domain.EntryWithdrawal:     true,
		domain.EntryStartOfDay:     true,
		domain.EntryEndOfDay:       true,
		domain.EntryTransferOut:    true,
		domain.EntryTransferIn:     true,
		domain.EntryPoolAllocation: true,
	},
	domain.RoleSupervisor: {
		domain.EntryDeposit:     true,
		domain.EntryWithdrawal:  true,
		domain.EntryStartOfDay:  true,
		domain.EntryEndOfDay:    true,
		domain.EntryTransferOut: true,
		domain.EntryTransferIn:  true,
	},
}

// ledgerService provides the append-only transaction log operations.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserReader
	resolver    portssvc.PartnerResolverSvc
	permission  portssvc.PermissionSvcFacade
	notifier    portssvc.Notifier
	now         func() time.Time
}

// NewLedgerService creates the ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, userRepo portsrepo.UserReader, resolver portssvc.PartnerResolverSvc, permission portssvc.PermissionSvcFacade, notifier portssvc.Notifier, now func() time.Time) portssvc.LedgerSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		resolver:    resolver,
		permission:  permission,
		notifier:    notifier,
		now:         now,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// checkRecordable rejects entry types the actor's role may not append.
func checkRecordable(actor domain.Actor, entryType domain.EntryType) error {
	if !recordableTypes[actor.Role][entryType] {
		return apperrors.Forbidden(fmt.Sprintf("role %s cannot record %s entries", actor.Role, entryType))
	}
	return nil
}

// resolveSupervisor returns the supervisor a record operation targets. An
// empty requested ID defaults to the actor; supervisors may only record
// against themselves.
func (s *ledgerService) resolveSupervisor(ctx context.Context, actor domain.Actor, requestedID string) (*domain.User, error) {
	supervisorID := requestedID
	if supervisorID == "" {
		supervisorID = actor.UserID
	}
	if actor.Role == domain.RoleSupervisor && supervisorID != actor.UserID {
		return nil, apperrors.Forbidden("cannot record entries for another supervisor")
	}

	supervisor, err := s.userRepo.FindUserByID(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supervisor %s: %w", supervisorID, err)
	}
	if supervisor.Role != domain.RoleSupervisor {
		return nil, fmt.Errorf("%w: user %s is not a supervisor", apperrors.ErrValidation, supervisorID)
	}
	return supervisor, nil
}

// notify sends a best-effort notification; failures are logged and swallowed.
func (s *ledgerService) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to send notification",
			"user_id", n.UserID,
			"category", string(n.Category),
			"error", err,
		)
	}
}

// RecordDeposit appends a DEPOSIT entry.
func (s *ledgerService) RecordDeposit(ctx context.Context, actor domain.Actor, req dto.MovementRequest) (*domain.LedgerEntry, error) {
	return s.recordMovement(ctx, actor, req, domain.EntryDeposit)
}

// RecordWithdrawal appends a WITHDRAWAL entry.
func (s *ledgerService) RecordWithdrawal(ctx context.Context, actor domain.Actor, req dto.MovementRequest) (*domain.LedgerEntry, error) {
	return s.recordMovement(ctx, actor, req, domain.EntryWithdrawal)
}

func (s *ledgerService) recordMovement(ctx context.Context, actor domain.Actor, req dto.MovementRequest, entryType domain.EntryType) (*domain.LedgerEntry, error) {
	if err := checkRecordable(actor, entryType); err != nil {
		return nil, err
	}
	amount := money.ToMinorUnits(req.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if (req.PartnerName == nil) == (req.Channel == nil) {
		return nil, fmt.Errorf("%w: exactly one of partnerName or channel must be set", apperrors.ErrValidation)
	}

	supervisor, err := s.resolveSupervisor(ctx, actor, req.SupervisorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Type:        entryType,
		Amount:      amount,
		SenderID:    supervisor.UserID,
		ReceiverID:  supervisor.UserID,
		Description: req.Description,
		CreatedAt:   now,
	}

	if req.PartnerName != nil {
		// Partner sub-ledger movement: no account is touched, the dashboard
		// reconstructs the partner position from these entries.
		partner, err := s.resolver.Resolve(ctx, supervisor.UserID, *req.PartnerName, []domain.EntryType{entryType})
		if err != nil {
			return nil, err
		}
		entry.ReceiverID = partner.UserID
		entry.PartnerID = &partner.UserID
		if err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
			return nil, err
		}
	} else {
		if !req.Channel.IsValid() {
			return nil, fmt.Errorf("%w: invalid channel %q", apperrors.ErrValidation, *req.Channel)
		}
		account, err := s.accountRepo.GetOrCreateAccount(ctx, supervisor.UserID, *req.Channel, actor.UserID, now)
		if err != nil {
			return nil, err
		}
		entry.AccountID = &account.AccountID
		delta := amount
		if entryType == domain.EntryWithdrawal {
			delta = -amount
		}
		if err := s.ledgerRepo.AppendWithBalanceIncrement(ctx, entry, account.AccountID, domain.LineEndOfDay, delta); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, domain.Notification{
		UserID:   supervisor.UserID,
		Title:    "Transaction recorded",
		Message:  fmt.Sprintf("%s of %s recorded", entry.Type, money.Format(entry.Amount)),
		Category: domain.NotifyTransaction,
	})
	return &entry, nil
}

// RecordStartOfDay declares a channel's opening balance.
func (s *ledgerService) RecordStartOfDay(ctx context.Context, actor domain.Actor, req dto.ChannelLineRequest) (*domain.LedgerEntry, error) {
	return s.recordChannelLine(ctx, actor, req, domain.EntryStartOfDay, domain.LineStartOfDay)
}

// RecordEndOfDay declares a channel's closing balance.
func (s *ledgerService) RecordEndOfDay(ctx context.Context, actor domain.Actor, req dto.ChannelLineRequest) (*domain.LedgerEntry, error) {
	return s.recordChannelLine(ctx, actor, req, domain.EntryEndOfDay, domain.LineEndOfDay)
}

func (s *ledgerService) recordChannelLine(ctx context.Context, actor domain.Actor, req dto.ChannelLineRequest, entryType domain.EntryType, kind domain.LineKind) (*domain.LedgerEntry, error) {
	if err := checkRecordable(actor, entryType); err != nil {
		return nil, err
	}
	amount := money.ToMinorUnits(req.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !req.Channel.IsValid() {
		return nil, fmt.Errorf("%w: invalid channel %q", apperrors.ErrValidation, req.Channel)
	}

	supervisor, err := s.resolveSupervisor(ctx, actor, req.SupervisorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account, err := s.accountRepo.GetOrCreateAccount(ctx, supervisor.UserID, req.Channel, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Type:        entryType,
		Amount:      amount,
		SenderID:    actor.UserID,
		ReceiverID:  supervisor.UserID,
		AccountID:   &account.AccountID,
		Description: req.Description,
		CreatedAt:   now,
	}
	if err := s.ledgerRepo.AppendWithBalanceSet(ctx, entry, account.AccountID, kind, amount); err != nil {
		return nil, err
	}

	if actor.UserID != supervisor.UserID {
		s.notify(ctx, domain.Notification{
			UserID:   supervisor.UserID,
			Title:    "Balance line posted",
			Message:  fmt.Sprintf("%s on %s set to %s", entryType, req.Channel, money.Format(amount)),
			Category: domain.NotifyTransaction,
		})
	}
	return &entry, nil
}

// RecordTransfer moves float between two supervisors on one channel.
func (s *ledgerService) RecordTransfer(ctx context.Context, actor domain.Actor, req dto.TransferRequest) ([]domain.LedgerEntry, error) {
	if err := checkRecordable(actor, domain.EntryTransferOut); err != nil {
		return nil, err
	}
	amount := money.ToMinorUnits(req.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !req.Channel.IsValid() {
		return nil, fmt.Errorf("%w: invalid channel %q", apperrors.ErrValidation, req.Channel)
	}

	from, err := s.resolveSupervisor(ctx, actor, req.FromSupervisorID)
	if err != nil {
		return nil, err
	}
	if req.ToSupervisorID == from.UserID {
		return nil, fmt.Errorf("%w: cannot transfer to the same supervisor", apperrors.ErrValidation)
	}
	to, err := s.userRepo.FindUserByID(ctx, req.ToSupervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receiving supervisor %s: %w", req.ToSupervisorID, err)
	}
	if to.Role != domain.RoleSupervisor {
		return nil, fmt.Errorf("%w: user %s is not a supervisor", apperrors.ErrValidation, to.UserID)
	}

	now := s.now()
	fromAccount, err := s.accountRepo.GetOrCreateAccount(ctx, from.UserID, req.Channel, actor.UserID, now)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.accountRepo.GetOrCreateAccount(ctx, to.UserID, req.Channel, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	out := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Type:        domain.EntryTransferOut,
		Amount:      amount,
		SenderID:    from.UserID,
		ReceiverID:  to.UserID,
		AccountID:   &fromAccount.AccountID,
		Description: req.Description,
		CreatedAt:   now,
	}
	in := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Type:        domain.EntryTransferIn,
		Amount:      amount,
		SenderID:    from.UserID,
		ReceiverID:  to.UserID,
		AccountID:   &toAccount.AccountID,
		Description: req.Description,
		CreatedAt:   now,
	}
	if err := s.ledgerRepo.AppendTransfer(ctx, out, in, fromAccount.AccountID, toAccount.AccountID, amount); err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{
		UserID:   to.UserID,
		Title:    "Float transfer received",
		Message:  fmt.Sprintf("%s received on %s from %s", money.Format(amount), req.Channel, from.Name),
		Category: domain.NotifyTransaction,
	})
	return []domain.LedgerEntry{out, in}, nil
}

// AllocatePool credits centrally allocated working capital to a supervisor's
// float pool opening balance. Admin only.
func (s *ledgerService) AllocatePool(ctx context.Context, actor domain.Actor, req dto.PoolAllocationRequest) (*domain.LedgerEntry, error) {
	if err := checkRecordable(actor, domain.EntryPoolAllocation); err != nil {
		return nil, err
	}
	amount := money.ToMinorUnits(req.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	supervisor, err := s.resolveSupervisor(ctx, actor, req.SupervisorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account, err := s.accountRepo.GetOrCreateAccount(ctx, supervisor.UserID, domain.ChannelFloatPool, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Type:        domain.EntryPoolAllocation,
		Amount:      amount,
		SenderID:    actor.UserID,
		ReceiverID:  supervisor.UserID,
		AccountID:   &account.AccountID,
		Description: req.Description,
		CreatedAt:   now,
	}
	if err := s.ledgerRepo.AppendWithBalanceIncrement(ctx, entry, account.AccountID, domain.LineStartOfDay, amount); err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{
		UserID:   supervisor.UserID,
		Title:    "Float pool allocation",
		Message:  fmt.Sprintf("%s allocated to your float pool", money.Format(amount)),
		Category: domain.NotifyTransaction,
	})
	return &entry, nil
}

// QueryEntries browses the log with filters and token pagination. Non-admin
// viewers are scoped to their own entries; each returned entry carries the
// viewer's edit/delete permissions.
func (s *ledgerService) QueryEntries(ctx context.Context, actor domain.Actor, req dto.LedgerQueryRequest) (*dto.LedgerQueryResponse, error) {
	now := s.now()
	rng, err := domain.ResolveDateRange(req.Preset, req.From, req.To, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	filter := portsrepo.LedgerFilter{
		Range:           rng,
		SenderID:        req.SenderID,
		ReceiverID:      req.ReceiverID,
		PartnerID:       req.PartnerID,
		ParticipantName: req.ParticipantName,
		IncludeArchived: req.IncludeArchived,
		Limit:           req.Limit,
		NextToken:       req.NextToken,
	}
	if req.Category != "" {
		types := domain.ExpandCategory(req.Category)
		if types == nil {
			return nil, fmt.Errorf("%w: unknown entry category %q", apperrors.ErrValidation, req.Category)
		}
		filter.Types = types
	}
	if req.Channel != "" {
		channel := domain.ChannelType(req.Channel)
		if !channel.IsValid() {
			return nil, fmt.Errorf("%w: invalid channel %q", apperrors.ErrValidation, req.Channel)
		}
		filter.Channel = channel
	}

	switch actor.Role {
	case domain.RoleAdmin:
		// Unrestricted.
	case domain.RoleSupervisor:
		filter.InvolvedID = actor.UserID
	default:
		filter.PartnerID = actor.UserID
	}

	entries, nextToken, err := s.ledgerRepo.QueryEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToLedgerEntryResponse(&entries[i])
		perms := s.permission.EntryPermissions(actor, &entries[i], now)
		responses[i].Permissions = &perms
	}
	return &dto.LedgerQueryResponse{Entries: responses, NextToken: nextToken}, nil
}

// ArchiveEntry soft-deletes a single entry after the per-entry permission
// table allows it.
func (s *ledgerService) ArchiveEntry(ctx context.Context, actor domain.Actor, entryID string, reason string) error {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	now := s.now()
	perms := s.permission.EntryPermissions(actor, entry, now)
	if !perms.CanDelete {
		return apperrors.Forbidden("entry can no longer be deleted")
	}

	prefix := fmt.Sprintf("[archived by %s] ", actor.UserID)
	if reason != "" {
		prefix = fmt.Sprintf("[archived by %s: %s] ", actor.UserID, reason)
	}
	if err := s.ledgerRepo.ArchiveEntry(ctx, entryID, prefix, now); err != nil {
		return err
	}

	if entry.ReceiverID != actor.UserID {
		s.notify(ctx, domain.Notification{
			UserID:   entry.ReceiverID,
			Title:    "Entry archived",
			Message:  fmt.Sprintf("A %s entry of %s was archived", entry.Type, money.Format(entry.Amount)),
			Category: domain.NotifyCorrection,
		})
	}
	return nil
}
