package services

import (
	"context"
	"errors"
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
	"github.com/floatops/float_ledger_app/pkg/locks"
)

// correctionService performs the controlled mutations of posted balance
// lines. The read-check-write sequence of each correction runs under a
// distributed per-line lock so two concurrent corrections cannot both pass
// the recency check.
type correctionService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	resolver    portssvc.PartnerResolverSvc
	permission  portssvc.PermissionSvcFacade
	locker      locks.AccountLocker
	notifier    portssvc.Notifier
	lockTTL     time.Duration
	now         func() time.Time
}

// NewCorrectionService creates the correction service.
func NewCorrectionService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, resolver portssvc.PartnerResolverSvc, permission portssvc.PermissionSvcFacade, locker locks.AccountLocker, notifier portssvc.Notifier, lockTTL time.Duration, now func() time.Time) portssvc.CorrectionSvcFacade {
	if locker == nil {
		locker = locks.NoopLocker{}
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &correctionService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		resolver:    resolver,
		permission:  permission,
		locker:      locker,
		notifier:    notifier,
		lockTTL:     lockTTL,
		now:         now,
	}
}

var _ portssvc.CorrectionSvcFacade = (*correctionService)(nil)

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// guard acquires the per-line lock and runs the permission check. The caller
// must invoke the returned release function.
func (s *correctionService) guard(ctx context.Context, actor domain.Actor, target domain.CorrectionTarget) (func(), *domain.CorrectionDecision, error) {
	release, err := s.locker.Acquire(ctx, locks.LineKey(target.SupervisorID, target.Key), s.lockTTL)
	if err != nil {
		if errors.Is(err, locks.ErrNotObtained) {
			return nil, nil, fmt.Errorf("%w: another correction against this line is in progress", apperrors.ErrConflict)
		}
		return nil, nil, fmt.Errorf("failed to acquire correction lock: %w", err)
	}

	decision, err := s.permission.CheckCorrection(ctx, actor, target)
	if err != nil {
		release()
		return nil, nil, err
	}
	if !decision.Allowed {
		release()
		return nil, nil, apperrors.Forbidden(decision.Reason)
	}
	return release, decision, nil
}

func (s *correctionService) notifySupervisor(ctx context.Context, supervisorID string, title string, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, domain.Notification{
		UserID:   supervisorID,
		Title:    title,
		Message:  message,
		Category: domain.NotifyCorrection,
	})
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to send correction notification",
			"supervisor_id", supervisorID,
			"error", err,
		)
	}
}

// ResetLine rewrites a balance line to a new non-negative value and appends
// the AUDIT_CORRECTION entry documenting the change.
func (s *correctionService) ResetLine(ctx context.Context, actor domain.Actor, req dto.ResetLineRequest) (*dto.CorrectionResult, error) {
	newValue := money.ToMinorUnits(req.NewValue)
	if newValue < 0 {
		return nil, fmt.Errorf("%w: reset value cannot be negative", apperrors.ErrValidation)
	}

	target := domain.CorrectionTarget{SupervisorID: req.SupervisorID, Key: req.Key, LineKind: req.LineKind}
	release, decision, err := s.guard(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *dto.CorrectionResult
	if channel, isChannel := target.Channel(); isChannel {
		result, err = s.resetChannelLine(ctx, actor, req, channel, newValue)
	} else {
		result, err = s.rewritePartnerLine(ctx, actor, req.SupervisorID, req.Key, req.LineKind, newValue, req.Reason, domain.EntryAuditCorrection, domain.AuditCorrection)
	}
	if err != nil {
		return nil, err
	}
	result.OrganicOwnership = decision.OrganicOwnership

	s.notifySupervisor(ctx, req.SupervisorID, "Balance line corrected",
		fmt.Sprintf("%s %s was reset from %s to %s", req.Key, req.LineKind, money.Format(result.OldValue), money.Format(result.NewValue)))
	return result, nil
}

func (s *correctionService) resetChannelLine(ctx context.Context, actor domain.Actor, req dto.ResetLineRequest, channel domain.ChannelType, newValue int64) (*dto.CorrectionResult, error) {
	now := s.now()
	account, err := s.accountRepo.GetOrCreateAccount(ctx, req.SupervisorID, channel, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	oldValue := account.StartOfDay
	if req.LineKind == domain.LineEndOfDay {
		oldValue = account.EndOfDay
	}

	audit := s.buildAuditEntry(actor, req.SupervisorID, req.Key, req.LineKind, oldValue, newValue, req.Reason, domain.EntryAuditCorrection, domain.AuditCorrection, now)
	audit.AccountID = &account.AccountID
	if err := s.ledgerRepo.AppendWithBalanceSet(ctx, audit, account.AccountID, req.LineKind, newValue); err != nil {
		return nil, err
	}

	return &dto.CorrectionResult{
		SupervisorID: req.SupervisorID,
		Key:          req.Key,
		LineKind:     req.LineKind,
		OldValue:     oldValue,
		NewValue:     newValue,
		AuditEntryID: audit.EntryID,
	}, nil
}

// rewritePartnerLine archives a partner sub-ledger line and, for non-zero
// resets, appends a replacement movement so the aggregated line equals the
// requested value. No dedicated account exists for partner sub-ledgers.
func (s *correctionService) rewritePartnerLine(ctx context.Context, actor domain.Actor, supervisorID string, key string, kind domain.LineKind, newValue int64, reason string, auditType domain.EntryType, auditKind domain.AuditKind) (*dto.CorrectionResult, error) {
	name, _ := domain.ParsePartnerKey(key)
	types := directionTypes(kind)
	partner, err := s.resolver.Resolve(ctx, supervisorID, name, types)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindPartnerEntries(ctx, supervisorID, partner.UserID, types, false)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 && auditKind == domain.AuditPartnerArchival {
		// Deletes must fail before any write when there is nothing to archive.
		return nil, fmt.Errorf("%w: no entries to delete for %s", apperrors.ErrNotFound, key)
	}

	now := s.now()
	var oldValue int64
	entryIDs := make([]string, len(entries))
	for i := range entries {
		oldValue += entries[i].Amount
		entryIDs[i] = entries[i].EntryID
	}

	audit := s.buildAuditEntry(actor, supervisorID, key, kind, oldValue, newValue, reason, auditType, auditKind, now)
	audit.PartnerID = &partner.UserID
	if auditKind == domain.AuditPartnerArchival {
		audit.Metadata.Correction = nil
		audit.Metadata.Archival = &domain.ArchivalDetail{
			SupervisorID: supervisorID,
			PartnerID:    partner.UserID,
			PartnerName:  partner.Name,
			LineKind:     kind,
			EntryCount:   len(entries),
			TotalAmount:  oldValue,
		}
	}

	if len(entries) > 0 {
		prefix := fmt.Sprintf("[archived by %s] ", actor.UserID)
		if err := s.ledgerRepo.ArchiveEntriesWithAudit(ctx, entryIDs, prefix, now, audit); err != nil {
			return nil, err
		}
	} else {
		if err := s.ledgerRepo.AppendEntry(ctx, audit); err != nil {
			return nil, err
		}
	}

	if newValue > 0 {
		movementType := domain.EntryDeposit
		if kind == domain.LineEndOfDay {
			movementType = domain.EntryWithdrawal
		}
		replacement := domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			Type:        movementType,
			Amount:      newValue,
			SenderID:    supervisorID,
			ReceiverID:  partner.UserID,
			PartnerID:   &partner.UserID,
			Description: fmt.Sprintf("line reset by %s", actor.UserID),
			CreatedAt:   now,
		}
		if err := s.ledgerRepo.AppendEntry(ctx, replacement); err != nil {
			return nil, err
		}
	}

	return &dto.CorrectionResult{
		SupervisorID:    supervisorID,
		Key:             key,
		LineKind:        kind,
		OldValue:        oldValue,
		NewValue:        newValue,
		ArchivedEntries: len(entries),
		AuditEntryID:    audit.EntryID,
	}, nil
}

func (s *correctionService) buildAuditEntry(actor domain.Actor, supervisorID string, key string, kind domain.LineKind, oldValue int64, newValue int64, reason string, auditType domain.EntryType, auditKind domain.AuditKind, now time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		Type:        auditType,
		Amount:      abs64(newValue - oldValue),
		SenderID:    actor.UserID,
		ReceiverID:  supervisorID,
		Description: fmt.Sprintf("%s %s rewritten from %s to %s", key, kind, money.Format(oldValue), money.Format(newValue)),
		Metadata: &domain.AuditMetadata{
			Kind:       auditKind,
			ActorID:    actor.UserID,
			Reason:     reason,
			OccurredAt: now,
			Correction: &domain.CorrectionDetail{
				SupervisorID: supervisorID,
				Key:          key,
				LineKind:     kind,
				OldValue:     oldValue,
				NewValue:     newValue,
			},
		},
		CreatedAt: now,
	}
}

// DeleteLine zeroes a standard-channel line via an AUDIT_DELETION entry, or
// archives all matching partner entries into one audit record.
func (s *correctionService) DeleteLine(ctx context.Context, actor domain.Actor, req dto.DeleteLineRequest) (*dto.CorrectionResult, error) {
	target := domain.CorrectionTarget{SupervisorID: req.SupervisorID, Key: req.Key, LineKind: req.LineKind}
	release, decision, err := s.guard(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *dto.CorrectionResult
	if channel, isChannel := target.Channel(); isChannel {
		result, err = s.suppressChannelLine(ctx, actor, req, channel)
	} else {
		result, err = s.archivePartnerLine(ctx, actor, req)
	}
	if err != nil {
		return nil, err
	}
	result.OrganicOwnership = decision.OrganicOwnership

	s.notifySupervisor(ctx, req.SupervisorID, "Balance line deleted",
		fmt.Sprintf("%s %s was deleted (was %s)", req.Key, req.LineKind, money.Format(result.OldValue)))
	return result, nil
}

func (s *correctionService) suppressChannelLine(ctx context.Context, actor domain.Actor, req dto.DeleteLineRequest, channel domain.ChannelType) (*dto.CorrectionResult, error) {
	// Unlike reset, delete never upserts: a missing pair is a NotFound.
	account, err := s.accountRepo.FindAccount(ctx, req.SupervisorID, channel)
	if err != nil {
		return nil, err
	}

	oldValue := account.StartOfDay
	if req.LineKind == domain.LineEndOfDay {
		oldValue = account.EndOfDay
	}

	now := s.now()
	audit := s.buildAuditEntry(actor, req.SupervisorID, req.Key, req.LineKind, oldValue, 0, req.Reason, domain.EntryAuditDeletion, domain.AuditSuppression, now)
	audit.AccountID = &account.AccountID
	if err := s.ledgerRepo.AppendWithBalanceSet(ctx, audit, account.AccountID, req.LineKind, 0); err != nil {
		return nil, err
	}

	return &dto.CorrectionResult{
		SupervisorID: req.SupervisorID,
		Key:          req.Key,
		LineKind:     req.LineKind,
		OldValue:     oldValue,
		NewValue:     0,
		AuditEntryID: audit.EntryID,
	}, nil
}

func (s *correctionService) archivePartnerLine(ctx context.Context, actor domain.Actor, req dto.DeleteLineRequest) (*dto.CorrectionResult, error) {
	return s.rewritePartnerLine(ctx, actor, req.SupervisorID, req.Key, req.LineKind, 0, req.Reason, domain.EntryAuditDeletion, domain.AuditPartnerArchival)
}
