package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/core/services"
)

type PermissionServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountRepository
	mockLedger   *MockLedgerRepository
	mockResolver *MockPartnerResolver
	service      portssvc.PermissionSvcFacade

	now          time.Time
	supervisorID string
	supervisor   domain.Actor
	admin        domain.Actor
}

func (suite *PermissionServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.mockResolver = new(MockPartnerResolver)
	suite.now = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewPermissionService(suite.mockAccounts, suite.mockLedger, suite.mockResolver, func() time.Time { return suite.now })

	suite.supervisorID = uuid.NewString()
	suite.supervisor = domain.Actor{UserID: suite.supervisorID, Role: domain.RoleSupervisor}
	suite.admin = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin}
}

func (suite *PermissionServiceTestSuite) cashTarget() domain.CorrectionTarget {
	return domain.CorrectionTarget{
		SupervisorID: suite.supervisorID,
		Key:          string(domain.ChannelCash),
		LineKind:     domain.LineEndOfDay,
	}
}

// expectChannelLookup wires the account and recency lookups for a standard
// CASH target whose most recent WITHDRAWAL/END_OF_DAY entry has the given age.
func (suite *PermissionServiceTestSuite) expectChannelLookup(age time.Duration) *domain.Account {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      suite.supervisorID,
		ChannelType: domain.ChannelCash,
	}
	suite.mockAccounts.On("FindAccount", context.Background(), suite.supervisorID, domain.ChannelCash).
		Return(account, nil).Once()
	suite.mockLedger.On("FindLatestRelevantEntry", context.Background(), portsrepo.RecencyQuery{
		AccountID: account.AccountID,
		Types:     []domain.EntryType{domain.EntryWithdrawal, domain.EntryEndOfDay},
	}).Return(&domain.LedgerEntry{
		EntryID:   uuid.NewString(),
		Type:      domain.EntryWithdrawal,
		CreatedAt: suite.now.Add(-age),
	}, nil).Once()
	return account
}

func (suite *PermissionServiceTestSuite) TestAdminAlwaysAllowed() {
	decision, err := suite.service.CheckCorrection(context.Background(), suite.admin, suite.cashTarget())

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.False(decision.OrganicOwnership)
	suite.mockAccounts.AssertNotCalled(suite.T(), "FindAccount")
}

func (suite *PermissionServiceTestSuite) TestPartnerRoleDenied() {
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RolePartner}

	decision, err := suite.service.CheckCorrection(context.Background(), actor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.False(decision.Allowed)
	suite.Equal(services.ReasonRoleDenied, decision.Reason)
}

func (suite *PermissionServiceTestSuite) TestOtherSupervisorDenied() {
	other := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleSupervisor}

	decision, err := suite.service.CheckCorrection(context.Background(), other, suite.cashTarget())

	suite.Require().NoError(err)
	suite.False(decision.Allowed)
	suite.Equal(services.ReasonNotOwnData, decision.Reason)
}

func (suite *PermissionServiceTestSuite) TestFloatPoolDenied() {
	target := suite.cashTarget()
	target.Key = string(domain.ChannelFloatPool)

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, target)

	suite.Require().NoError(err)
	suite.False(decision.Allowed)
	suite.Equal(services.ReasonFloatPool, decision.Reason)
}

func (suite *PermissionServiceTestSuite) TestTooRecentDenied() {
	suite.expectChannelLookup(30 * time.Second)

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.False(decision.Allowed)
	suite.Equal(services.ReasonTooRecent, decision.Reason)
	suite.mockLedger.AssertNotCalled(suite.T(), "AccountOwnershipStats")
}

func (suite *PermissionServiceTestSuite) TestOutsideWindowDenied() {
	suite.expectChannelLookup(31 * time.Minute)

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.False(decision.Allowed)
	suite.Equal(services.ReasonOutsideWindow, decision.Reason)
}

func (suite *PermissionServiceTestSuite) TestWithinWindowWithOrganicOwnership() {
	account := suite.expectChannelLookup(61 * time.Second)
	suite.mockLedger.On("AccountOwnershipStats", context.Background(), account.AccountID, suite.supervisorID).
		Return(&portsrepo.OwnershipStats{Total: 5, NonAudit: 4, SentByActor: 3}, nil).Once()

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.True(decision.OrganicOwnership)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *PermissionServiceTestSuite) TestNoOwnershipDenied() {
	account := suite.expectChannelLookup(5 * time.Minute)
	suite.mockLedger.On("AccountOwnershipStats", context.Background(), account.AccountID, suite.supervisorID).
		Return(&portsrepo.OwnershipStats{Total: 3, NonAudit: 2, SentByActor: 0}, nil).Once()

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.False(decision.Allowed)
	suite.Equal(services.ReasonNoOwnership, decision.Reason)
}

func (suite *PermissionServiceTestSuite) TestAuditOnlyAccountGrantsDefaultOwnership() {
	account := suite.expectChannelLookup(5 * time.Minute)
	suite.mockLedger.On("AccountOwnershipStats", context.Background(), account.AccountID, suite.supervisorID).
		Return(&portsrepo.OwnershipStats{Total: 2, NonAudit: 0, SentByActor: 0}, nil).Once()

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.False(decision.OrganicOwnership)
}

func (suite *PermissionServiceTestSuite) TestMissingAccountAllowed() {
	suite.mockAccounts.On("FindAccount", context.Background(), suite.supervisorID, domain.ChannelCash).
		Return(nil, fmt.Errorf("%w: no such account", apperrors.ErrNotFound)).Once()

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.mockLedger.AssertNotCalled(suite.T(), "FindLatestRelevantEntry")
}

func (suite *PermissionServiceTestSuite) TestNoRelevantEntryAllowed() {
	account := &domain.Account{AccountID: uuid.NewString(), UserID: suite.supervisorID, ChannelType: domain.ChannelCash}
	suite.mockAccounts.On("FindAccount", context.Background(), suite.supervisorID, domain.ChannelCash).
		Return(account, nil).Once()
	suite.mockLedger.On("FindLatestRelevantEntry", context.Background(), portsrepo.RecencyQuery{
		AccountID: account.AccountID,
		Types:     []domain.EntryType{domain.EntryWithdrawal, domain.EntryEndOfDay},
	}).Return(nil, fmt.Errorf("%w: no matching entries", apperrors.ErrNotFound)).Once()

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, suite.cashTarget())

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	suite.False(decision.OrganicOwnership)
}

func (suite *PermissionServiceTestSuite) TestPartnerTargetWithinWindow() {
	partner := &domain.User{UserID: uuid.NewString(), Name: "Amadou", Role: domain.RolePartner}
	target := domain.CorrectionTarget{
		SupervisorID: suite.supervisorID,
		Key:          domain.PartnerKey("Amadou"),
		LineKind:     domain.LineStartOfDay,
	}
	depositTypes := []domain.EntryType{domain.EntryDeposit, domain.EntryStartOfDay}

	suite.mockResolver.On("Resolve", context.Background(), suite.supervisorID, "Amadou", depositTypes).
		Return(partner, nil).Once()
	suite.mockLedger.On("FindLatestRelevantEntry", context.Background(), portsrepo.RecencyQuery{
		PartnerID: partner.UserID,
		SenderID:  suite.supervisorID,
		Types:     depositTypes,
	}).Return(&domain.LedgerEntry{
		EntryID:   uuid.NewString(),
		Type:      domain.EntryDeposit,
		CreatedAt: suite.now.Add(-10 * time.Minute),
	}, nil).Once()

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, target)

	suite.Require().NoError(err)
	suite.True(decision.Allowed)
	// The recency query is sender-scoped, so a hit is ownership proof in
	// itself and no second entry fetch happens.
	suite.True(decision.OrganicOwnership)
	suite.mockLedger.AssertNotCalled(suite.T(), "FindPartnerEntries")
	suite.mockResolver.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *PermissionServiceTestSuite) TestInvalidLineKindRejected() {
	target := suite.cashTarget()
	target.LineKind = domain.LineKind("MIDDAY")

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, target)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(decision)
}

func (suite *PermissionServiceTestSuite) TestInvalidChannelKeyRejected() {
	target := suite.cashTarget()
	target.Key = "CARRIER_PIGEON"

	decision, err := suite.service.CheckCorrection(context.Background(), suite.supervisor, target)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(decision)
}

// --- EntryPermissions: the role-by-age table ---

func (suite *PermissionServiceTestSuite) entryOfAge(entryType domain.EntryType, age time.Duration, receiverID string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		EntryID:    uuid.NewString(),
		Type:       entryType,
		Amount:     10000,
		SenderID:   uuid.NewString(),
		ReceiverID: receiverID,
		CreatedAt:  suite.now.Add(-age),
	}
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsAdminWithinWeek() {
	entry := suite.entryOfAge(domain.EntryStartOfDay, 3*24*time.Hour, uuid.NewString())

	perms := suite.service.EntryPermissions(suite.admin, entry, suite.now)

	suite.True(perms.CanModify)
	suite.True(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsAdminBeyondWeek() {
	entry := suite.entryOfAge(domain.EntryDeposit, 8*24*time.Hour, uuid.NewString())

	perms := suite.service.EntryPermissions(suite.admin, entry, suite.now)

	suite.False(perms.CanModify)
	suite.False(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsSupervisorReceivedMovement() {
	entry := suite.entryOfAge(domain.EntryWithdrawal, 2*time.Hour, suite.supervisorID)

	perms := suite.service.EntryPermissions(suite.supervisor, entry, suite.now)

	suite.True(perms.CanModify)
	suite.True(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsSupervisorBalanceLineNotDeletable() {
	entry := suite.entryOfAge(domain.EntryEndOfDay, 2*time.Hour, suite.supervisorID)

	perms := suite.service.EntryPermissions(suite.supervisor, entry, suite.now)

	suite.True(perms.CanModify)
	suite.False(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsSupervisorNotReceiver() {
	entry := suite.entryOfAge(domain.EntryDeposit, 2*time.Hour, uuid.NewString())

	perms := suite.service.EntryPermissions(suite.supervisor, entry, suite.now)

	suite.False(perms.CanModify)
	suite.False(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsSupervisorBeyondDay() {
	entry := suite.entryOfAge(domain.EntryDeposit, 25*time.Hour, suite.supervisorID)

	perms := suite.service.EntryPermissions(suite.supervisor, entry, suite.now)

	suite.False(perms.CanModify)
	suite.False(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsPartnerNever() {
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RolePartner}
	entry := suite.entryOfAge(domain.EntryDeposit, time.Hour, actor.UserID)

	perms := suite.service.EntryPermissions(actor, entry, suite.now)

	suite.False(perms.CanModify)
	suite.False(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsArchivedImmutable() {
	entry := suite.entryOfAge(domain.EntryDeposit, time.Hour, suite.supervisorID)
	entry.Archived = true

	perms := suite.service.EntryPermissions(suite.admin, entry, suite.now)

	suite.False(perms.CanModify)
	suite.False(perms.CanDelete)
}

func (suite *PermissionServiceTestSuite) TestEntryPermissionsAuditImmutable() {
	entry := suite.entryOfAge(domain.EntryAuditCorrection, time.Hour, suite.supervisorID)

	perms := suite.service.EntryPermissions(suite.admin, entry, suite.now)

	suite.False(perms.CanModify)
	suite.False(perms.CanDelete)
}

func TestPermissionService(t *testing.T) {
	suite.Run(t, new(PermissionServiceTestSuite))
}
