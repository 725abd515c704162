package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/core/services"
	"github.com/floatops/float_ledger_app/internal/utils/money"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountRepository
	mockLedger   *MockLedgerRepository
	mockUsers    *MockUserRepository
	service      portssvc.DashboardSvcFacade

	rng        domain.DateRange
	admin      domain.Actor
	supervisor *domain.User
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.mockUsers = new(MockUserRepository)
	suite.service = services.NewDashboardService(suite.mockAccounts, suite.mockLedger, suite.mockUsers)

	from := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	suite.rng = domain.DateRange{From: from, To: from.AddDate(0, 0, 1)}
	suite.admin = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	suite.supervisor = &domain.User{
		UserID: uuid.NewString(),
		Name:   "Moussa Diallo",
		Role:   domain.RoleSupervisor,
		Status: domain.StatusActive,
	}
}

func (suite *DashboardServiceTestSuite) expectCardData(accounts []domain.Account, entries []domain.LedgerEntry, partners map[string]domain.User) {
	suite.mockUsers.On("FindUserByID", context.Background(), suite.supervisor.UserID).
		Return(suite.supervisor, nil).Once()
	suite.mockAccounts.On("ListAccountsByUser", context.Background(), suite.supervisor.UserID).
		Return(accounts, nil).Once()
	suite.mockLedger.On("ListEntriesForDashboard", context.Background(), suite.supervisor.UserID, suite.rng).
		Return(entries, nil).Once()
	if partners == nil {
		partners = map[string]domain.User{}
	}
	suite.mockUsers.On("FindUsersByIDs", context.Background(), mock.Anything).
		Return(partners, nil).Once()
}

func (suite *DashboardServiceTestSuite) TestChannelDepositLeavesStartAtZero() {
	// A deposit on a fresh account raises only the end-of-day float; the
	// opening balance stays untouched until it is declared or rolled over.
	accountID := uuid.NewString()
	accounts := []domain.Account{{
		AccountID:   accountID,
		UserID:      suite.supervisor.UserID,
		ChannelType: domain.ChannelCash,
		StartOfDay:  0,
		EndOfDay:    100000,
	}}
	entries := []domain.LedgerEntry{{
		EntryID:    uuid.NewString(),
		Type:       domain.EntryDeposit,
		Amount:     100000,
		SenderID:   suite.supervisor.UserID,
		ReceiverID: suite.supervisor.UserID,
		AccountID:  &accountID,
	}}
	suite.expectCardData(accounts, entries, nil)

	card, err := suite.service.SupervisorCard(context.Background(), suite.admin, suite.supervisor.UserID, suite.rng)

	suite.Require().NoError(err)
	suite.Equal(int64(0), card.StartTotal)
	suite.Equal(int64(100000), card.EndTotal)
	suite.Equal(int64(100000), card.Net)
	suite.Equal(int64(0), card.StartOfDay[string(domain.ChannelCash)])
	suite.Equal(int64(100000), card.EndOfDay[string(domain.ChannelCash)])
}

func (suite *DashboardServiceTestSuite) TestDeclaredStartOfDayShowsUp() {
	accounts := []domain.Account{{
		AccountID:   uuid.NewString(),
		UserID:      suite.supervisor.UserID,
		ChannelType: domain.ChannelCash,
		StartOfDay:  100000,
		EndOfDay:    100000,
	}}
	suite.expectCardData(accounts, []domain.LedgerEntry{}, nil)

	card, err := suite.service.SupervisorCard(context.Background(), suite.admin, suite.supervisor.UserID, suite.rng)

	suite.Require().NoError(err)
	suite.Equal(int64(100000), card.StartTotal)
	suite.Equal(int64(100000), card.StartOfDay[string(domain.ChannelCash)])
	suite.Equal(int64(0), card.Net)
}

func (suite *DashboardServiceTestSuite) TestPartnerLinesGroupUnderPartnerKeys() {
	partnerID := uuid.NewString()
	partners := map[string]domain.User{
		partnerID: {UserID: partnerID, Name: "Amadou", Role: domain.RolePartner},
	}
	entries := []domain.LedgerEntry{
		{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryDeposit,
			Amount:     50000,
			SenderID:   suite.supervisor.UserID,
			ReceiverID: partnerID,
			PartnerID:  &partnerID,
		},
		{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryWithdrawal,
			Amount:     20000,
			SenderID:   suite.supervisor.UserID,
			ReceiverID: partnerID,
			PartnerID:  &partnerID,
		},
	}
	suite.expectCardData([]domain.Account{}, entries, partners)

	card, err := suite.service.SupervisorCard(context.Background(), suite.admin, suite.supervisor.UserID, suite.rng)

	suite.Require().NoError(err)
	key := domain.PartnerKey("Amadou")
	suite.Equal(int64(50000), card.StartOfDay[key])
	suite.Equal(int64(20000), card.EndOfDay[key])
	suite.Equal(int64(-30000), card.Net)
	suite.Equal("-300.00", money.Format(card.Net))
}

func (suite *DashboardServiceTestSuite) TestSupervisorViewsOwnCardOnly() {
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleSupervisor}

	_, err := suite.service.SupervisorCard(context.Background(), actor, suite.supervisor.UserID, suite.rng)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUsers.AssertNotCalled(suite.T(), "FindUserByID")
}

func (suite *DashboardServiceTestSuite) TestPartnerRoleCannotViewCards() {
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RolePartner}

	_, err := suite.service.SupervisorCard(context.Background(), actor, suite.supervisor.UserID, suite.rng)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DashboardServiceTestSuite) TestNonSupervisorTargetRejected() {
	partner := &domain.User{UserID: uuid.NewString(), Name: "Amadou", Role: domain.RolePartner}
	suite.mockUsers.On("FindUserByID", context.Background(), partner.UserID).
		Return(partner, nil).Once()

	_, err := suite.service.SupervisorCard(context.Background(), suite.admin, partner.UserID, suite.rng)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DashboardServiceTestSuite) TestGlobalDashboardAdminOnly() {
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleSupervisor}

	_, err := suite.service.GlobalDashboard(context.Background(), actor, suite.rng)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *DashboardServiceTestSuite) TestGlobalDashboardAggregatesNetwork() {
	other := domain.User{
		UserID: uuid.NewString(),
		Name:   "Aissatou Barry",
		Role:   domain.RoleSupervisor,
		Status: domain.StatusActive,
	}
	suite.mockUsers.On("ListSupervisors", context.Background(), true).
		Return([]domain.User{*suite.supervisor, other}, nil).Once()

	suite.mockAccounts.On("ListAccountsByUser", context.Background(), suite.supervisor.UserID).
		Return([]domain.Account{{
			AccountID:   uuid.NewString(),
			UserID:      suite.supervisor.UserID,
			ChannelType: domain.ChannelCash,
			StartOfDay:  100000,
			EndOfDay:    120000,
		}}, nil).Once()
	suite.mockAccounts.On("ListAccountsByUser", context.Background(), other.UserID).
		Return([]domain.Account{{
			AccountID:   uuid.NewString(),
			UserID:      other.UserID,
			ChannelType: domain.ChannelMobileMoneyA,
			StartOfDay:  50000,
			EndOfDay:    40000,
		}}, nil).Once()
	suite.mockLedger.On("ListEntriesForDashboard", context.Background(), suite.supervisor.UserID, suite.rng).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockLedger.On("ListEntriesForDashboard", context.Background(), other.UserID, suite.rng).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockUsers.On("FindUsersByIDs", context.Background(), mock.Anything).
		Return(map[string]domain.User{}, nil).Twice()
	suite.mockAccounts.On("AggregateChannel", context.Background(), domain.ChannelFloatPool).
		Return(int64(70000), int64(40000), nil).Once()

	global, err := suite.service.GlobalDashboard(context.Background(), suite.admin, suite.rng)

	suite.Require().NoError(err)
	suite.Len(global.Cards, 2)
	suite.Equal(int64(150000), global.StartTotal)
	suite.Equal(int64(160000), global.EndTotal)
	suite.Equal(int64(10000), global.Net)
	suite.Equal(int64(70000), global.FloatPoolStart)
	suite.Equal(int64(40000), global.FloatPoolNow)
}

func TestDashboardService(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
