package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/core/services"
)

type PartnerResolverTestSuite struct {
	suite.Suite
	mockUsers  *MockUserRepository
	mockLedger *MockLedgerRepository
	resolver   portssvc.PartnerResolverSvc

	supervisorID string
	depositTypes []domain.EntryType
}

func (suite *PartnerResolverTestSuite) SetupTest() {
	suite.mockUsers = new(MockUserRepository)
	suite.mockLedger = new(MockLedgerRepository)
	suite.resolver = services.NewPartnerResolver(suite.mockUsers, suite.mockLedger)
	suite.supervisorID = uuid.NewString()
	suite.depositTypes = []domain.EntryType{domain.EntryDeposit}
}

func (suite *PartnerResolverTestSuite) TestUnknownNameIsNotFound() {
	suite.mockUsers.On("FindPartnersByName", context.Background(), "Nobody").
		Return([]domain.User{}, nil).Once()

	partner, err := suite.resolver.Resolve(context.Background(), suite.supervisorID, "Nobody", suite.depositTypes)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(partner)
}

func (suite *PartnerResolverTestSuite) TestSingleMatchWinsOutright() {
	only := domain.User{UserID: uuid.NewString(), Name: "Fatou", Role: domain.RolePartner}
	suite.mockUsers.On("FindPartnersByName", context.Background(), "Fatou").
		Return([]domain.User{only}, nil).Once()

	partner, err := suite.resolver.Resolve(context.Background(), suite.supervisorID, "Fatou", suite.depositTypes)

	suite.Require().NoError(err)
	suite.Equal(only.UserID, partner.UserID)
	suite.mockLedger.AssertNotCalled(suite.T(), "FindLatestPartnerActivity")
}

func (suite *PartnerResolverTestSuite) TestAmbiguousNamePicksMostRecentActivity() {
	older := domain.User{UserID: uuid.NewString(), Name: "Amadou", Role: domain.RolePartner}
	newer := domain.User{UserID: uuid.NewString(), Name: "Amadou", Role: domain.RolePartner}
	suite.mockUsers.On("FindPartnersByName", context.Background(), "Amadou").
		Return([]domain.User{older, newer}, nil).Once()
	suite.mockLedger.On("FindLatestPartnerActivity", context.Background(), suite.supervisorID, []string{older.UserID, newer.UserID}, suite.depositTypes).
		Return(map[string]time.Time{
			older.UserID: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
			newer.UserID: time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC),
		}, nil).Once()

	partner, err := suite.resolver.Resolve(context.Background(), suite.supervisorID, "Amadou", suite.depositTypes)

	suite.Require().NoError(err)
	suite.Equal(newer.UserID, partner.UserID)
}

func (suite *PartnerResolverTestSuite) TestAmbiguousNameWithoutActivityIsConflict() {
	first := domain.User{UserID: uuid.NewString(), Name: "Amadou", Role: domain.RolePartner}
	second := domain.User{UserID: uuid.NewString(), Name: "Amadou", Role: domain.RolePartner}
	suite.mockUsers.On("FindPartnersByName", context.Background(), "Amadou").
		Return([]domain.User{first, second}, nil).Once()
	suite.mockLedger.On("FindLatestPartnerActivity", context.Background(), suite.supervisorID, []string{first.UserID, second.UserID}, suite.depositTypes).
		Return(map[string]time.Time{}, nil).Once()

	partner, err := suite.resolver.Resolve(context.Background(), suite.supervisorID, "Amadou", suite.depositTypes)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(partner)
}

func TestPartnerResolver(t *testing.T) {
	suite.Run(t, new(PartnerResolverTestSuite))
}
