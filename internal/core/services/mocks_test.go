package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccount(ctx context.Context, userID string, channel domain.ChannelType) (*domain.Account, error) {
	args := m.Called(ctx, userID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AggregateChannel(ctx context.Context, channel domain.ChannelType) (int64, int64, error) {
	args := m.Called(ctx, channel)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) GetOrCreateAccount(ctx context.Context, userID string, channel domain.ChannelType, actorID string, now time.Time) (*domain.Account, error) {
	args := m.Called(ctx, userID, channel, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, kind domain.LineKind, value int64, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, kind, value, actorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, kind domain.LineKind, delta int64, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, kind, delta, actorID, now)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) QueryEntries(ctx context.Context, filter portsrepo.LedgerFilter) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.LedgerEntry), token, args.Error(2)
}

func (m *MockLedgerRepository) FindLatestRelevantEntry(ctx context.Context, q portsrepo.RecencyQuery) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesForDashboard(ctx context.Context, supervisorID string, rng domain.DateRange) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, supervisorID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindPartnerEntries(ctx context.Context, supervisorID string, partnerID string, types []domain.EntryType, includeArchived bool) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, supervisorID, partnerID, types, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) AccountOwnershipStats(ctx context.Context, accountID string, actorID string) (*portsrepo.OwnershipStats, error) {
	args := m.Called(ctx, accountID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.OwnershipStats), args.Error(1)
}

func (m *MockLedgerRepository) FindLatestPartnerActivity(ctx context.Context, supervisorID string, partnerIDs []string, types []domain.EntryType) (map[string]time.Time, error) {
	args := m.Called(ctx, supervisorID, partnerIDs, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]time.Time), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendWithBalanceSet(ctx context.Context, entry domain.LedgerEntry, accountID string, kind domain.LineKind, value int64) error {
	args := m.Called(ctx, entry, accountID, kind, value)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendWithBalanceIncrement(ctx context.Context, entry domain.LedgerEntry, accountID string, kind domain.LineKind, delta int64) error {
	args := m.Called(ctx, entry, accountID, kind, delta)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendTransfer(ctx context.Context, out domain.LedgerEntry, in domain.LedgerEntry, fromAccountID string, toAccountID string, amount int64) error {
	args := m.Called(ctx, out, in, fromAccountID, toAccountID, amount)
	return args.Error(0)
}

func (m *MockLedgerRepository) ArchiveEntry(ctx context.Context, entryID string, descriptionPrefix string, archivedAt time.Time) error {
	args := m.Called(ctx, entryID, descriptionPrefix, archivedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) ArchiveEntriesWithAudit(ctx context.Context, entryIDs []string, descriptionPrefix string, archivedAt time.Time, audit domain.LedgerEntry) error {
	args := m.Called(ctx, entryIDs, descriptionPrefix, archivedAt, audit)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindPartnersByName(ctx context.Context, name string) ([]domain.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListSupervisors(ctx context.Context, onlyActive bool) ([]domain.User, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockRolloverRepository is a mock type for the RolloverRepository interface
type MockRolloverRepository struct {
	mock.Mock
}

func (m *MockRolloverRepository) GetWatermark(ctx context.Context) (*domain.RolloverWatermark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RolloverWatermark), args.Error(1)
}

func (m *MockRolloverRepository) RunCarryForward(ctx context.Context, runDate string, actorID string, now time.Time) (int, bool, error) {
	args := m.Called(ctx, runDate, actorID, now)
	return args.Int(0), args.Bool(1), args.Error(2)
}

// MockPartnerResolver is a mock type for the PartnerResolverSvc interface
type MockPartnerResolver struct {
	mock.Mock
}

func (m *MockPartnerResolver) Resolve(ctx context.Context, supervisorID string, displayName string, types []domain.EntryType) (*domain.User, error) {
	args := m.Called(ctx, supervisorID, displayName, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPermissionService is a mock type for the PermissionSvcFacade interface
type MockPermissionService struct {
	mock.Mock
}

func (m *MockPermissionService) CheckCorrection(ctx context.Context, actor domain.Actor, target domain.CorrectionTarget) (*domain.CorrectionDecision, error) {
	args := m.Called(ctx, actor, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrectionDecision), args.Error(1)
}

func (m *MockPermissionService) EntryPermissions(actor domain.Actor, entry *domain.LedgerEntry, now time.Time) domain.EntryPermissions {
	args := m.Called(actor, entry, now)
	return args.Get(0).(domain.EntryPermissions)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockLocker is a mock type for the locks.AccountLocker interface
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
