package services

import (
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/floatops/float_ledger_app/internal/core/ports/services"
	"github.com/floatops/float_ledger_app/internal/platform/config"
	"github.com/floatops/float_ledger_app/pkg/locks"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, locker locks.AccountLocker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	resolver := NewPartnerResolver(repos.UserRepo, repos.LedgerRepo)

	container.Permission = NewPermissionService(repos.AccountRepo, repos.LedgerRepo, resolver, nil)
	container.User = NewUserService(repos.UserRepo, repos.AccountRepo, nil)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.UserRepo, resolver, container.Permission, notifier, nil)
	container.Dashboard = NewDashboardService(repos.AccountRepo, repos.LedgerRepo, repos.UserRepo)
	container.Correction = NewCorrectionService(repos.AccountRepo, repos.LedgerRepo, resolver, container.Permission, locker, notifier, cfg.LockTTL, nil)
	container.Rollover = NewRolloverService(repos.RolloverRepo, nil)

	return container
}
