package services

import (
	"context"

	"github.com/floatops/float_ledger_app/internal/core/domain"
	"github.com/floatops/float_ledger_app/internal/dto"
)

// UserSvcFacade manages user records around the ledger's actors.
type UserSvcFacade interface {
	// CreateUser creates a user; a duplicate phone surfaces as ErrConflict.
	CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// ListSupervisors lists supervisors, optionally restricted to ACTIVE.
	ListSupervisors(ctx context.Context, onlyActive bool) ([]domain.User, error)

	// UpdateUser updates name/status.
	UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// DeleteUser removes a user. Denied for admins and for users still
	// holding a non-zero balance on any account.
	DeleteUser(ctx context.Context, actor domain.Actor, userID string) error
}

// Notifier is the outbound port to the external notification collaborator.
// Implementations must be best-effort; the caller logs and swallows failures.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
