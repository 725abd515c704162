package repositories

import (
	"context"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUsersByIDs retrieves multiple users keyed by ID; missing IDs are
	// simply absent from the map.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// FindPartnersByName retrieves PARTNER users whose display name matches
	// exactly (case-insensitive). Partner names are not unique.
	FindPartnersByName(ctx context.Context, name string) ([]domain.User, error)

	// ListSupervisors retrieves supervisors, optionally restricted to ACTIVE.
	ListSupervisors(ctx context.Context, onlyActive bool) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user; a duplicate phone surfaces as ErrConflict.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates mutable fields (name, status).
	UpdateUser(ctx context.Context, user domain.User) error

	// DeleteUser removes a user record and the user's account rows in one
	// transaction. The service layer enforces the zero-balance / non-admin
	// guard before calling this; ledger entries survive the delete.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
