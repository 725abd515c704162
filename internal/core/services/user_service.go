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
	"github.com/floatops/float_ledger_app/internal/utils"
)

// userService manages the actors of the ledger: admins, supervisors and the
// partner records referenced from entries.
type userService struct {
	userRepo    portsrepo.UserRepositoryFacade
	accountRepo portsrepo.AccountReader
	now         func() time.Time
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountRepo portsrepo.AccountReader, now func() time.Time) portssvc.UserSvcFacade {
	if now == nil {
		now = time.Now
	}
	return &userService{userRepo: userRepo, accountRepo: accountRepo, now: now}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates a user record. Admin only; a duplicate phone surfaces as
// a conflict.
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can create users")
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, req.Role)
	}

	hash, err := utils.HashAccessCode(req.AccessCode)
	if err != nil {
		return nil, fmt.Errorf("failed to hash access code: %w", err)
	}

	status := domain.StatusActive
	if req.Status != nil {
		status = *req.Status
	}

	now := s.now()
	user := domain.User{
		UserID:         uuid.NewString(),
		Name:           req.Name,
		Phone:          req.Phone,
		Role:           req.Role,
		Status:         status,
		AccessCodeHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("User created",
		"new_user_id", user.UserID,
		"role", string(user.Role),
	)
	return &user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListSupervisors lists supervisors, optionally restricted to ACTIVE.
func (s *userService) ListSupervisors(ctx context.Context, onlyActive bool) ([]domain.User, error) {
	return s.userRepo.ListSupervisors(ctx, onlyActive)
}

// UpdateUser updates name/status. Admin only.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("only admins can update users")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	user.LastUpdatedAt = s.now()
	user.LastUpdatedBy = actor.UserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Denied for admins and for users still holding a
// non-zero balance on any account.
func (s *userService) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.Forbidden("only admins can delete users")
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return apperrors.Forbidden("admin users cannot be deleted")
	}

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if account.StartOfDay != 0 || account.EndOfDay != 0 {
			return fmt.Errorf("%w: user still holds a balance on %s", apperrors.ErrConflict, account.ChannelType)
		}
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("User deleted", "deleted_user_id", userID)
	return nil
}
