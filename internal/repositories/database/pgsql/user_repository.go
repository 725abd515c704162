package pgsql

import (
	"context"
	"errors"

	"github.com/floatops/float_ledger_app/internal/apperrors"
	"github.com/floatops/float_ledger_app/internal/core/domain"
	portsrepo "github.com/floatops/float_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, phone, role, status, access_code_hash, created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Phone,
		&u.Role,
		&u.Status,
		&u.AccessCodeHash,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Phone,
		user.Role,
		user.Status,
		user.AccessCodeHash,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewAppError(409, "user with this phone already exists", apperrors.ErrConflict)
			}
		}
		return apperrors.NewAppError(500, "failed to insert user "+user.UserID, err)
	}
	return nil
}

// UpdateUser updates an existing user's mutable fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, status = $4, access_code_hash = $5, last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Phone,
		user.Status,
		user.AccessCodeHash,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewAppError(409, "user with this phone already exists", apperrors.ErrConflict)
			}
		}
		return apperrors.NewAppError(500, "failed to update user "+user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user row together with their account rows, in one
// transaction. The service layer guards that every account is zero-balance
// before this point; the accounts must still go first or their foreign key
// blocks the user delete. Ledger entries are never touched: the schema severs
// their account link (ON DELETE SET NULL) and keeps the history intact.
func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE user_id = $1;`, userID); err != nil {
		return apperrors.NewAppError(500, "failed to delete accounts of user "+userID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE user_id = $1;`, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete user "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// FindUserByID retrieves a user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by ID "+userID, err)
	}
	return user, nil
}

// FindUsersByIDs retrieves multiple users, keyed by their ID. IDs with no
// matching row are simply absent from the result.
func (r *PgxUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	result := make(map[string]domain.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users by IDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		result[user.UserID] = *user
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	return result, nil
}

// FindPartnersByName retrieves all partner users whose display name matches
// exactly, ignoring case. Several partners may legitimately share a name.
func (r *PgxUserRepository) FindPartnersByName(ctx context.Context, name string) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND lower(name) = lower($2)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, domain.RolePartner, name)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query partners by name", err)
	}
	defer rows.Close()

	partners := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan partner row", err)
		}
		partners = append(partners, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating partner rows", err)
	}
	return partners, nil
}

// ListSupervisors retrieves supervisor users, optionally restricted to active
// ones, ordered by name for stable dashboard output.
func (r *PgxUserRepository) ListSupervisors(ctx context.Context, onlyActive bool) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1`
	args := []interface{}{domain.RoleSupervisor}
	if onlyActive {
		query += ` AND status = $2`
		args = append(args, domain.StatusActive)
	}
	query += ` ORDER BY name, user_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query supervisors", err)
	}
	defer rows.Close()

	supervisors := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan supervisor row", err)
		}
		supervisors = append(supervisors, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating supervisor rows", err)
	}
	return supervisors, nil
}
