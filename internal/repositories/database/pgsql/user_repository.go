package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, email, phone, role, created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.CreatedBy,
		&user.LastUpdatedAt,
		&user.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// SaveUser persists a new user together with their password hash.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	query := `
		INSERT INTO users (user_id, name, email, phone, password_hash, role, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		strings.ToLower(user.Email),
		user.Phone,
		passwordHash,
		user.Role,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user %s: %w", user.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a specific user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	return scanUser(r.Pool.QueryRow(ctx, query, userID))
}

// FindUserByEmail retrieves a user by their unique email address.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(r.Pool.QueryRow(ctx, query, strings.ToLower(email)))
}

// FindUsersByRole retrieves every user holding the given role.
func (r *PgxUserRepository) FindUsersByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role %s: %w", role, err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// FindPasswordHashByEmail returns the user and their stored password hash.
func (r *PgxUserRepository) FindPasswordHashByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email = $1;`
	var user domain.User
	var hash string
	err := r.Pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.CreatedBy,
		&user.LastUpdatedAt,
		&user.LastUpdatedBy,
		&hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to find credentials by email: %w", err)
	}
	return &user, hash, nil
}

// UpdateUser updates an existing user's details.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Phone,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
