package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository implements the UserRepositoryFacade using PostgreSQL.
type PgUserRepository struct {
	BaseRepository
}

// NewPgUserRepository creates a new PgUserRepository.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgUserRepository)(nil)

// SaveUser persists a new user with their login credentials.
func (r *PgUserRepository) SaveUser(ctx context.Context, user domain.User, username, passwordHash string) error {
	query := `
		INSERT INTO users (
			user_id, name, username, password_hash,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID, user.Name, username, passwordHash,
		user.CreatedAt, user.CreatedBy, user.LastUpdatedAt, user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("username %q: %w", username, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save user", err)
	}
	return nil
}

// FindUserByID retrieves a non-deleted user.
func (r *PgUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, name, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	var user domain.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Name,
		&user.CreatedAt,
		&user.CreatedBy,
		&user.LastUpdatedAt,
		&user.LastUpdatedBy,
		&user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find user", err)
	}
	return &user, nil
}

// FindAuthUserByUsername retrieves the credential view of a non-deleted user.
func (r *PgUserRepository) FindAuthUserByUsername(ctx context.Context, username string) (*portsrepo.AuthUser, error) {
	query := `
		SELECT user_id, username, name, password_hash
		FROM users
		WHERE username = $1 AND deleted_at IS NULL
	`
	var user portsrepo.AuthUser
	err := r.Pool.QueryRow(ctx, query, username).Scan(
		&user.UserID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find user", err)
	}
	return &user, nil
}

// DeleteUser soft-deletes a user.
func (r *PgUserRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(), last_updated_at = NOW(), last_updated_by = $1
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	tag, err := r.Pool.Exec(ctx, query, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}
