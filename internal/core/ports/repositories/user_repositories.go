package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// AuthUser is the authentication-facing view of a user row.
type AuthUser struct {
	UserID       string
	Username     string
	Name         string
	PasswordHash string
}

// UserRepositoryFacade defines persistence operations for users.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User, username, passwordHash string) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindAuthUserByUsername(ctx context.Context, username string) (*AuthUser, error)
	DeleteUser(ctx context.Context, userID string) error
}
