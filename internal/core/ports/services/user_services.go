package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// UserReaderSvc defines read operations for users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for users.
type UserWriterSvc interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID, requestingUserID string) error
}

// AuthSvc issues and validates access tokens.
type AuthSvc interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	AuthSvc
}
