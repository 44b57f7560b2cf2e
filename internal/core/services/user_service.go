package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils"
	"github.com/finbooks/finbooks_backend/pkg/config"
	"github.com/google/uuid"
)

// userService implements the UserSvcFacade interface, covering registration,
// lookup and token-based authentication.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	cfg      *config.Config
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, cfg *config.Config) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID: uuid.NewString(),
		Name:   req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.SaveUser(ctx, user, req.Username, passwordHash); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("username %s is taken: %w", req.Username, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) DeactivateUser(ctx context.Context, userID, requestingUserID string) error {
	if userID != requestingUserID {
		return fmt.Errorf("users may only deactivate themselves: %w", apperrors.ErrForbidden)
	}
	return s.userRepo.DeleteUser(ctx, userID)
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	authUser, err := s.userRepo.FindAuthUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a wrong password so usernames cannot be probed.
			return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrValidation)
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, authUser.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrValidation)
	}

	token, err := utils.GenerateJWT(authUser.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", authUser.UserID))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", authUser.UserID))
	return &dto.LoginResponse{Token: token, UserID: authUser.UserID}, nil
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := utils.ParseAndValidateJWT(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperrors.ErrValidation)
	}

	// The user must still exist and not be soft-deleted.
	user, err := s.userRepo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperrors.ErrValidation)
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.LoginResponse{Token: token, UserID: user.UserID}, nil
}
