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
	"github.com/google/uuid"
)

// tenantService implements the TenantSvcFacade interface.
type tenantService struct {
	BaseService
	tenantRepo   portsrepo.TenantRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewTenantService creates a new tenant service.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, currencyRepo portsrepo.CurrencyReader) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo:   tenantRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// AuthorizeUserForTenant checks tenant membership and role. Non-members and
// removed members are rejected with a forbidden error.
func (s *tenantService) AuthorizeUserForTenant(ctx context.Context, userID, tenantID string, requiredRole domain.UserTenantRole) (domain.UserTenantRole, error) {
	membership, err := s.tenantRepo.FindUserTenantRole(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("user %s is not a member of tenant %s: %w", userID, tenantID, apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "Failed to look up tenant membership",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return "", err
	}
	if membership.Role == domain.RoleRemoved {
		return "", fmt.Errorf("user %s was removed from tenant %s: %w", userID, tenantID, apperrors.ErrForbidden)
	}
	if !membership.Role.CanAct(requiredRole) {
		return "", fmt.Errorf("role %s does not satisfy required role %s: %w", membership.Role, requiredRole, apperrors.ErrForbidden)
	}
	return membership.Role, nil
}

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, userID string) (*domain.Tenant, error) {
	if req.DefaultCurrencyCode != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, *req.DefaultCurrencyCode); err != nil {
			return nil, fmt.Errorf("invalid default currency code: %w", err)
		}
	}

	now := time.Now()
	tenant := domain.Tenant{
		TenantID:            uuid.NewString(),
		Name:                req.Name,
		Description:         req.Description,
		DefaultCurrencyCode: req.DefaultCurrencyCode,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		s.LogError(ctx, err, "Failed to save tenant", slog.String("tenant_id", tenant.TenantID))
		return nil, err
	}

	// The creator becomes the first admin.
	membership := domain.UserTenant{
		UserID:   userID,
		TenantID: tenant.TenantID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add creator to tenant",
			slog.String("tenant_id", tenant.TenantID),
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Tenant created", slog.String("tenant_id", tenant.TenantID))
	return &tenant, nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, tenantID, userID string) (*domain.Tenant, error) {
	if _, err := s.AuthorizeUserForTenant(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.tenantRepo.FindTenantByID(ctx, tenantID)
}

func (s *tenantService) ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenantsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for user", slog.String("user_id", userID))
		return nil, err
	}
	if tenants == nil {
		return []domain.Tenant{}, nil
	}
	return tenants, nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, tenantID string, req dto.UpdateTenantRequest, userID string) (*domain.Tenant, error) {
	if _, err := s.AuthorizeUserForTenant(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		tenant.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		tenant.Description = *req.Description
		updated = true
	}
	if req.DefaultCurrencyCode != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, *req.DefaultCurrencyCode); err != nil {
			return nil, fmt.Errorf("invalid default currency code: %w", err)
		}
		tenant.DefaultCurrencyCode = req.DefaultCurrencyCode
		updated = true
	}
	if !updated {
		return tenant, nil
	}

	now := time.Now()
	tenant.LastUpdatedAt = now
	tenant.LastUpdatedBy = userID

	if err := s.tenantRepo.UpdateTenant(ctx, *tenant); err != nil {
		s.LogError(ctx, err, "Failed to update tenant", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) AddUserToTenant(ctx context.Context, tenantID string, req dto.AddUserToTenantRequest, requestingUserID string) error {
	if _, err := s.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	role := domain.UserTenantRole(req.Role)
	membership := domain.UserTenant{
		UserID:   req.UserID,
		TenantID: tenantID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to tenant",
			slog.String("tenant_id", tenantID),
			slog.String("user_id", req.UserID))
		return err
	}
	s.LogInfo(ctx, "User added to tenant",
		slog.String("tenant_id", tenantID),
		slog.String("user_id", req.UserID),
		slog.String("role", string(role)))
	return nil
}

func (s *tenantService) RemoveUserFromTenant(ctx context.Context, tenantID, targetUserID, requestingUserID string) error {
	if _, err := s.AuthorizeUserForTenant(ctx, requestingUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}
	if targetUserID == requestingUserID {
		return fmt.Errorf("cannot remove yourself from a tenant: %w", apperrors.ErrValidation)
	}
	return s.tenantRepo.UpdateUserTenantRole(ctx, targetUserID, tenantID, domain.RoleRemoved)
}

func (s *tenantService) SetPostingsLocked(ctx context.Context, tenantID string, locked bool, userID string) error {
	if _, err := s.AuthorizeUserForTenant(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.tenantRepo.SetPostingsLocked(ctx, tenantID, locked, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to set postings lock", slog.String("tenant_id", tenantID))
		return err
	}
	s.LogInfo(ctx, "Postings lock changed",
		slog.String("tenant_id", tenantID),
		slog.Bool("locked", locked))
	return nil
}
