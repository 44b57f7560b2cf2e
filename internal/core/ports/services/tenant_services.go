package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// TenantAuthorizerSvc checks a user's membership role within a tenant.
// Every tenant-scoped service call passes through it.
type TenantAuthorizerSvc interface {
	// AuthorizeUserForTenant returns the caller's role, or a forbidden error
	// when the user is not an active member with at least requiredRole.
	AuthorizeUserForTenant(ctx context.Context, userID, tenantID string, requiredRole domain.UserTenantRole) (domain.UserTenantRole, error)
}

// TenantSvcFacade defines tenant management operations.
type TenantSvcFacade interface {
	TenantAuthorizerSvc

	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, userID string) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID, userID string) (*domain.Tenant, error)
	ListTenantsForUser(ctx context.Context, userID string) ([]domain.Tenant, error)
	UpdateTenant(ctx context.Context, tenantID string, req dto.UpdateTenantRequest, userID string) (*domain.Tenant, error)
	AddUserToTenant(ctx context.Context, tenantID string, req dto.AddUserToTenantRequest, requestingUserID string) error
	RemoveUserFromTenant(ctx context.Context, tenantID, targetUserID, requestingUserID string) error

	// SetPostingsLocked halts or resumes posting for the tenant. Set by the
	// consistency checker, cleared by an admin after repair.
	SetPostingsLocked(ctx context.Context, tenantID string, locked bool, userID string) error
}
