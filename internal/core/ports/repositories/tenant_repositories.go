package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// TenantReader defines read operations for tenants and memberships.
type TenantReader interface {
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error)
	ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error)
}

// TenantWriter defines write operations for tenants and memberships.
type TenantWriter interface {
	SaveTenant(ctx context.Context, tenant domain.Tenant) error
	UpdateTenant(ctx context.Context, tenant domain.Tenant) error
	AddUserToTenant(ctx context.Context, membership domain.UserTenant) error
	UpdateUserTenantRole(ctx context.Context, userID, tenantID string, role domain.UserTenantRole) error

	// SetPostingsLocked flips the tenant's posting-halt flag. Set when a
	// consistency check fails; cleared manually after investigation.
	SetPostingsLocked(ctx context.Context, tenantID string, locked bool, updatedByUserID string, updatedAt time.Time) error
}

// TenantRepositoryFacade combines all tenant repository interfaces.
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
}
