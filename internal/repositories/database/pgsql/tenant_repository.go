package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tenantColumns = `
	t.tenant_id, t.name, t.description, t.default_currency_code, t.is_active,
	t.postings_locked, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

// PgTenantRepository implements the TenantRepositoryFacade using PostgreSQL.
type PgTenantRepository struct {
	BaseRepository
}

// NewPgTenantRepository creates a new PgTenantRepository.
func NewPgTenantRepository(pool *pgxpool.Pool) *PgTenantRepository {
	return &PgTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TenantRepositoryFacade = (*PgTenantRepository)(nil)

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.TenantID,
		&tenant.Name,
		&tenant.Description,
		&tenant.DefaultCurrencyCode,
		&tenant.IsActive,
		&tenant.PostingsLocked,
		&tenant.CreatedAt,
		&tenant.CreatedBy,
		&tenant.LastUpdatedAt,
		&tenant.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// SaveTenant persists a new tenant.
func (r *PgTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, name, description, default_currency_code, is_active,
			postings_locked, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.Pool.Exec(ctx, query,
		tenant.TenantID, tenant.Name, tenant.Description, tenant.DefaultCurrencyCode,
		tenant.IsActive, tenant.PostingsLocked,
		tenant.CreatedAt, tenant.CreatedBy, tenant.LastUpdatedAt, tenant.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("tenant %s: %w", tenant.TenantID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save tenant", err)
	}
	return nil
}

// UpdateTenant persists changes to tenant metadata.
func (r *PgTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, description = $3, default_currency_code = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query,
		tenant.TenantID, tenant.Name, tenant.Description, tenant.DefaultCurrencyCode,
		tenant.IsActive, tenant.LastUpdatedAt, tenant.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update tenant", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tenant %s: %w", tenant.TenantID, apperrors.ErrNotFound)
	}
	return nil
}

// SetPostingsLocked flips the tenant's posting-halt flag.
func (r *PgTenantRepository) SetPostingsLocked(ctx context.Context, tenantID string, locked bool, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE tenants
		SET postings_locked = $2, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, locked, updatedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set postings lock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
	}
	return nil
}

// FindTenantByID retrieves a tenant.
func (r *PgTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants t
		WHERE t.tenant_id = $1`
	tenant, err := scanTenant(r.Pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant", err)
	}
	return tenant, nil
}

// FindUserTenantRole retrieves a user's membership in a tenant.
func (r *PgTenantRepository) FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error) {
	query := `
		SELECT ut.user_id, u.name, ut.tenant_id, ut.role, ut.joined_at
		FROM user_tenants ut
		JOIN users u ON u.user_id = ut.user_id
		WHERE ut.user_id = $1 AND ut.tenant_id = $2
	`
	var membership domain.UserTenant
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(
		&membership.UserID,
		&membership.UserName,
		&membership.TenantID,
		&membership.Role,
		&membership.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("membership of user %s in tenant %s: %w", userID, tenantID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find membership", err)
	}
	return &membership, nil
}

// ListTenantsByUser retrieves all tenants where the user holds an active role.
func (r *PgTenantRepository) ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants t
		JOIN user_tenants ut ON ut.tenant_id = t.tenant_id
		WHERE ut.user_id = $1 AND ut.role <> $2
		ORDER BY t.name`
	rows, err := r.Pool.Query(ctx, query, userID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list tenants", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tenant", err)
		}
		tenants = append(tenants, *tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate tenants", err)
	}
	return tenants, nil
}

// AddUserToTenant persists a membership. Re-adding an existing membership is
// a duplicate; role changes go through UpdateUserTenantRole.
func (r *PgTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	query := `
		INSERT INTO user_tenants (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID, membership.TenantID, membership.Role, membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user %s already in tenant %s: %w", membership.UserID, membership.TenantID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to add user to tenant", err)
	}
	return nil
}

// UpdateUserTenantRole changes a membership's role.
func (r *PgTenantRepository) UpdateUserTenantRole(ctx context.Context, userID, tenantID string, role domain.UserTenantRole) error {
	query := `
		UPDATE user_tenants
		SET role = $3
		WHERE user_id = $1 AND tenant_id = $2
	`
	tag, err := r.Pool.Exec(ctx, query, userID, tenantID, role)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update membership role", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membership of user %s in tenant %s: %w", userID, tenantID, apperrors.ErrNotFound)
	}
	return nil
}
