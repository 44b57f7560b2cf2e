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

const categoryColumns = `
	c.category_id, c.tenant_id, c.name, c.ledger_group, c.ledger_sub_group,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by`

// PgCategoryRepository implements the CategoryRepositoryFacade using PostgreSQL.
type PgCategoryRepository struct {
	BaseRepository
}

// NewPgCategoryRepository creates a new PgCategoryRepository.
func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgCategoryRepository)(nil)

func scanCategory(row pgx.Row) (*domain.LedgerAccountCategory, error) {
	var category domain.LedgerAccountCategory
	err := row.Scan(
		&category.CategoryID,
		&category.TenantID,
		&category.Name,
		&category.LedgerGroup,
		&category.LedgerSubGroup,
		&category.CreatedAt,
		&category.CreatedBy,
		&category.LastUpdatedAt,
		&category.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// SaveCategory persists a new category. The unique index on (tenant_id, name)
// rejects duplicate names within a tenant.
func (r *PgCategoryRepository) SaveCategory(ctx context.Context, category domain.LedgerAccountCategory) error {
	query := `
		INSERT INTO account_categories (
			category_id, tenant_id, name, ledger_group, ledger_sub_group,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID, category.TenantID, category.Name,
		category.LedgerGroup, category.LedgerSubGroup,
		category.CreatedAt, category.CreatedBy,
		category.LastUpdatedAt, category.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("category %q: %w", category.Name, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save category", err)
	}
	return nil
}

// UpdateCategory persists changes to an existing category.
func (r *PgCategoryRepository) UpdateCategory(ctx context.Context, category domain.LedgerAccountCategory) error {
	query := `
		UPDATE account_categories
		SET name = $3, ledger_group = $4, ledger_sub_group = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE category_id = $1 AND tenant_id = $2
	`
	tag, err := r.Pool.Exec(ctx, query,
		category.CategoryID, category.TenantID, category.Name,
		category.LedgerGroup, category.LedgerSubGroup,
		category.LastUpdatedAt, category.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("category %q: %w", category.Name, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to update category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", category.CategoryID, apperrors.ErrNotFound)
	}
	return nil
}

// FindCategoryByID retrieves a category within a tenant.
func (r *PgCategoryRepository) FindCategoryByID(ctx context.Context, tenantID, categoryID string) (*domain.LedgerAccountCategory, error) {
	query := `SELECT ` + categoryColumns + `
		FROM account_categories c
		WHERE c.category_id = $1 AND c.tenant_id = $2`
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find category", err)
	}
	return category, nil
}

// FindCategoryByName retrieves a category by its tenant-unique name.
func (r *PgCategoryRepository) FindCategoryByName(ctx context.Context, tenantID, name string) (*domain.LedgerAccountCategory, error) {
	query := `SELECT ` + categoryColumns + `
		FROM account_categories c
		WHERE c.tenant_id = $1 AND c.name = $2`
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, tenantID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find category", err)
	}
	return category, nil
}

// ListCategories retrieves all categories of a tenant ordered by name.
func (r *PgCategoryRepository) ListCategories(ctx context.Context, tenantID string) ([]domain.LedgerAccountCategory, error) {
	query := `SELECT ` + categoryColumns + `
		FROM account_categories c
		WHERE c.tenant_id = $1
		ORDER BY c.name`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list categories", err)
	}
	defer rows.Close()

	var categories []domain.LedgerAccountCategory
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate categories", err)
	}
	return categories, nil
}

// CategoryHasPostings reports whether any transaction posts to an account of
// this category.
func (r *PgCategoryRepository) CategoryHasPostings(ctx context.Context, categoryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM accounts a
			JOIN transactions t
			  ON t.account_id = a.account_id
			  OR t.debit_account_id = a.account_id
			  OR t.credit_account_id = a.account_id
			WHERE a.category_id = $1
		)
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check category postings", err)
	}
	return exists, nil
}
