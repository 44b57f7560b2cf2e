package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CategoryReader defines read operations for account categories.
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, tenantID, categoryID string) (*domain.LedgerAccountCategory, error)
	FindCategoryByName(ctx context.Context, tenantID, name string) (*domain.LedgerAccountCategory, error)
	ListCategories(ctx context.Context, tenantID string) ([]domain.LedgerAccountCategory, error)

	// CategoryHasPostings reports whether any transaction references an
	// account of this category. Used to enforce ledger-group immutability.
	CategoryHasPostings(ctx context.Context, categoryID string) (bool, error)
}

// CategoryWriter defines write operations for account categories.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.LedgerAccountCategory) error
	UpdateCategory(ctx context.Context, category domain.LedgerAccountCategory) error
}

// CategoryRepositoryFacade combines all category repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
