package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// CategorySvcFacade defines operations on account categories.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, tenantID string, req dto.CreateCategoryRequest, userID string) (*domain.LedgerAccountCategory, error)
	GetCategoryByID(ctx context.Context, tenantID, categoryID, userID string) (*domain.LedgerAccountCategory, error)
	ListCategories(ctx context.Context, tenantID, userID string) ([]domain.LedgerAccountCategory, error)

	// UpdateCategory updates a category. Changing the ledger group is
	// rejected with a conflict error once postings reference accounts of the
	// category.
	UpdateCategory(ctx context.Context, tenantID, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.LedgerAccountCategory, error)
}
