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

// categoryService implements the CategorySvcFacade interface.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, authorizer portssvc.TenantAuthorizerSvc) portssvc.CategorySvcFacade {
	svc := &categoryService{categoryRepo: categoryRepo}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, tenantID string, req dto.CreateCategoryRequest, userID string) (*domain.LedgerAccountCategory, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	group := domain.LedgerGroup(req.LedgerGroup)
	if !group.IsValid() {
		return nil, fmt.Errorf("unknown ledger group %q: %w", req.LedgerGroup, apperrors.ErrValidation)
	}

	// Category names are unique within a tenant.
	if _, err := s.categoryRepo.FindCategoryByName(ctx, tenantID, req.Name); err == nil {
		return nil, fmt.Errorf("category %q already exists: %w", req.Name, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	category := domain.LedgerAccountCategory{
		CategoryID:     uuid.NewString(),
		TenantID:       tenantID,
		Name:           req.Name,
		LedgerGroup:    group,
		LedgerSubGroup: req.LedgerSubGroup,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category",
			slog.String("category_id", category.CategoryID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Category created",
		slog.String("category_id", category.CategoryID),
		slog.String("ledger_group", string(group)))
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, tenantID, categoryID, userID string) (*domain.LedgerAccountCategory, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindCategoryByID(ctx, tenantID, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context, tenantID, userID string) ([]domain.LedgerAccountCategory, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategories(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if categories == nil {
		return []domain.LedgerAccountCategory{}, nil
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, tenantID, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.LedgerAccountCategory, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != category.Name {
		if _, err := s.categoryRepo.FindCategoryByName(ctx, tenantID, *req.Name); err == nil {
			return nil, fmt.Errorf("category %q already exists: %w", *req.Name, apperrors.ErrDuplicate)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		category.Name = *req.Name
		updated = true
	}
	if req.LedgerSubGroup != nil {
		category.LedgerSubGroup = *req.LedgerSubGroup
		updated = true
	}
	if req.LedgerGroup != nil && domain.LedgerGroup(*req.LedgerGroup) != category.LedgerGroup {
		newGroup := domain.LedgerGroup(*req.LedgerGroup)
		if !newGroup.IsValid() {
			return nil, fmt.Errorf("unknown ledger group %q: %w", *req.LedgerGroup, apperrors.ErrValidation)
		}
		// Changing the ledger group flips the sign convention of every
		// historical posting against the category's accounts. Once any
		// posting exists the group is frozen.
		hasPostings, err := s.categoryRepo.CategoryHasPostings(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if hasPostings {
			return nil, fmt.Errorf("ledger group is immutable once the category has postings: %w", apperrors.ErrConflict)
		}
		category.LedgerGroup = newGroup
		updated = true
	}
	if !updated {
		return category, nil
	}

	now := time.Now()
	category.LastUpdatedAt = now
	category.LastUpdatedBy = userID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}
