package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateCategoryRequest defines the payload for creating an account category.
type CreateCategoryRequest struct {
	Name           string `json:"name" binding:"required"`
	LedgerGroup    string `json:"ledgerGroup" binding:"required"`
	LedgerSubGroup string `json:"ledgerSubGroup"`
}

// UpdateCategoryRequest defines the payload for updating an account category.
// The ledger group may only change while no postings reference the category.
type UpdateCategoryRequest struct {
	Name           *string `json:"name"`
	LedgerGroup    *string `json:"ledgerGroup"`
	LedgerSubGroup *string `json:"ledgerSubGroup"`
}

// CategoryResponse defines the data returned for an account category.
type CategoryResponse struct {
	CategoryID     string `json:"categoryID"`
	Name           string `json:"name"`
	LedgerGroup    string `json:"ledgerGroup"`
	LedgerSubGroup string `json:"ledgerSubGroup,omitempty"`
	NormalBalance  string `json:"normalBalance"`
}

// ToCategoryResponse converts a domain category to its response DTO.
func ToCategoryResponse(c *domain.LedgerAccountCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID:     c.CategoryID,
		Name:           c.Name,
		LedgerGroup:    string(c.LedgerGroup),
		LedgerSubGroup: c.LedgerSubGroup,
		NormalBalance:  string(c.LedgerGroup.NormalBalance()),
	}
}
