package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateTenantRequest defines the payload for creating a tenant.
type CreateTenantRequest struct {
	Name                string  `json:"name" binding:"required"`
	Description         string  `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"`
}

// UpdateTenantRequest defines the payload for updating a tenant. Nil fields
// are left unchanged.
type UpdateTenantRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"`
}

// AddUserToTenantRequest defines the payload for adding a user to a tenant.
type AddUserToTenantRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID            string  `json:"tenantID"`
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode,omitempty"`
	IsActive            bool    `json:"isActive"`
	PostingsLocked      bool    `json:"postingsLocked"`
}

// ToTenantResponse converts a domain tenant to its response DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:            t.TenantID,
		Name:                t.Name,
		Description:         t.Description,
		DefaultCurrencyCode: t.DefaultCurrencyCode,
		IsActive:            t.IsActive,
		PostingsLocked:      t.PostingsLocked,
	}
}

// ToTenantResponses converts a slice of tenants.
func ToTenantResponses(tenants []domain.Tenant) []TenantResponse {
	out := make([]TenantResponse, len(tenants))
	for i := range tenants {
		out[i] = ToTenantResponse(&tenants[i])
	}
	return out
}
