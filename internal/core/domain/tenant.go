package domain

import "time"

// Tenant represents an isolated brokerage environment containing its own chart
// of accounts, transactions, documents and users.
type Tenant struct {
	TenantID            string  `json:"tenantID"` // Primary Key (UUID)
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"` // Base currency for exchange-rate conversion
	IsActive            bool    `json:"isActive"`
	// PostingsLocked halts all further automated posting for this tenant. It is
	// set when a consistency check (e.g. trial balance) fails and must be
	// cleared by an operator after investigation.
	PostingsLocked bool `json:"postingsLocked"`
	AuditFields
}

// UserTenantRole defines the possible roles a user can have within a tenant.
type UserTenantRole string

const (
	RoleAdmin    UserTenantRole = "ADMIN"
	RoleMember   UserTenantRole = "MEMBER"
	RoleReadOnly UserTenantRole = "READONLY"
	RoleRemoved  UserTenantRole = "REMOVED"
)

// UserTenant represents the membership of a User in a Tenant.
type UserTenant struct {
	UserID   string         `json:"userID"`
	UserName string         `json:"userName"`
	TenantID string         `json:"tenantID"`
	Role     UserTenantRole `json:"role"`
	JoinedAt time.Time      `json:"joinedAt"`
}

// CanAct reports whether a role satisfies the required role. ADMIN satisfies
// everything, MEMBER satisfies MEMBER and READONLY, READONLY only itself.
func (r UserTenantRole) CanAct(required UserTenantRole) bool {
	switch required {
	case RoleReadOnly:
		return r == RoleAdmin || r == RoleMember || r == RoleReadOnly
	case RoleMember:
		return r == RoleAdmin || r == RoleMember
	case RoleAdmin:
		return r == RoleAdmin
	default:
		return false
	}
}
