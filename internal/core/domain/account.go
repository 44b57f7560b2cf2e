package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultAccountPurpose identifies a well-known system account created on
// first use via an idempotent upsert keyed by (tenant, purpose).
type DefaultAccountPurpose string

const (
	PurposeCash       DefaultAccountPurpose = "CASH"
	PurposeReceivable DefaultAccountPurpose = "RECEIVABLE"
	PurposePayable    DefaultAccountPurpose = "PAYABLE"
	PurposeSales      DefaultAccountPurpose = "SALES"
	PurposeExpense    DefaultAccountPurpose = "EXPENSE"
	PurposeSuspense   DefaultAccountPurpose = "SUSPENSE"
)

// IsValid reports whether p is one of the known purposes.
func (p DefaultAccountPurpose) IsValid() bool {
	switch p {
	case PurposeCash, PurposeReceivable, PurposePayable, PurposeSales, PurposeExpense, PurposeSuspense:
		return true
	}
	return false
}

// LedgerAccount represents a financial account within the chart of accounts.
// This is the primary representation used by services.
type LedgerAccount struct {
	AccountID       string `json:"accountID"` // Primary Key (UUID)
	TenantID        string `json:"tenantID"`
	Name            string `json:"name"`
	Number          string `json:"number"` // Human-readable account code
	CategoryID      string `json:"categoryID"`
	ParentAccountID string `json:"parentAccountID"` // Nullable, self-referencing
	CurrencyCode    string `json:"currencyCode"`
	SystemAccount   bool   `json:"systemAccount"` // Not user-deletable
	Editable        bool   `json:"editable"`
	Hidden          bool   `json:"hidden"`
	Archived        bool   `json:"archived"` // Soft delete; never hard-deleted once posted to
	// LedgerGroup is resolved from the category on read; it is not stored on
	// the account row itself.
	LedgerGroup LedgerGroup `json:"ledgerGroup"`
	// Purpose is set only for accounts created through the default-account
	// upsert.
	Purpose *DefaultAccountPurpose `json:"purpose,omitempty"`
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Persisted running balance, signed per normal side
}
