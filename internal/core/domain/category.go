package domain

// LedgerGroup is the top-level accounting classification of an account
// category. It determines the account's normal-balance side.
type LedgerGroup string

const (
	Asset     LedgerGroup = "ASSET"
	Liability LedgerGroup = "LIABILITY"
	Equity    LedgerGroup = "EQUITY"
	Income    LedgerGroup = "INCOME"
	Expense   LedgerGroup = "EXPENSE"
	Shares    LedgerGroup = "SHARES"
	Dividends LedgerGroup = "DIVIDENDS"
)

// IsValid reports whether g is one of the known ledger groups.
func (g LedgerGroup) IsValid() bool {
	switch g {
	case Asset, Liability, Equity, Income, Expense, Shares, Dividends:
		return true
	}
	return false
}

// NormalBalance returns the side on which accounts of this group
// conventionally increase. Asset/Expense/Dividends accounts increase on
// DEBIT; Liability/Equity/Income/Shares accounts increase on CREDIT.
func (g LedgerGroup) NormalBalance() TransactionSide {
	switch g {
	case Asset, Expense, Dividends:
		return Debit
	default:
		return Credit
	}
}

// LedgerAccountCategory maps a category name to a ledger group and thus to a
// normal-balance side. The group is immutable once transactions reference
// accounts of this category; changing it would silently flip the sign of
// historical balances.
type LedgerAccountCategory struct {
	CategoryID     string      `json:"categoryID"` // Primary Key (UUID)
	TenantID       string      `json:"tenantID"`
	Name           string      `json:"name"` // Unique within tenant
	LedgerGroup    LedgerGroup `json:"ledgerGroup"`
	LedgerSubGroup string      `json:"ledgerSubGroup"` // Optional finer classification
	AuditFields
}
