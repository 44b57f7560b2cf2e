package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating a ledger account.
type CreateAccountRequest struct {
	Name            string  `json:"name" binding:"required"`
	Number          string  `json:"number"`
	CategoryID      string  `json:"categoryID" binding:"required"`
	ParentAccountID *string `json:"parentAccountID"`
	CurrencyCode    string  `json:"currencyCode" binding:"required,len=3"`
	Hidden          bool    `json:"hidden"`
}

// UpdateAccountRequest defines the payload for updating a ledger account.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name   *string `json:"name"`
	Number *string `json:"number"`
	Hidden *bool   `json:"hidden"`
}

// AccountResponse defines the data returned for a ledger account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	Name            string          `json:"name"`
	Number          string          `json:"number"`
	CategoryID      string          `json:"categoryID"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	CurrencyCode    string          `json:"currencyCode"`
	LedgerGroup     string          `json:"ledgerGroup"`
	SystemAccount   bool            `json:"systemAccount"`
	Hidden          bool            `json:"hidden"`
	Archived        bool            `json:"archived"`
	Balance         decimal.Decimal `json:"balance"`
}

// ListAccountsParams holds pagination parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int
	NextToken *string
}

// ListAccountsResponse is the paginated account list payload.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAccountResponse converts a domain.LedgerAccount to its response DTO.
func ToAccountResponse(a *domain.LedgerAccount) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Name:            a.Name,
		Number:          a.Number,
		CategoryID:      a.CategoryID,
		ParentAccountID: a.ParentAccountID,
		CurrencyCode:    a.CurrencyCode,
		LedgerGroup:     string(a.LedgerGroup),
		SystemAccount:   a.SystemAccount,
		Hidden:          a.Hidden,
		Archived:        a.Archived,
		Balance:         a.Balance,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.LedgerAccount) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
