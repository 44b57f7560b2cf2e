package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupLineRequest is one line of a multi-line journal entry.
type GroupLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Side      string          `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Notes     string          `json:"notes"`
}

// CreateGroupRequest defines the payload for creating a balanced transaction group.
type CreateGroupRequest struct {
	GroupDate    time.Time          `json:"groupDate" binding:"required"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	Description  string             `json:"description" binding:"required"`
	ExchangeRate *decimal.Decimal   `json:"exchangeRate"`
	Lines        []GroupLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// GroupResponse defines the data returned for a transaction group.
type GroupResponse struct {
	GroupID          string                `json:"groupID"`
	GroupDate        time.Time             `json:"groupDate"`
	Description      string                `json:"description"`
	CurrencyCode     string                `json:"currencyCode"`
	Status           string                `json:"status"`
	TotalDebit       decimal.Decimal       `json:"totalDebit"`
	TotalCredit      decimal.Decimal       `json:"totalCredit"`
	OriginalGroupID  *string               `json:"originalGroupID,omitempty"`
	ReversingGroupID *string               `json:"reversingGroupID,omitempty"`
	Transactions     []TransactionResponse `json:"transactions,omitempty"`
}

// ListGroupsParams holds parameters for listing groups.
type ListGroupsParams struct {
	Limit               int
	NextToken           *string
	IncludeReversals    bool
	IncludeTransactions bool
}

// ListGroupsResponse is the paginated group list payload.
type ListGroupsResponse struct {
	Groups    []GroupResponse `json:"groups"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToGroupResponse converts a domain group to its response DTO.
func ToGroupResponse(g *domain.LedgerTransactionGroup) GroupResponse {
	resp := GroupResponse{
		GroupID:          g.GroupID,
		GroupDate:        g.GroupDate,
		Description:      g.Description,
		CurrencyCode:     g.CurrencyCode,
		Status:           string(g.Status),
		TotalDebit:       g.TotalDebit,
		TotalCredit:      g.TotalCredit,
		OriginalGroupID:  g.OriginalGroupID,
		ReversingGroupID: g.ReversingGroupID,
	}
	if len(g.Transactions) > 0 {
		resp.Transactions = ToTransactionResponses(g.Transactions)
	}
	return resp
}
