package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostSingleEntryRequest defines the payload for a single-entry posting.
// Single-entry mode is intentionally unchecked for balance; the caller asserts
// correctness.
type PostSingleEntryRequest struct {
	AccountID       string           `json:"accountID" binding:"required"`
	Side            string           `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode    string           `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"` // Defaults from the rate registry when omitted
	TransactionDate time.Time        `json:"transactionDate" binding:"required"`
	RelatedToType   *string          `json:"relatedToType"`
	RelatedToID     *string          `json:"relatedToID"`
	PaymentMethod   *string          `json:"paymentMethod"`
	Notes           string           `json:"notes"`
}

// PostDoubleEntryRequest defines the payload for a double-entry posting.
type PostDoubleEntryRequest struct {
	DebitAccountID  string           `json:"debitAccountID" binding:"required"`
	CreditAccountID string           `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode    string           `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	TransactionDate time.Time        `json:"transactionDate" binding:"required"`
	RelatedToType   *string          `json:"relatedToType"`
	RelatedToID     *string          `json:"relatedToID"`
	PaymentMethod   *string          `json:"paymentMethod"`
	Notes           string           `json:"notes"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	GroupID         *string         `json:"groupID,omitempty"`
	EntryMode       string          `json:"entryMode"`
	AccountID       string          `json:"accountID,omitempty"`
	Side            string          `json:"side,omitempty"`
	DebitAccountID  string          `json:"debitAccountID,omitempty"`
	CreditAccountID string          `json:"creditAccountID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Verified        bool            `json:"verified"`
	Archived        bool            `json:"archived"`
	ReversalOfID    *string         `json:"reversalOfID,omitempty"`
	RelatedToType   *string         `json:"relatedToType,omitempty"`
	RelatedToID     *string         `json:"relatedToID,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
}

// ListTransactionsParams holds pagination parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is the paginated transaction list payload.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain transaction to its response DTO.
func ToTransactionResponse(t *domain.LedgerTransaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:   t.TransactionID,
		GroupID:         t.GroupID,
		EntryMode:       string(t.EntryMode),
		AccountID:       t.AccountID,
		Side:            string(t.Side),
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
		Amount:          t.Amount,
		CurrencyCode:    t.CurrencyCode,
		ExchangeRate:    t.ExchangeRate,
		BaseAmount:      t.BaseAmount,
		TransactionDate: t.TransactionDate,
		Verified:        t.Verified,
		Archived:        t.Archived,
		ReversalOfID:    t.ReversalOfID,
		RelatedToID:     t.RelatedToID,
		Notes:           t.Notes,
		RunningBalance:  t.RunningBalance,
	}
	if t.RelatedToType != nil {
		s := string(*t.RelatedToType)
		resp.RelatedToType = &s
	}
	return resp
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.LedgerTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
