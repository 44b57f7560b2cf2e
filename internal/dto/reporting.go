package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse is the payload for a single account balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      string          `json:"asOf,omitempty"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
}

// TrialBalanceResponse wraps the trial balance report.
type TrialBalanceResponse struct {
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
	Balanced    bool                     `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain trial balance report.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	return TrialBalanceResponse{
		Rows:        r.Rows,
		TotalDebit:  r.TotalDebit,
		TotalCredit: r.TotalCredit,
		Balanced:    r.Balanced(),
	}
}
