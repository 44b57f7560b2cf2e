package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report. The
// account's net balance appears in the debit column when it sits on the debit
// side, otherwise in the credit column.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	LedgerGroup LedgerGroup     `json:"ledgerGroup"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport is the full trial balance as of a date. TotalDebit and
// TotalCredit must be equal for a consistent ledger.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// Balanced reports whether the trial balance totals are equal.
func (r *TrialBalanceReport) Balanced() bool {
	return r.TotalDebit.Equal(r.TotalCredit)
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	Income    []AccountAmount `json:"income"`
	Expenses  []AccountAmount `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport represents a balance sheet report.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// AgingReportRow is one bucket of the receivables/payables aging report.
type AgingReportRow struct {
	Bucket        AgingBucket     `json:"bucket"`
	DocumentCount int             `json:"documentCount"`
	AmountDue     decimal.Decimal `json:"amountDue"`
}

// AgingReport groups open documents of one type by how far past due they are.
type AgingReport struct {
	DocumentType DocumentType     `json:"documentType"`
	Rows         []AgingReportRow `json:"rows"`
	TotalDue     decimal.Decimal  `json:"totalDue"`
}
