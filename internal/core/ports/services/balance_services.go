package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade is the balance calculator: pure read operations with no
// side effects, exposed to the reporting layer.
type BalanceSvcFacade interface {
	// BalanceAsOf returns the account's signed balance from all postings
	// dated on or before asOf. Reversal pairs cancel arithmetically rather
	// than being filtered, so earlier as-of dates stay historically accurate.
	BalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time, userID string) (decimal.Decimal, error)

	// BalanceBetween restricts the sum to the half-open interval (from, to].
	BalanceBetween(ctx context.Context, tenantID, accountID string, from, to time.Time, userID string) (decimal.Decimal, error)

	// TrialBalance sums per-account net balances split by normal side. An
	// unbalanced result is a consistency violation: it is escalated and the
	// tenant's ledger is halted for further posting.
	TrialBalance(ctx context.Context, tenantID string, asOf time.Time, userID string) (*domain.TrialBalanceReport, error)
}
