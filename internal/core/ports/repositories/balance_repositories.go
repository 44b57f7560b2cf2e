package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceRepository exposes database-side aggregates over the transaction
// history. Balances are signed per the account's normal side. Reversed
// transactions and their reversals both count: a reversal is a contra posting
// dated at reversal time, so point-in-time balances before the reversal stay
// historically accurate.
type BalanceRepository interface {
	// BalanceAsOf sums all legs posted to the account with transaction date <= asOf.
	BalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error)

	// BalanceBetween is BalanceAsOf restricted to the half-open interval (from, to].
	BalanceBetween(ctx context.Context, tenantID, accountID string, from, to time.Time) (decimal.Decimal, error)

	// TrialBalanceData returns the per-account net balances as of a date,
	// split into debit/credit columns by the side the net sits on.
	TrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
}

// ReportingRepository exposes the aggregates behind the financial reports.
type ReportingRepository interface {
	GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) (income, expenses []domain.AccountAmount, err error)
	GetBalanceSheetData(ctx context.Context, tenantID string, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)
}
