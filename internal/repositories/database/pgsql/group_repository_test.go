package pgsql

import (
	"testing"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampGroupRunningBalances_SingleEntryLines(t *testing.T) {
	cashID := "acc-cash"
	revenueID := "acc-revenue"
	locked := map[string]domain.LedgerAccount{
		cashID: {
			AccountID:   cashID,
			LedgerGroup: domain.Asset,
			Balance:     decimal.NewFromInt(1000),
		},
		revenueID: {
			AccountID:   revenueID,
			LedgerGroup: domain.Income,
			Balance:     decimal.NewFromInt(400),
		},
	}
	txns := []domain.LedgerTransaction{
		{
			TransactionID: "txn-b",
			EntryMode:     domain.SingleEntry,
			AccountID:     revenueID,
			Side:          domain.Credit,
			Amount:        decimal.NewFromInt(100),
		},
		{
			TransactionID: "txn-a",
			EntryMode:     domain.SingleEntry,
			AccountID:     cashID,
			Side:          domain.Debit,
			Amount:        decimal.NewFromInt(100),
		},
	}

	require.NoError(t, stampGroupRunningBalances(txns, locked))

	// Lines are ordered by transaction ID before stamping, so txn-a comes first.
	assert.Equal(t, "txn-a", txns[0].TransactionID)
	assert.True(t, decimal.NewFromInt(1100).Equal(txns[0].RunningBalance),
		"debit to an asset account should raise its running balance, got %s", txns[0].RunningBalance)
	assert.True(t, decimal.NewFromInt(500).Equal(txns[1].RunningBalance),
		"credit to an income account should raise its running balance, got %s", txns[1].RunningBalance)
}

func TestStampGroupRunningBalances_DoubleEntryFeedsLaterLines(t *testing.T) {
	cashID := "acc-cash"
	feeID := "acc-fee"
	locked := map[string]domain.LedgerAccount{
		cashID: {AccountID: cashID, LedgerGroup: domain.Asset, Balance: decimal.NewFromInt(200)},
		feeID:  {AccountID: feeID, LedgerGroup: domain.Expense, Balance: decimal.Zero},
	}
	txns := []domain.LedgerTransaction{
		{
			TransactionID:   "txn-1",
			EntryMode:       domain.DoubleEntry,
			DebitAccountID:  feeID,
			CreditAccountID: cashID,
			Amount:          decimal.NewFromInt(50),
		},
		{
			TransactionID: "txn-2",
			EntryMode:     domain.SingleEntry,
			AccountID:     cashID,
			Side:          domain.Debit,
			Amount:        decimal.NewFromInt(30),
		},
	}

	require.NoError(t, stampGroupRunningBalances(txns, locked))

	// The double-entry credit already lowered cash to 150 before the
	// single-entry debit is stamped on top of it.
	assert.True(t, decimal.NewFromInt(180).Equal(txns[1].RunningBalance),
		"expected 200 - 50 + 30, got %s", txns[1].RunningBalance)
	// Double-entry lines carry no running balance of their own.
	assert.True(t, txns[0].RunningBalance.IsZero())
}

func TestStampGroupRunningBalances_UnknownLedgerGroup(t *testing.T) {
	accountID := "acc-broken"
	locked := map[string]domain.LedgerAccount{
		accountID: {AccountID: accountID, LedgerGroup: domain.LedgerGroup("BOGUS")},
	}
	txns := []domain.LedgerTransaction{
		{
			TransactionID: "txn-1",
			EntryMode:     domain.SingleEntry,
			AccountID:     accountID,
			Side:          domain.Debit,
			Amount:        decimal.NewFromInt(10),
		},
	}

	err := stampGroupRunningBalances(txns, locked)

	require.Error(t, err)
	assert.Contains(t, err.Error(), accountID)
}
