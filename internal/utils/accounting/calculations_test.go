package accounting_test

import (
	"testing"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name  string
		side  domain.TransactionSide
		group domain.LedgerGroup
		want  decimal.Decimal
	}{
		{"debit to asset increases", domain.Debit, domain.Asset, amount},
		{"credit to asset decreases", domain.Credit, domain.Asset, amount.Neg()},
		{"debit to expense increases", domain.Debit, domain.Expense, amount},
		{"debit to dividends increases", domain.Debit, domain.Dividends, amount},
		{"credit to liability increases", domain.Credit, domain.Liability, amount},
		{"debit to liability decreases", domain.Debit, domain.Liability, amount.Neg()},
		{"credit to income increases", domain.Credit, domain.Income, amount},
		{"debit to income decreases", domain.Debit, domain.Income, amount.Neg()},
		{"credit to equity increases", domain.Credit, domain.Equity, amount},
		{"credit to shares increases", domain.Credit, domain.Shares, amount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedAmount(amount, tt.side, tt.group)
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}

	t.Run("unknown ledger group rejected", func(t *testing.T) {
		_, err := accounting.SignedAmount(amount, domain.Debit, domain.LedgerGroup("BOGUS"))
		assert.Error(t, err)
	})

	t.Run("unknown side rejected", func(t *testing.T) {
		_, err := accounting.SignedAmount(amount, domain.TransactionSide("SIDEWAYS"), domain.Asset)
		assert.Error(t, err)
	})
}

func TestBalanceChanges(t *testing.T) {
	groups := map[string]domain.LedgerGroup{
		"cash":    domain.Asset,
		"revenue": domain.Income,
	}

	t.Run("double-entry affects both legs", func(t *testing.T) {
		txn := domain.LedgerTransaction{
			TransactionID:   "txn_1",
			EntryMode:       domain.DoubleEntry,
			DebitAccountID:  "cash",
			CreditAccountID: "revenue",
			Amount:          decimal.NewFromInt(100),
		}
		changes, err := accounting.BalanceChanges(txn, groups)
		assert.NoError(t, err)
		assert.Len(t, changes, 2)
		assert.True(t, decimal.NewFromInt(100).Equal(changes["cash"]))
		assert.True(t, decimal.NewFromInt(100).Equal(changes["revenue"]))
	})

	t.Run("single-entry affects one account", func(t *testing.T) {
		txn := domain.LedgerTransaction{
			TransactionID: "txn_2",
			EntryMode:     domain.SingleEntry,
			AccountID:     "cash",
			Side:          domain.Credit,
			Amount:        decimal.NewFromInt(40),
		}
		changes, err := accounting.BalanceChanges(txn, groups)
		assert.NoError(t, err)
		assert.Len(t, changes, 1)
		assert.True(t, decimal.NewFromInt(-40).Equal(changes["cash"]))
	})

	t.Run("missing ledger group fails", func(t *testing.T) {
		txn := domain.LedgerTransaction{
			TransactionID: "txn_3",
			EntryMode:     domain.SingleEntry,
			AccountID:     "unknown",
			Side:          domain.Debit,
			Amount:        decimal.NewFromInt(10),
		}
		_, err := accounting.BalanceChanges(txn, groups)
		assert.Error(t, err)
	})
}

func TestValidateGroupBalance(t *testing.T) {
	debitLine := func(account string, amount int64) domain.LedgerTransaction {
		return domain.LedgerTransaction{
			EntryMode: domain.SingleEntry, AccountID: account,
			Side: domain.Debit, Amount: decimal.NewFromInt(amount),
		}
	}
	creditLine := func(account string, amount int64) domain.LedgerTransaction {
		return domain.LedgerTransaction{
			EntryMode: domain.SingleEntry, AccountID: account,
			Side: domain.Credit, Amount: decimal.NewFromInt(amount),
		}
	}

	t.Run("balanced pair passes", func(t *testing.T) {
		err := accounting.ValidateGroupBalance([]domain.LedgerTransaction{
			debitLine("a", 100), creditLine("b", 100),
		})
		assert.NoError(t, err)
	})

	t.Run("split entry passes", func(t *testing.T) {
		err := accounting.ValidateGroupBalance([]domain.LedgerTransaction{
			debitLine("a", 300), creditLine("b", 200), creditLine("c", 100),
		})
		assert.NoError(t, err)
	})

	t.Run("single line rejected", func(t *testing.T) {
		err := accounting.ValidateGroupBalance([]domain.LedgerTransaction{debitLine("a", 100)})
		assert.ErrorContains(t, err, "at least two")
	})

	t.Run("single account rejected", func(t *testing.T) {
		err := accounting.ValidateGroupBalance([]domain.LedgerTransaction{
			debitLine("a", 100), creditLine("a", 100),
		})
		assert.ErrorContains(t, err, "two different accounts")
	})

	t.Run("unbalanced rejected", func(t *testing.T) {
		err := accounting.ValidateGroupBalance([]domain.LedgerTransaction{
			debitLine("a", 100), creditLine("b", 99),
		})
		assert.ErrorContains(t, err, "unbalanced")
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		err := accounting.ValidateGroupBalance([]domain.LedgerTransaction{
			debitLine("a", 0), creditLine("b", 0),
		})
		assert.ErrorContains(t, err, "must be positive")
	})
}

func TestConvertToBase(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		rate      string
		precision int32
		want      string
	}{
		{"identity rate", "100.00", "1", 2, "100"},
		{"simple conversion", "100.00", "0.85", 2, "85"},
		{"rounds half up", "10.005", "1", 2, "10.01"},
		{"rounds half up at boundary", "33.335", "1", 2, "33.34"},
		{"rounds down below half", "33.334", "1", 2, "33.33"},
		{"zero-decimal currency", "1234.56", "150.25", 0, "185493"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			rate := decimal.RequireFromString(tt.rate)
			want := decimal.RequireFromString(tt.want)
			got := accounting.ConvertToBase(amount, rate, tt.precision)
			assert.True(t, want.Equal(got), "want %s got %s", want, got)
		})
	}
}
