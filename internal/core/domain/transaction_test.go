package domain_test

import (
	"testing"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      domain.LedgerTransaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid single-entry debit",
			tx: domain.LedgerTransaction{
				TransactionID: "txn_1",
				EntryMode:     domain.SingleEntry,
				AccountID:     "acc_1",
				Side:          domain.Debit,
				Amount:        decimal.NewFromFloat(100.00),
				ExchangeRate:  decimal.NewFromInt(1),
				CurrencyCode:  "USD",
			},
			wantErr: false,
		},
		{
			name: "valid double-entry",
			tx: domain.LedgerTransaction{
				TransactionID:   "txn_2",
				EntryMode:       domain.DoubleEntry,
				DebitAccountID:  "acc_1",
				CreditAccountID: "acc_2",
				Amount:          decimal.NewFromFloat(50.00),
				ExchangeRate:    decimal.NewFromInt(1),
				CurrencyCode:    "USD",
			},
			wantErr: false,
		},
		{
			name: "zero amount rejected",
			tx: domain.LedgerTransaction{
				EntryMode:    domain.SingleEntry,
				AccountID:    "acc_1",
				Side:         domain.Debit,
				Amount:       decimal.Zero,
				ExchangeRate: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name: "negative amount rejected",
			tx: domain.LedgerTransaction{
				EntryMode:    domain.SingleEntry,
				AccountID:    "acc_1",
				Side:         domain.Debit,
				Amount:       decimal.NewFromFloat(-10.00),
				ExchangeRate: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name: "non-positive exchange rate rejected",
			tx: domain.LedgerTransaction{
				EntryMode:    domain.SingleEntry,
				AccountID:    "acc_1",
				Side:         domain.Debit,
				Amount:       decimal.NewFromFloat(10.00),
				ExchangeRate: decimal.Zero,
			},
			wantErr: true,
			errMsg:  "exchange rate must be positive",
		},
		{
			name: "single-entry without account",
			tx: domain.LedgerTransaction{
				EntryMode:    domain.SingleEntry,
				Side:         domain.Debit,
				Amount:       decimal.NewFromFloat(10.00),
				ExchangeRate: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "requires an account",
		},
		{
			name: "single-entry without side",
			tx: domain.LedgerTransaction{
				EntryMode:    domain.SingleEntry,
				AccountID:    "acc_1",
				Amount:       decimal.NewFromFloat(10.00),
				ExchangeRate: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "DEBIT or CREDIT side",
		},
		{
			name: "double-entry same account both legs",
			tx: domain.LedgerTransaction{
				EntryMode:       domain.DoubleEntry,
				DebitAccountID:  "acc_1",
				CreditAccountID: "acc_1",
				Amount:          decimal.NewFromFloat(10.00),
				ExchangeRate:    decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "must differ",
		},
		{
			name: "double-entry missing credit leg",
			tx: domain.LedgerTransaction{
				EntryMode:      domain.DoubleEntry,
				DebitAccountID: "acc_1",
				Amount:         decimal.NewFromFloat(10.00),
				ExchangeRate:   decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "debit and credit accounts",
		},
		{
			name: "unknown entry mode",
			tx: domain.LedgerTransaction{
				EntryMode:    domain.EntryMode("TRIPLE_ENTRY"),
				Amount:       decimal.NewFromFloat(10.00),
				ExchangeRate: decimal.NewFromInt(1),
			},
			wantErr: true,
			errMsg:  "unknown entry mode",
		},
		{
			name: "relatedTo type without id",
			tx: domain.LedgerTransaction{
				EntryMode:     domain.SingleEntry,
				AccountID:     "acc_1",
				Side:          domain.Credit,
				Amount:        decimal.NewFromFloat(10.00),
				ExchangeRate:  decimal.NewFromInt(1),
				RelatedToType: relatedToTypePtr(domain.RelatedInvoice),
			},
			wantErr: true,
			errMsg:  "set together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerTransaction_SideForAccount(t *testing.T) {
	double := domain.LedgerTransaction{
		TransactionID:   "txn_1",
		EntryMode:       domain.DoubleEntry,
		DebitAccountID:  "acc_d",
		CreditAccountID: "acc_c",
	}

	side, err := double.SideForAccount("acc_d")
	assert.NoError(t, err)
	assert.Equal(t, domain.Debit, side)

	side, err = double.SideForAccount("acc_c")
	assert.NoError(t, err)
	assert.Equal(t, domain.Credit, side)

	_, err = double.SideForAccount("acc_other")
	assert.Error(t, err)

	single := domain.LedgerTransaction{
		TransactionID: "txn_2",
		EntryMode:     domain.SingleEntry,
		AccountID:     "acc_s",
		Side:          domain.Credit,
	}
	side, err = single.SideForAccount("acc_s")
	assert.NoError(t, err)
	assert.Equal(t, domain.Credit, side)
}

func TestTransactionSide_Opposite(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Opposite())
	assert.Equal(t, domain.Debit, domain.Credit.Opposite())
}

func relatedToTypePtr(r domain.RelatedToType) *domain.RelatedToType {
	return &r
}
