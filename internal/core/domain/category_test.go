package domain_test

import (
	"testing"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestLedgerGroup_NormalBalance(t *testing.T) {
	debitNormal := []domain.LedgerGroup{domain.Asset, domain.Expense, domain.Dividends}
	creditNormal := []domain.LedgerGroup{domain.Liability, domain.Equity, domain.Income, domain.Shares}

	for _, g := range debitNormal {
		assert.Equal(t, domain.Debit, g.NormalBalance(), "group %s", g)
	}
	for _, g := range creditNormal {
		assert.Equal(t, domain.Credit, g.NormalBalance(), "group %s", g)
	}
}

func TestLedgerGroup_IsValid(t *testing.T) {
	assert.True(t, domain.Asset.IsValid())
	assert.True(t, domain.Shares.IsValid())
	assert.False(t, domain.LedgerGroup("REVENUE").IsValid())
	assert.False(t, domain.LedgerGroup("").IsValid())
}
