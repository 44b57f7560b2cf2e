package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the normal-balance sign to a posting of the given side
// against an account of the given ledger group.
//
// DEBIT to ASSET/EXPENSE/DIVIDENDS -> positive
// CREDIT to ASSET/EXPENSE/DIVIDENDS -> negative
// DEBIT to LIABILITY/EQUITY/INCOME/SHARES -> negative
// CREDIT to LIABILITY/EQUITY/INCOME/SHARES -> positive
func SignedAmount(amount decimal.Decimal, side domain.TransactionSide, group domain.LedgerGroup) (decimal.Decimal, error) {
	if !group.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown ledger group %q", group)
	}
	if side != domain.Debit && side != domain.Credit {
		return decimal.Zero, fmt.Errorf("unknown transaction side %q", side)
	}
	if side == group.NormalBalance() {
		return amount, nil
	}
	return amount.Neg(), nil
}

// BalanceChanges computes the net signed balance change per account for a
// transaction. A double-entry transaction affects both legs; a single-entry
// transaction affects one account only.
func BalanceChanges(txn domain.LedgerTransaction, groups map[string]domain.LedgerGroup) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, accountID := range txn.Accounts() {
		group, ok := groups[accountID]
		if !ok {
			return nil, fmt.Errorf("ledger group not known for account %s", accountID)
		}
		side, err := txn.SideForAccount(accountID)
		if err != nil {
			return nil, err
		}
		signed, err := SignedAmount(txn.Amount, side, group)
		if err != nil {
			return nil, err
		}
		changes[accountID] = changes[accountID].Add(signed)
	}
	return changes, nil
}

// ValidateGroupBalance checks that a set of member transactions forms a
// balanced journal entry: at least two entries across at least two distinct
// accounts, every amount positive, and debit total equal to credit total.
func ValidateGroupBalance(transactions []domain.LedgerTransaction) error {
	if len(transactions) < 2 {
		return fmt.Errorf("group must have at least two transaction entries")
	}

	accounts := make(map[string]struct{})
	debits := decimal.Zero
	credits := decimal.Zero
	for _, txn := range transactions {
		if txn.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("transaction amount must be positive for transaction %s", txn.TransactionID)
		}
		for _, id := range txn.Accounts() {
			accounts[id] = struct{}{}
		}
		if txn.EntryMode == domain.DoubleEntry {
			debits = debits.Add(txn.Amount)
			credits = credits.Add(txn.Amount)
			continue
		}
		if txn.Side == domain.Debit {
			debits = debits.Add(txn.Amount)
		} else {
			credits = credits.Add(txn.Amount)
		}
	}
	if len(accounts) < 2 {
		return fmt.Errorf("group must affect at least two different accounts")
	}
	if !debits.Equal(credits) {
		return fmt.Errorf("unbalanced entry: debit total %s, credit total %s", debits.String(), credits.String())
	}
	return nil
}

// ConvertToBase converts a transaction amount to base currency, rounding
// half-up to the currency's minor-unit precision. The rounding happens exactly
// once, at posting time; the stored base amount is never re-rounded on read.
func ConvertToBase(amount, rate decimal.Decimal, precision int32) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for the
	// positive amounts the engine accepts.
	return amount.Mul(rate).Round(precision)
}
