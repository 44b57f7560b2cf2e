package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSide indicates whether a posting is a Debit or a Credit.
type TransactionSide string

const (
	Debit  TransactionSide = "DEBIT"
	Credit TransactionSide = "CREDIT"
)

// Opposite returns the other side.
func (s TransactionSide) Opposite() TransactionSide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// EntryMode distinguishes single-entry postings (one account, one side, no
// automatic counter-leg) from double-entry postings (balanced debit and credit
// legs recorded as one transaction).
type EntryMode string

const (
	SingleEntry EntryMode = "SINGLE_ENTRY"
	DoubleEntry EntryMode = "DOUBLE_ENTRY"
)

// RelatedToType tags the polymorphic weak reference from a ledger transaction
// back to the business document that caused it. The ledger engine never
// dereferences it; resolution happens at the calling layer.
type RelatedToType string

const (
	RelatedInvoice RelatedToType = "INVOICE"
	RelatedBill    RelatedToType = "BILL"
	RelatedVoucher RelatedToType = "VOUCHER"
	RelatedOther   RelatedToType = "OTHER"
)

// LedgerTransaction records a single debit/credit posting. In SINGLE_ENTRY
// mode it carries one account and a side; in DOUBLE_ENTRY mode it carries both
// legs of a balanced pair. Once verified it is immutable; corrections are
// always a reversal, never an in-place edit.
type LedgerTransaction struct {
	TransactionID string    `json:"transactionID"` // Primary Key (UUID)
	TenantID      string    `json:"tenantID"`
	GroupID       *string   `json:"groupID,omitempty"` // Optional membership in a transaction group
	EntryMode     EntryMode `json:"entryMode"`

	// SINGLE_ENTRY fields.
	AccountID string          `json:"accountID,omitempty"`
	Side      TransactionSide `json:"side,omitempty"`

	// DOUBLE_ENTRY fields.
	DebitAccountID  string `json:"debitAccountID,omitempty"`
	CreditAccountID string `json:"creditAccountID,omitempty"`

	Amount       decimal.Decimal `json:"amount"` // Positive, in transaction currency
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // To tenant base currency
	// BaseAmount is Amount x ExchangeRate rounded half-up to the base
	// currency's minor unit, computed once at posting time.
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	TransactionDate time.Time       `json:"transactionDate"`

	Verified bool `json:"verified"`
	Archived bool `json:"archived"` // Soft delete, set when the transaction is reversed

	RelatedToType *RelatedToType `json:"relatedToType,omitempty"`
	RelatedToID   *string        `json:"relatedToID,omitempty"`
	PaymentMethod *string        `json:"paymentMethod,omitempty"`
	ReversalOfID  *string        `json:"reversalOfID,omitempty"` // Back-reference from a reversal to its original

	Notes string `json:"notes"`
	AuditFields
	RunningBalance decimal.Decimal `json:"runningBalance"` // Balance of the single-entry account after this transaction
}

// Validate checks structural invariants common to both entry modes.
func (t *LedgerTransaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transaction amount must be positive")
	}
	if t.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("exchange rate must be positive")
	}
	switch t.EntryMode {
	case SingleEntry:
		if t.AccountID == "" {
			return fmt.Errorf("single-entry transaction requires an account")
		}
		if t.Side != Debit && t.Side != Credit {
			return fmt.Errorf("single-entry transaction requires a DEBIT or CREDIT side")
		}
	case DoubleEntry:
		if t.DebitAccountID == "" || t.CreditAccountID == "" {
			return fmt.Errorf("double-entry transaction requires debit and credit accounts")
		}
		if t.DebitAccountID == t.CreditAccountID {
			return fmt.Errorf("debit and credit accounts must differ")
		}
	default:
		return fmt.Errorf("unknown entry mode %q", t.EntryMode)
	}
	if (t.RelatedToType == nil) != (t.RelatedToID == nil) {
		return fmt.Errorf("relatedTo type and id must be set together")
	}
	return nil
}

// Accounts returns the account IDs this transaction posts to.
func (t *LedgerTransaction) Accounts() []string {
	if t.EntryMode == DoubleEntry {
		return []string{t.DebitAccountID, t.CreditAccountID}
	}
	return []string{t.AccountID}
}

// SideForAccount returns the side of the leg posted to the given account.
func (t *LedgerTransaction) SideForAccount(accountID string) (TransactionSide, error) {
	switch t.EntryMode {
	case SingleEntry:
		if t.AccountID == accountID {
			return t.Side, nil
		}
	case DoubleEntry:
		if t.DebitAccountID == accountID {
			return Debit, nil
		}
		if t.CreditAccountID == accountID {
			return Credit, nil
		}
	}
	return "", fmt.Errorf("transaction %s does not post to account %s", t.TransactionID, accountID)
}
