package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupStatus indicates the state of a transaction group.
//
// BALANCED -> POSTED -> REVERSED. Groups are created already balanced (an
// unbalanced group is a construction-time error, not a storage-time one), so
// there is no DRAFT state. POSTED is terminal for normal flow; REVERSED is
// reachable only from POSTED and produces a mirror group.
type GroupStatus string

const (
	GroupBalanced GroupStatus = "BALANCED"
	GroupPosted   GroupStatus = "POSTED"
	GroupReversed GroupStatus = "REVERSED"
)

// LedgerTransactionGroup binds a balanced set of transactions together as one
// logical journal entry.
type LedgerTransactionGroup struct {
	GroupID      string      `json:"groupID"` // Primary Key (UUID)
	TenantID     string      `json:"tenantID"`
	GroupDate    time.Time   `json:"groupDate"`
	Description  string      `json:"description"`
	CurrencyCode string      `json:"currencyCode"`
	Status       GroupStatus `json:"status"`
	// TotalDebit/TotalCredit are computed from the member transactions at
	// creation time and persisted with the group header. Double-entry members
	// contribute their amount to both sides; single-entry members to the side
	// they carry.
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	// Reversal cross-links. OriginalGroupID is set on a mirror group;
	// ReversingGroupID is set on the reversed original. Their presence
	// prevents double reversal.
	OriginalGroupID  *string `json:"originalGroupID,omitempty"`
	ReversingGroupID *string `json:"reversingGroupID,omitempty"`
	AuditFields
	Transactions []LedgerTransaction `json:"transactions,omitempty"` // Loaded on demand
}

// RecomputeTotals recalculates TotalDebit and TotalCredit from the loaded
// member transactions.
func (g *LedgerTransactionGroup) RecomputeTotals() {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, txn := range g.Transactions {
		if txn.EntryMode == DoubleEntry {
			debit = debit.Add(txn.Amount)
			credit = credit.Add(txn.Amount)
			continue
		}
		if txn.Side == Debit {
			debit = debit.Add(txn.Amount)
		} else {
			credit = credit.Add(txn.Amount)
		}
	}
	g.TotalDebit = debit
	g.TotalCredit = credit
}

// Balanced reports whether the group's debit and credit totals are equal.
func (g *LedgerTransactionGroup) Balanced() bool {
	return g.TotalDebit.Equal(g.TotalCredit)
}
