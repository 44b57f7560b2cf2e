package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction within a tenant.
	FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.LedgerTransaction, error)

	// FindTransactionsByGroupID retrieves all member transactions of a group,
	// ordered by transaction date then insertion sequence.
	FindTransactionsByGroupID(ctx context.Context, groupID string) ([]domain.LedgerTransaction, error)

	// ListTransactionsByAccountID retrieves a paginated list of transactions
	// posting to an account, newest first, using token-based pagination.
	ListTransactionsByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and applies the given signed
	// balance changes to the affected accounts in one storage transaction.
	SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error

	// SaveReversal archives the original transaction and persists its
	// reversal with the corresponding balance changes atomically.
	SaveReversal(ctx context.Context, originalID string, reversal domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error

	// MarkTransactionVerified sets the verified flag. Verifying an already
	// verified transaction is a no-op.
	MarkTransactionVerified(ctx context.Context, tenantID, transactionID, verifiedByUserID string, verifiedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
