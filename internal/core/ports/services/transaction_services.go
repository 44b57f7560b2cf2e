package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions.
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, tenantID, transactionID, userID string) (*domain.LedgerTransaction, error)
	ListTransactionsByAccount(ctx context.Context, tenantID, accountID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines the posting operations of the ledger engine.
type TransactionWriterSvc interface {
	// PostSingleEntry records one unchecked debit or credit posting.
	PostSingleEntry(ctx context.Context, tenantID string, req dto.PostSingleEntryRequest, userID string) (*domain.LedgerTransaction, error)

	// PostDoubleEntry records a balanced debit/credit pair as one transaction.
	PostDoubleEntry(ctx context.Context, tenantID string, req dto.PostDoubleEntryRequest, userID string) (*domain.LedgerTransaction, error)

	// ReverseTransaction creates a mirror transaction and archives the
	// original. Transactions inside a posted group can only be reversed
	// through group reversal.
	ReverseTransaction(ctx context.Context, tenantID, transactionID, userID string) (*domain.LedgerTransaction, error)

	// VerifyTransaction marks a transaction verified. Idempotent.
	VerifyTransaction(ctx context.Context, tenantID, transactionID, approverUserID string) error
}

// TransactionSvcFacade combines all transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
