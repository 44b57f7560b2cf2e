package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for billable documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its payments loaded.
	FindDocumentByID(ctx context.Context, tenantID, documentID string) (*domain.BillableDocument, error)

	ListDocuments(ctx context.Context, tenantID string, docType *domain.DocumentType, limit int, nextToken *string) ([]domain.BillableDocument, *string, error)

	// OpenDocuments returns unarchived documents of the given type with their
	// payments, for aging computation.
	OpenDocuments(ctx context.Context, tenantID string, docType domain.DocumentType, asOf time.Time) ([]domain.BillableDocument, error)
}

// DocumentWriter defines write operations for billable documents.
type DocumentWriter interface {
	SaveDocument(ctx context.Context, doc domain.BillableDocument) error
	ArchiveDocument(ctx context.Context, tenantID, documentID, updatedByUserID string, updatedAt time.Time) error

	// SavePayment persists a payment together with the double-entry ledger
	// transaction it causes and the resulting account balance changes, in one
	// storage transaction.
	SavePayment(ctx context.Context, payment domain.Payment, txn domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
