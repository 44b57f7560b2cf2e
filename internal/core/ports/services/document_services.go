package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// DocumentSvcFacade defines operations on billable documents (invoices and
// bills) and their derived payment status.
type DocumentSvcFacade interface {
	CreateDocument(ctx context.Context, tenantID string, req dto.CreateDocumentRequest, userID string) (*domain.BillableDocument, error)
	GetDocumentByID(ctx context.Context, tenantID, documentID, userID string) (*domain.BillableDocument, error)
	ListDocuments(ctx context.Context, tenantID, userID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
	ArchiveDocument(ctx context.Context, tenantID, documentID, userID string) error

	// RecordPayment adds a payment and posts the matching double-entry ledger
	// transaction against the tenant's default accounts. A payment exceeding
	// the amount due is rejected.
	RecordPayment(ctx context.Context, tenantID, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.BillableDocument, error)

	// AgingReport buckets open documents of one type by days past due.
	AgingReport(ctx context.Context, tenantID string, docType domain.DocumentType, asOf time.Time, userID string) (*domain.AgingReport, error)
}
