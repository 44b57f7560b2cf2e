package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// documentService implements the DocumentSvcFacade interface. Documents carry
// no stored status; PENDING/PARTIAL/PAID is always derived from the payment
// list, so it can never drift from the recorded payments.
type documentService struct {
	BaseService
	documentRepo    portsrepo.DocumentRepositoryFacade
	accountSvc      portssvc.AccountSvcFacade
	accountRepo     portsrepo.AccountReader
	tenantRepo      portsrepo.TenantReader
	currencyRepo    portsrepo.CurrencyReader
	exchangeRateSvc portssvc.ExchangeRateSvcFacade
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	documentRepo portsrepo.DocumentRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	accountRepo portsrepo.AccountReader,
	tenantRepo portsrepo.TenantReader,
	currencyRepo portsrepo.CurrencyReader,
	exchangeRateSvc portssvc.ExchangeRateSvcFacade,
	authorizer portssvc.TenantAuthorizerSvc,
) portssvc.DocumentSvcFacade {
	svc := &documentService{
		documentRepo:    documentRepo,
		accountSvc:      accountSvc,
		accountRepo:     accountRepo,
		tenantRepo:      tenantRepo,
		currencyRepo:    currencyRepo,
		exchangeRateSvc: exchangeRateSvc,
	}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) CreateDocument(ctx context.Context, tenantID string, req dto.CreateDocumentRequest, userID string) (*domain.BillableDocument, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("due date must not precede issue date: %w", apperrors.ErrValidation)
	}

	total := decimal.Zero
	for _, line := range req.Lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line amounts must be positive: %w", apperrors.ErrValidation)
		}
		total = total.Add(line.Amount)
	}

	now := time.Now()
	doc := domain.BillableDocument{
		DocumentID:   uuid.NewString(),
		TenantID:     tenantID,
		DocumentType: domain.DocumentType(req.DocumentType),
		Counterparty: req.Counterparty,
		IssueDate:    req.IssueDate,
		DueDate:      req.DueDate,
		CurrencyCode: req.CurrencyCode,
		Total:        total,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to save document",
			slog.String("document_id", doc.DocumentID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Document created",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_type", req.DocumentType),
		slog.String("total", total.String()))
	return &doc, nil
}

func (s *documentService) GetDocumentByID(ctx context.Context, tenantID, documentID, userID string) (*domain.BillableDocument, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.documentRepo.FindDocumentByID(ctx, tenantID, documentID)
}

func (s *documentService) ListDocuments(ctx context.Context, tenantID, userID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	var docType *domain.DocumentType
	if params.DocumentType != nil {
		dt := domain.DocumentType(*params.DocumentType)
		if dt != domain.DocInvoice && dt != domain.DocBill {
			return nil, fmt.Errorf("unknown document type %q: %w", *params.DocumentType, apperrors.ErrValidation)
		}
		docType = &dt
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	docs, nextToken, err := s.documentRepo.ListDocuments(ctx, tenantID, docType, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents", slog.String("tenant_id", tenantID))
		return nil, err
	}

	return &dto.ListDocumentsResponse{
		Documents: dto.ToDocumentResponses(docs),
		NextToken: nextToken,
	}, nil
}

func (s *documentService) ArchiveDocument(ctx context.Context, tenantID, documentID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return err
	}

	doc, err := s.documentRepo.FindDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		return err
	}
	if doc.PaidAmount().IsPositive() && doc.Status() != domain.DocPaid {
		return fmt.Errorf("document %s has partial payments and cannot be archived: %w", documentID, apperrors.ErrConflict)
	}

	return s.documentRepo.ArchiveDocument(ctx, tenantID, documentID, userID, time.Now())
}

// paymentLegs resolves the default accounts a payment posts against. Money
// received on an invoice lands in cash and clears receivables; money paid on
// a bill clears payables out of cash.
func (s *documentService) paymentLegs(ctx context.Context, tenantID string, docType domain.DocumentType, userID string) (debit, credit *domain.LedgerAccount, err error) {
	switch docType {
	case domain.DocInvoice:
		debit, err = s.accountSvc.GetOrCreateDefaultAccount(ctx, tenantID, domain.PurposeCash, userID)
		if err != nil {
			return nil, nil, err
		}
		credit, err = s.accountSvc.GetOrCreateDefaultAccount(ctx, tenantID, domain.PurposeReceivable, userID)
		if err != nil {
			return nil, nil, err
		}
	case domain.DocBill:
		debit, err = s.accountSvc.GetOrCreateDefaultAccount(ctx, tenantID, domain.PurposePayable, userID)
		if err != nil {
			return nil, nil, err
		}
		credit, err = s.accountSvc.GetOrCreateDefaultAccount(ctx, tenantID, domain.PurposeCash, userID)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown document type %q: %w", docType, apperrors.ErrValidation)
	}
	return debit, credit, nil
}

func (s *documentService) RecordPayment(ctx context.Context, tenantID, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.BillableDocument, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PostingsLocked {
		return nil, fmt.Errorf("postings are halted for tenant %s pending investigation: %w", tenantID, apperrors.ErrConsistency)
	}

	doc, err := s.documentRepo.FindDocumentByID(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Archived {
		return nil, fmt.Errorf("document %s is archived: %w", documentID, apperrors.ErrConflict)
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}
	due := doc.AmountDue()
	if req.Amount.GreaterThan(due) {
		return nil, fmt.Errorf("payment %s exceeds amount due %s: %w", req.Amount.String(), due.String(), apperrors.ErrValidation)
	}

	debitAccount, creditAccount, err := s.paymentLegs(ctx, tenantID, doc.DocumentType, userID)
	if err != nil {
		return nil, err
	}

	baseCurrency := doc.CurrencyCode
	if tenant.DefaultCurrencyCode != nil {
		baseCurrency = *tenant.DefaultCurrencyCode
	}
	rate := decimal.NewFromInt(1)
	if doc.CurrencyCode != baseCurrency {
		rate, err = s.exchangeRateSvc.EffectiveRate(ctx, doc.CurrencyCode, baseCurrency, req.PaymentDate)
		if err != nil {
			return nil, err
		}
	}
	precision := int32(2)
	if s.currencyRepo != nil {
		if currency, cerr := s.currencyRepo.FindCurrencyByCode(ctx, baseCurrency); cerr == nil {
			precision = currency.Precision
		}
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		DocumentID:  documentID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Method:      req.Method,
		AuditFields: audit,
	}

	relType := domain.RelatedInvoice
	if doc.DocumentType == domain.DocBill {
		relType = domain.RelatedBill
	}
	var method *string
	if req.Method != "" {
		method = &req.Method
	}
	txn := domain.LedgerTransaction{
		TransactionID:   uuid.NewString(),
		TenantID:        tenantID,
		EntryMode:       domain.DoubleEntry,
		DebitAccountID:  debitAccount.AccountID,
		CreditAccountID: creditAccount.AccountID,
		Amount:          req.Amount,
		CurrencyCode:    doc.CurrencyCode,
		ExchangeRate:    rate,
		BaseAmount:      accounting.ConvertToBase(req.Amount, rate, precision),
		TransactionDate: req.PaymentDate,
		RelatedToType:   &relType,
		RelatedToID:     &documentID,
		PaymentMethod:   method,
		Notes:           fmt.Sprintf("Payment on %s %s", doc.DocumentType, documentID),
		AuditFields:     audit,
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	ledgerGroups := map[string]domain.LedgerGroup{
		debitAccount.AccountID:  debitAccount.LedgerGroup,
		creditAccount.AccountID: creditAccount.LedgerGroup,
	}
	changes, err := accounting.BalanceChanges(txn, ledgerGroups)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.SavePayment(ctx, payment, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save payment",
			slog.String("document_id", documentID),
			slog.String("payment_id", payment.PaymentID))
		return nil, err
	}

	doc.Payments = append(doc.Payments, payment)

	s.LogInfo(ctx, "Payment recorded",
		slog.String("document_id", documentID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(doc.Status())))
	return doc, nil
}

func (s *documentService) AgingReport(ctx context.Context, tenantID string, docType domain.DocumentType, asOf time.Time, userID string) (*domain.AgingReport, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if docType != domain.DocInvoice && docType != domain.DocBill {
		return nil, fmt.Errorf("unknown document type %q: %w", docType, apperrors.ErrValidation)
	}

	docs, err := s.documentRepo.OpenDocuments(ctx, tenantID, docType, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load open documents for aging report",
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	buckets := map[domain.AgingBucket]*domain.AgingReportRow{}
	order := []domain.AgingBucket{domain.AgingCurrent, domain.Aging1To30, domain.Aging31To60, domain.Aging61To90, domain.AgingOver90}
	for _, bucket := range order {
		buckets[bucket] = &domain.AgingReportRow{Bucket: bucket, AmountDue: decimal.Zero}
	}

	total := decimal.Zero
	for i := range docs {
		due := docs[i].AmountDue()
		if !due.IsPositive() {
			continue
		}
		row := buckets[domain.AgingBucketFor(docs[i].DueDate, asOf)]
		row.DocumentCount++
		row.AmountDue = row.AmountDue.Add(due)
		total = total.Add(due)
	}

	report := &domain.AgingReport{DocumentType: docType, TotalDue: total}
	for _, bucket := range order {
		report.Rows = append(report.Rows, *buckets[bucket])
	}
	return report, nil
}
