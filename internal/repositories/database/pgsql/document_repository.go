package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const documentColumns = `
	d.document_id, d.tenant_id, d.document_type, d.counterparty, d.issue_date,
	d.due_date, d.currency_code, d.total, d.archived,
	d.created_at, d.created_by, d.last_updated_at, d.last_updated_by`

const paymentColumns = `
	p.payment_id, p.document_id, p.amount, p.payment_date, p.method,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by`

// PgDocumentRepository implements the DocumentRepositoryFacade using PostgreSQL.
type PgDocumentRepository struct {
	BaseRepository
	accountRepo *PgAccountRepository
}

// NewPgDocumentRepository creates a new PgDocumentRepository.
func NewPgDocumentRepository(pool *pgxpool.Pool, accountRepo *PgAccountRepository) *PgDocumentRepository {
	return &PgDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgDocumentRepository)(nil)

func scanDocument(row pgx.Row) (*domain.BillableDocument, error) {
	var doc domain.BillableDocument
	err := row.Scan(
		&doc.DocumentID,
		&doc.TenantID,
		&doc.DocumentType,
		&doc.Counterparty,
		&doc.IssueDate,
		&doc.DueDate,
		&doc.CurrencyCode,
		&doc.Total,
		&doc.Archived,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	err := row.Scan(
		&payment.PaymentID,
		&payment.DocumentID,
		&payment.Amount,
		&payment.PaymentDate,
		&payment.Method,
		&payment.CreatedAt,
		&payment.CreatedBy,
		&payment.LastUpdatedAt,
		&payment.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// loadPayments attaches payments to the given documents, ordered by payment
// date then insertion sequence.
func (r *PgDocumentRepository) loadPayments(ctx context.Context, docs []domain.BillableDocument) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, len(docs))
	index := make(map[string]int, len(docs))
	for i := range docs {
		ids[i] = docs[i].DocumentID
		index[docs[i].DocumentID] = i
	}

	query := `SELECT ` + paymentColumns + `
		FROM payments p
		WHERE p.document_id = ANY($1)
		ORDER BY p.payment_date ASC, p.created_at ASC`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to load payments", err)
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return apperrors.NewAppError(500, "failed to scan payment", err)
		}
		i := index[payment.DocumentID]
		docs[i].Payments = append(docs[i].Payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "failed to iterate payments", err)
	}
	return nil
}

// SaveDocument persists a new document.
func (r *PgDocumentRepository) SaveDocument(ctx context.Context, doc domain.BillableDocument) error {
	query := `
		INSERT INTO documents (
			document_id, tenant_id, document_type, counterparty, issue_date,
			due_date, currency_code, total, archived,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.Pool.Exec(ctx, query,
		doc.DocumentID, doc.TenantID, doc.DocumentType, doc.Counterparty,
		doc.IssueDate, doc.DueDate, doc.CurrencyCode, doc.Total, doc.Archived,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("document %s: %w", doc.DocumentID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save document", err)
	}
	return nil
}

// ArchiveDocument soft-archives a document.
func (r *PgDocumentRepository) ArchiveDocument(ctx context.Context, tenantID, documentID, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE documents
		SET archived = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1 AND tenant_id = $2
	`
	tag, err := r.Pool.Exec(ctx, query, documentID, tenantID, updatedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive document", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
	}
	return nil
}

// SavePayment persists the payment, the double-entry transaction it causes,
// and the resulting balance changes in one storage transaction.
func (r *PgDocumentRepository) SavePayment(ctx context.Context, payment domain.Payment, txn domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insert := `
		INSERT INTO payments (
			payment_id, document_id, amount, payment_date, method,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, insert,
		payment.PaymentID, payment.DocumentID, payment.Amount,
		payment.PaymentDate, payment.Method,
		payment.CreatedAt, payment.CreatedBy, payment.LastUpdatedAt, payment.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("payment %s: %w", payment.PaymentID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save payment", err)
	}

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, txn.TenantID, txn.Accounts())
	if err != nil {
		return err
	}
	for _, accountID := range txn.Accounts() {
		if _, ok := locked[accountID]; !ok {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
	}
	if err := UpdateAccountBalancesInTx(ctx, tx, txn.TenantID, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	if err := insertTransactionsInTx(ctx, tx, []domain.LedgerTransaction{txn}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindDocumentByID retrieves a document with its payments loaded.
func (r *PgDocumentRepository) FindDocumentByID(ctx context.Context, tenantID, documentID string) (*domain.BillableDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.document_id = $1 AND d.tenant_id = $2`
	doc, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find document", err)
	}

	docs := []domain.BillableDocument{*doc}
	if err := r.loadPayments(ctx, docs); err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// ListDocuments retrieves a page of documents with payments, newest first by
// issue date, optionally filtered by type.
func (r *PgDocumentRepository) ListDocuments(ctx context.Context, tenantID string, docType *domain.DocumentType, limit int, nextToken *string) ([]domain.BillableDocument, *string, error) {
	fetchLimit := limit + 1

	query := `SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.tenant_id = $1`
	args := []any{tenantID}

	if docType != nil {
		query += fmt.Sprintf(` AND d.document_type = $%d`, len(args)+1)
		args = append(args, *docType)
	}

	if nextToken != nil && *nextToken != "" {
		issueDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(` AND (d.issue_date, d.created_at) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, issueDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY d.issue_date DESC, d.created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list documents", err)
	}
	defer rows.Close()

	docs := make([]domain.BillableDocument, 0, fetchLimit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate documents", err)
	}

	var token *string
	if len(docs) == fetchLimit {
		docs = docs[:limit]
		last := docs[limit-1]
		t := pagination.EncodeToken(last.IssueDate, last.CreatedAt)
		token = &t
	}

	if err := r.loadPayments(ctx, docs); err != nil {
		return nil, nil, err
	}
	return docs, token, nil
}

// OpenDocuments returns unarchived documents of the given type issued on or
// before asOf, with payments loaded.
func (r *PgDocumentRepository) OpenDocuments(ctx context.Context, tenantID string, docType domain.DocumentType, asOf time.Time) ([]domain.BillableDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.tenant_id = $1 AND d.document_type = $2
		  AND d.archived = FALSE AND d.issue_date <= $3
		ORDER BY d.due_date ASC, d.created_at ASC`
	rows, err := r.Pool.Query(ctx, query, tenantID, docType, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load open documents", err)
	}
	defer rows.Close()

	var docs []domain.BillableDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate documents", err)
	}

	if err := r.loadPayments(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}
