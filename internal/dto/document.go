package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentLineRequest is one line item of an invoice or bill.
type DocumentLineRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateDocumentRequest defines the payload for creating an invoice or bill.
// The document total is the sum of its line amounts.
type CreateDocumentRequest struct {
	DocumentType string                `json:"documentType" binding:"required,oneof=INVOICE BILL"`
	Counterparty string                `json:"counterparty" binding:"required"`
	IssueDate    time.Time             `json:"issueDate" binding:"required"`
	DueDate      time.Time             `json:"dueDate" binding:"required"`
	CurrencyCode string                `json:"currencyCode" binding:"required,len=3"`
	Lines        []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordPaymentRequest defines the payload for recording a payment against a
// document. Payments exceeding the amount due are rejected.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"paymentDate" binding:"required"`
	Method      string          `json:"method"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Method      string          `json:"method,omitempty"`
}

// DocumentResponse defines the data returned for a billable document. Status
// and amount due are derived from the payment list on every read.
type DocumentResponse struct {
	DocumentID   string            `json:"documentID"`
	DocumentType string            `json:"documentType"`
	Counterparty string            `json:"counterparty"`
	IssueDate    time.Time         `json:"issueDate"`
	DueDate      time.Time         `json:"dueDate"`
	CurrencyCode string            `json:"currencyCode"`
	Total        decimal.Decimal   `json:"total"`
	PaidAmount   decimal.Decimal   `json:"paidAmount"`
	AmountDue    decimal.Decimal   `json:"amountDue"`
	Status       string            `json:"status"`
	Archived     bool              `json:"archived"`
	Payments     []PaymentResponse `json:"payments,omitempty"`
}

// ListDocumentsParams holds parameters for listing documents.
type ListDocumentsParams struct {
	DocumentType *string
	Limit        int
	NextToken    *string
}

// ListDocumentsResponse is the paginated document list payload.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentResponse converts a domain document to its response DTO.
func ToDocumentResponse(d *domain.BillableDocument) DocumentResponse {
	resp := DocumentResponse{
		DocumentID:   d.DocumentID,
		DocumentType: string(d.DocumentType),
		Counterparty: d.Counterparty,
		IssueDate:    d.IssueDate,
		DueDate:      d.DueDate,
		CurrencyCode: d.CurrencyCode,
		Total:        d.Total,
		PaidAmount:   d.PaidAmount(),
		AmountDue:    d.AmountDue(),
		Status:       string(d.Status()),
		Archived:     d.Archived,
	}
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			PaymentID:   p.PaymentID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Method:      p.Method,
		})
	}
	return resp
}

// ToDocumentResponses converts a slice of documents.
func ToDocumentResponses(docs []domain.BillableDocument) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = ToDocumentResponse(&docs[i])
	}
	return out
}
