package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distinguishes receivable documents (invoices) from payable
// documents (bills).
type DocumentType string

const (
	DocInvoice DocumentType = "INVOICE"
	DocBill    DocumentType = "BILL"
)

// DocumentStatus is derived from the document total and its payments. It is
// never stored as free-standing truth.
type DocumentStatus string

const (
	DocPending DocumentStatus = "PENDING"
	DocPartial DocumentStatus = "PARTIAL"
	DocPaid    DocumentStatus = "PAID"
)

// Payment is a single payment applied to a billable document.
type Payment struct {
	PaymentID   string          `json:"paymentID"` // Primary Key (UUID)
	DocumentID  string          `json:"documentID"`
	Amount      decimal.Decimal `json:"amount"` // Positive, document currency
	PaymentDate time.Time       `json:"paymentDate"`
	Method      string          `json:"method"`
	AuditFields
}

// BillableDocument is a ledger-adjacent invoice or bill. Its status is always
// consistent with the current payment list; overpayment is rejected at
// recording time, so AmountDue never goes negative.
type BillableDocument struct {
	DocumentID   string          `json:"documentID"` // Primary Key (UUID)
	TenantID     string          `json:"tenantID"`
	DocumentType DocumentType    `json:"documentType"`
	Counterparty string          `json:"counterparty"`
	IssueDate    time.Time       `json:"issueDate"`
	DueDate      time.Time       `json:"dueDate"`
	CurrencyCode string          `json:"currencyCode"`
	Total        decimal.Decimal `json:"total"` // Sum of line items
	Archived     bool            `json:"archived"`
	AuditFields
	Payments []Payment `json:"payments,omitempty"`
}

// PaidAmount sums the document's payments.
func (d *BillableDocument) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range d.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// AmountDue is the remaining unpaid portion of the document total.
func (d *BillableDocument) AmountDue() decimal.Decimal {
	due := d.Total.Sub(d.PaidAmount())
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Status derives the payment status from the total and payment sum:
// PAID iff paid >= total, PARTIAL iff 0 < paid < total, PENDING otherwise.
func (d *BillableDocument) Status() DocumentStatus {
	paid := d.PaidAmount()
	switch {
	case paid.GreaterThanOrEqual(d.Total) && d.Total.IsPositive():
		return DocPaid
	case paid.IsPositive():
		return DocPartial
	default:
		return DocPending
	}
}

// AgingBucket classifies how far past due an open document is.
type AgingBucket string

const (
	AgingCurrent AgingBucket = "CURRENT"
	Aging1To30   AgingBucket = "1_30"
	Aging31To60  AgingBucket = "31_60"
	Aging61To90  AgingBucket = "61_90"
	AgingOver90  AgingBucket = "OVER_90"
)

// AgingBucketFor returns the bucket for a document due on dueDate as of asOf.
func AgingBucketFor(dueDate, asOf time.Time) AgingBucket {
	days := int(asOf.Sub(dueDate).Hours() / 24)
	switch {
	case days <= 0:
		return AgingCurrent
	case days <= 30:
		return Aging1To30
	case days <= 60:
		return Aging31To60
	case days <= 90:
		return Aging61To90
	default:
		return AgingOver90
	}
}
