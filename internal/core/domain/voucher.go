package domain

// VoucherType classifies the money movement a voucher represents.
type VoucherType string

const (
	VoucherDeposit VoucherType = "DEPOSIT"
	VoucherPayment VoucherType = "PAYMENT"
	VoucherReceipt VoucherType = "RECEIPT"
)

// VoucherTo identifies the counterparty class of a voucher.
type VoucherTo string

const (
	VoucherToClient VoucherTo = "CLIENT"
	VoucherToVendor VoucherTo = "VENDOR"
	VoucherToStaff  VoucherTo = "STAFF"
	VoucherToOther  VoucherTo = "OTHER"
)

// VoucherStatus is the approval state of a voucher.
type VoucherStatus string

const (
	VoucherPending  VoucherStatus = "PENDING"
	VoucherApproved VoucherStatus = "APPROVED"
	VoucherRejected VoucherStatus = "REJECTED"
)

// Voucher wraps an underlying double-entry ledger transaction with an approval
// workflow. It holds a reference to the transaction rather than sharing
// identity with it. A voucher is editable only while PENDING; once APPROVED
// the underlying transaction is verified and the record becomes immutable
// except via a reversal.
type Voucher struct {
	VoucherID     string        `json:"voucherID"` // Primary Key (UUID)
	TenantID      string        `json:"tenantID"`
	VoucherType   VoucherType   `json:"voucherType"`
	VoucherTo     VoucherTo     `json:"voucherTo"`
	Status        VoucherStatus `json:"status"`
	TransactionID string        `json:"transactionID"` // Underlying double-entry transaction
	Notes         string        `json:"notes"`
	ApprovedBy    *string       `json:"approvedBy,omitempty"`
	AuditFields
}
