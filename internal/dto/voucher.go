package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherRequest defines the payload for creating a voucher. The
// underlying double-entry transaction is created with it, unverified until
// approval.
type CreateVoucherRequest struct {
	VoucherType     string           `json:"voucherType" binding:"required,oneof=DEPOSIT PAYMENT RECEIPT"`
	VoucherTo       string           `json:"voucherTo" binding:"required,oneof=CLIENT VENDOR STAFF OTHER"`
	DebitAccountID  string           `json:"debitAccountID" binding:"required"`
	CreditAccountID string           `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode    string           `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	VoucherDate     time.Time        `json:"voucherDate" binding:"required"`
	Notes           string           `json:"notes"`
}

// UpdateVoucherRequest defines the payload for editing a voucher. Only
// PENDING vouchers may be edited.
type UpdateVoucherRequest struct {
	VoucherTo *string `json:"voucherTo"`
	Notes     *string `json:"notes"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID     string  `json:"voucherID"`
	VoucherType   string  `json:"voucherType"`
	VoucherTo     string  `json:"voucherTo"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionID"`
	Notes         string  `json:"notes,omitempty"`
	ApprovedBy    *string `json:"approvedBy,omitempty"`
}

// ListVouchersParams holds parameters for listing vouchers.
type ListVouchersParams struct {
	Status    *string
	Limit     int
	NextToken *string
}

// ListVouchersResponse is the paginated voucher list payload.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain voucher to its response DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:     v.VoucherID,
		VoucherType:   string(v.VoucherType),
		VoucherTo:     string(v.VoucherTo),
		Status:        string(v.Status),
		TransactionID: v.TransactionID,
		Notes:         v.Notes,
		ApprovedBy:    v.ApprovedBy,
	}
}

// ToVoucherResponses converts a slice of vouchers.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	out := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		out[i] = ToVoucherResponse(&vouchers[i])
	}
	return out
}
