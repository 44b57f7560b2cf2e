package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// VoucherSvcFacade defines the voucher approval workflow.
type VoucherSvcFacade interface {
	CreateVoucher(ctx context.Context, tenantID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error)
	GetVoucherByID(ctx context.Context, tenantID, voucherID, userID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, tenantID, userID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// UpdateVoucher edits a voucher while it is still PENDING.
	UpdateVoucher(ctx context.Context, tenantID, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error)

	// ApproveVoucher flips the voucher to APPROVED and verifies the
	// underlying transaction. Concurrent approvals of the same voucher cannot
	// both succeed.
	ApproveVoucher(ctx context.Context, tenantID, voucherID, approverUserID string) (*domain.Voucher, error)

	// RejectVoucher flips the voucher to REJECTED.
	RejectVoucher(ctx context.Context, tenantID, voucherID, userID string) (*domain.Voucher, error)
}
