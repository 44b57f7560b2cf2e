package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// VoucherReader defines read operations for vouchers.
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, tenantID, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, tenantID string, status *domain.VoucherStatus, limit int, nextToken *string) ([]domain.Voucher, *string, error)
}

// VoucherWriter defines write operations for vouchers.
type VoucherWriter interface {
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	// UpdatePendingVoucher updates a voucher only while it is still PENDING.
	// Returns false when the guard did not match (already approved/rejected).
	UpdatePendingVoucher(ctx context.Context, voucher domain.Voucher) (bool, error)

	// TransitionVoucherStatus moves a voucher from PENDING to the given
	// status, flipping the underlying transaction's verified flag on approval,
	// all in one storage transaction. The status guard makes concurrent
	// approvals mutually exclusive: exactly one caller sees true.
	TransitionVoucherStatus(ctx context.Context, tenantID, voucherID string, to domain.VoucherStatus, actedByUserID string, actedAt time.Time) (bool, error)
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
