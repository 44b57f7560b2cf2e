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
	"github.com/google/uuid"
)

// voucherService implements the VoucherSvcFacade interface. A voucher wraps a
// double-entry transaction with a PENDING/APPROVED/REJECTED workflow; the
// transaction is posted at creation and verified on approval.
type voucherService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryFacade
	txnSvc      portssvc.TransactionSvcFacade
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, txnSvc portssvc.TransactionSvcFacade, authorizer portssvc.TenantAuthorizerSvc) portssvc.VoucherSvcFacade {
	svc := &voucherService{
		voucherRepo: voucherRepo,
		txnSvc:      txnSvc,
	}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func (s *voucherService) CreateVoucher(ctx context.Context, tenantID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	voucherID := uuid.NewString()
	relType := string(domain.RelatedVoucher)
	txn, err := s.txnSvc.PostDoubleEntry(ctx, tenantID, dto.PostDoubleEntryRequest{
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		ExchangeRate:    req.ExchangeRate,
		TransactionDate: req.VoucherDate,
		RelatedToType:   &relType,
		RelatedToID:     &voucherID,
		Notes:           req.Notes,
	}, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	voucher := domain.Voucher{
		VoucherID:     voucherID,
		TenantID:      tenantID,
		VoucherType:   domain.VoucherType(req.VoucherType),
		VoucherTo:     domain.VoucherTo(req.VoucherTo),
		Status:        domain.VoucherPending,
		TransactionID: txn.TransactionID,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.voucherRepo.SaveVoucher(ctx, voucher); err != nil {
		s.LogError(ctx, err, "Failed to save voucher",
			slog.String("voucher_id", voucherID),
			slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher created",
		slog.String("voucher_id", voucherID),
		slog.String("voucher_type", req.VoucherType),
		slog.String("transaction_id", txn.TransactionID))
	return &voucher, nil
}

func (s *voucherService) GetVoucherByID(ctx context.Context, tenantID, voucherID, userID string) (*domain.Voucher, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.voucherRepo.FindVoucherByID(ctx, tenantID, voucherID)
}

func (s *voucherService) ListVouchers(ctx context.Context, tenantID, userID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	var status *domain.VoucherStatus
	if params.Status != nil {
		st := domain.VoucherStatus(*params.Status)
		switch st {
		case domain.VoucherPending, domain.VoucherApproved, domain.VoucherRejected:
			status = &st
		default:
			return nil, fmt.Errorf("unknown voucher status %q: %w", *params.Status, apperrors.ErrValidation)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, tenantID, status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers", slog.String("tenant_id", tenantID))
		return nil, err
	}

	return &dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(vouchers),
		NextToken: nextToken,
	}, nil
}

func (s *voucherService) UpdateVoucher(ctx context.Context, tenantID, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, tenantID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherPending {
		return nil, fmt.Errorf("voucher %s is %s and no longer editable: %w", voucherID, voucher.Status, apperrors.ErrConflict)
	}

	updated := false
	if req.VoucherTo != nil {
		to := domain.VoucherTo(*req.VoucherTo)
		switch to {
		case domain.VoucherToClient, domain.VoucherToVendor, domain.VoucherToStaff, domain.VoucherToOther:
			voucher.VoucherTo = to
			updated = true
		default:
			return nil, fmt.Errorf("unknown voucher counterparty %q: %w", *req.VoucherTo, apperrors.ErrValidation)
		}
	}
	if req.Notes != nil {
		voucher.Notes = *req.Notes
		updated = true
	}
	if !updated {
		return voucher, nil
	}

	now := time.Now()
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID

	// The guarded update re-checks PENDING in storage, so an approval that
	// lands between our read and this write causes a conflict, not a lost
	// update.
	ok, err := s.voucherRepo.UpdatePendingVoucher(ctx, *voucher)
	if err != nil {
		s.LogError(ctx, err, "Failed to update voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("voucher %s is no longer PENDING: %w", voucherID, apperrors.ErrConflict)
	}
	return voucher, nil
}

func (s *voucherService) ApproveVoucher(ctx context.Context, tenantID, voucherID, approverUserID string) (*domain.Voucher, error) {
	if err := s.AuthorizeUser(ctx, approverUserID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, tenantID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherPending {
		return nil, fmt.Errorf("voucher %s is already %s: %w", voucherID, voucher.Status, apperrors.ErrConflict)
	}
	if voucher.CreatedBy == approverUserID {
		return nil, fmt.Errorf("a voucher cannot be approved by its creator: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	ok, err := s.voucherRepo.TransitionVoucherStatus(ctx, tenantID, voucherID, domain.VoucherApproved, approverUserID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to approve voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}
	if !ok {
		// Somebody else won the approval race.
		return nil, fmt.Errorf("voucher %s was decided concurrently: %w", voucherID, apperrors.ErrConflict)
	}

	voucher.Status = domain.VoucherApproved
	voucher.ApprovedBy = &approverUserID
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = approverUserID

	s.LogInfo(ctx, "Voucher approved",
		slog.String("voucher_id", voucherID),
		slog.String("approver_id", approverUserID))
	return voucher, nil
}

func (s *voucherService) RejectVoucher(ctx context.Context, tenantID, voucherID, userID string) (*domain.Voucher, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, tenantID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherPending {
		return nil, fmt.Errorf("voucher %s is already %s: %w", voucherID, voucher.Status, apperrors.ErrConflict)
	}

	now := time.Now()
	ok, err := s.voucherRepo.TransitionVoucherStatus(ctx, tenantID, voucherID, domain.VoucherRejected, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to reject voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("voucher %s was decided concurrently: %w", voucherID, apperrors.ErrConflict)
	}

	// A rejected voucher's transaction must not linger on the books.
	if _, err := s.txnSvc.ReverseTransaction(ctx, tenantID, voucher.TransactionID, userID); err != nil {
		s.LogError(ctx, err, "Failed to reverse transaction of rejected voucher",
			slog.String("voucher_id", voucherID),
			slog.String("transaction_id", voucher.TransactionID))
		return nil, err
	}

	voucher.Status = domain.VoucherRejected
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID

	s.LogInfo(ctx, "Voucher rejected", slog.String("voucher_id", voucherID))
	return voucher, nil
}
