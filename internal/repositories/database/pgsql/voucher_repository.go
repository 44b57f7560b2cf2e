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
)

const voucherColumns = `
	v.voucher_id, v.tenant_id, v.voucher_type, v.voucher_to, v.status,
	v.transaction_id, v.notes, v.approved_by,
	v.created_at, v.created_by, v.last_updated_at, v.last_updated_by`

// PgVoucherRepository implements the VoucherRepositoryFacade using PostgreSQL.
type PgVoucherRepository struct {
	BaseRepository
}

// NewPgVoucherRepository creates a new PgVoucherRepository.
func NewPgVoucherRepository(pool *pgxpool.Pool) *PgVoucherRepository {
	return &PgVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (*domain.Voucher, error) {
	var voucher domain.Voucher
	err := row.Scan(
		&voucher.VoucherID,
		&voucher.TenantID,
		&voucher.VoucherType,
		&voucher.VoucherTo,
		&voucher.Status,
		&voucher.TransactionID,
		&voucher.Notes,
		&voucher.ApprovedBy,
		&voucher.CreatedAt,
		&voucher.CreatedBy,
		&voucher.LastUpdatedAt,
		&voucher.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// SaveVoucher persists a new voucher.
func (r *PgVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	query := `
		INSERT INTO vouchers (
			voucher_id, tenant_id, voucher_type, voucher_to, status,
			transaction_id, notes, approved_by,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.Pool.Exec(ctx, query,
		voucher.VoucherID, voucher.TenantID, voucher.VoucherType, voucher.VoucherTo,
		voucher.Status, voucher.TransactionID, voucher.Notes, voucher.ApprovedBy,
		voucher.CreatedAt, voucher.CreatedBy, voucher.LastUpdatedAt, voucher.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("voucher %s: %w", voucher.VoucherID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save voucher", err)
	}
	return nil
}

// UpdatePendingVoucher updates the editable fields while the voucher is still
// PENDING. Returns false when the guard did not match.
func (r *PgVoucherRepository) UpdatePendingVoucher(ctx context.Context, voucher domain.Voucher) (bool, error) {
	query := `
		UPDATE vouchers
		SET voucher_type = $3, voucher_to = $4, notes = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE voucher_id = $1 AND tenant_id = $2 AND status = $8
	`
	tag, err := r.Pool.Exec(ctx, query,
		voucher.VoucherID, voucher.TenantID, voucher.VoucherType, voucher.VoucherTo,
		voucher.Notes, voucher.LastUpdatedAt, voucher.LastUpdatedBy, domain.VoucherPending,
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update voucher", err)
	}
	return tag.RowsAffected() > 0, nil
}

// TransitionVoucherStatus moves a voucher from PENDING to the given status.
// Approval also flips the underlying transaction's verified flag, in the same
// storage transaction. Returns false when the voucher was not PENDING.
func (r *PgVoucherRepository) TransitionVoucherStatus(ctx context.Context, tenantID, voucherID string, to domain.VoucherStatus, actedByUserID string, actedAt time.Time) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	var approvedBy *string
	if to == domain.VoucherApproved {
		approvedBy = &actedByUserID
	}
	guard := `
		UPDATE vouchers
		SET status = $3, approved_by = COALESCE($4, approved_by),
		    last_updated_at = $5, last_updated_by = $6
		WHERE voucher_id = $1 AND tenant_id = $2 AND status = $7
		RETURNING transaction_id
	`
	var transactionID string
	err = tx.QueryRow(ctx, guard, voucherID, tenantID, to, approvedBy,
		actedAt, actedByUserID, domain.VoucherPending).Scan(&transactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewAppError(500, "failed to transition voucher", err)
	}

	if to == domain.VoucherApproved {
		verify := `
			UPDATE transactions
			SET verified = TRUE, last_updated_at = $3, last_updated_by = $4
			WHERE transaction_id = $1 AND tenant_id = $2
		`
		if _, err := tx.Exec(ctx, verify, transactionID, tenantID, actedAt, actedByUserID); err != nil {
			return false, apperrors.NewAppError(500, "failed to verify voucher transaction", err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// FindVoucherByID retrieves a voucher within a tenant.
func (r *PgVoucherRepository) FindVoucherByID(ctx context.Context, tenantID, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + `
		FROM vouchers v
		WHERE v.voucher_id = $1 AND v.tenant_id = $2`
	voucher, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("voucher %s: %w", voucherID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher", err)
	}
	return voucher, nil
}

// ListVouchers retrieves a page of vouchers, newest first, optionally
// filtered by status, using keyset pagination on (created_at, voucher_id).
func (r *PgVoucherRepository) ListVouchers(ctx context.Context, tenantID string, status *domain.VoucherStatus, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	fetchLimit := limit + 1

	query := `SELECT ` + voucherColumns + `
		FROM vouchers v
		WHERE v.tenant_id = $1`
	args := []any{tenantID}

	if status != nil {
		query += fmt.Sprintf(` AND v.status = $%d`, len(args)+1)
		args = append(args, *status)
	}

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(` AND (v.created_at, v.voucher_id) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, createdAt, fields[1])
	}

	query += fmt.Sprintf(` ORDER BY v.created_at DESC, v.voucher_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list vouchers", err)
	}
	defer rows.Close()

	vouchers := make([]domain.Voucher, 0, fetchLimit)
	for rows.Next() {
		voucher, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan voucher", err)
		}
		vouchers = append(vouchers, *voucher)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate vouchers", err)
	}

	var token *string
	if len(vouchers) == fetchLimit {
		vouchers = vouchers[:limit]
		last := vouchers[limit-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.VoucherID)
		token = &t
	}
	return vouchers, token, nil
}
