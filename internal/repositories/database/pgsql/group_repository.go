package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const groupColumns = `
	g.group_id, g.tenant_id, g.group_date, g.description, g.currency_code,
	g.status, g.total_debit, g.total_credit, g.original_group_id,
	g.reversing_group_id, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by`

// PgGroupRepository implements the GroupRepositoryFacade using PostgreSQL.
type PgGroupRepository struct {
	BaseRepository
	accountRepo *PgAccountRepository
}

// NewPgGroupRepository creates a new PgGroupRepository.
func NewPgGroupRepository(pool *pgxpool.Pool, accountRepo *PgAccountRepository) *PgGroupRepository {
	return &PgGroupRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.GroupRepositoryFacade = (*PgGroupRepository)(nil)

func scanGroup(row pgx.Row) (*domain.LedgerTransactionGroup, error) {
	var group domain.LedgerTransactionGroup
	err := row.Scan(
		&group.GroupID,
		&group.TenantID,
		&group.GroupDate,
		&group.Description,
		&group.CurrencyCode,
		&group.Status,
		&group.TotalDebit,
		&group.TotalCredit,
		&group.OriginalGroupID,
		&group.ReversingGroupID,
		&group.CreatedAt,
		&group.CreatedBy,
		&group.LastUpdatedAt,
		&group.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func insertGroupInTx(ctx context.Context, tx pgx.Tx, group domain.LedgerTransactionGroup) error {
	query := `
		INSERT INTO transaction_groups (
			group_id, tenant_id, group_date, description, currency_code, status,
			total_debit, total_credit, original_group_id, reversing_group_id,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := tx.Exec(ctx, query,
		group.GroupID, group.TenantID, group.GroupDate, group.Description,
		group.CurrencyCode, group.Status, group.TotalDebit, group.TotalCredit,
		group.OriginalGroupID, group.ReversingGroupID,
		group.CreatedAt, group.CreatedBy, group.LastUpdatedAt, group.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("group %s: %w", group.GroupID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert group", err)
	}
	return nil
}

// stampGroupRunningBalances walks the member transactions in posting order
// and stamps each single-entry line with the account balance after that line,
// starting from the locked row balances.
func stampGroupRunningBalances(txns []domain.LedgerTransaction, locked map[string]domain.LedgerAccount) error {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].TransactionID < txns[j].TransactionID
	})
	running := make(map[string]decimal.Decimal, len(locked))
	for id, account := range locked {
		running[id] = account.Balance
	}
	for i := range txns {
		for _, accountID := range txns[i].Accounts() {
			account, ok := locked[accountID]
			if !ok {
				continue
			}
			side, err := txns[i].SideForAccount(accountID)
			if err != nil {
				return err
			}
			signed, err := accounting.SignedAmount(txns[i].Amount, side, account.LedgerGroup)
			if err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}
			running[accountID] = running[accountID].Add(signed)
		}
		if txns[i].EntryMode == domain.SingleEntry {
			txns[i].RunningBalance = running[txns[i].AccountID]
		}
	}
	return nil
}

func collectAccountIDs(txns []domain.LedgerTransaction) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, txn := range txns {
		for _, id := range txn.Accounts() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// SaveGroup persists the group header, all member transactions, and the
// balance changes in one storage transaction.
func (r *PgGroupRepository) SaveGroup(ctx context.Context, group domain.LedgerTransactionGroup, transactions []domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertGroupInTx(ctx, tx, group); err != nil {
		return err
	}

	accountIDs := collectAccountIDs(transactions)
	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, group.TenantID, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
	}
	if err := UpdateAccountBalancesInTx(ctx, tx, group.TenantID, balanceChanges, group.CreatedBy, group.CreatedAt); err != nil {
		return err
	}

	if err := stampGroupRunningBalances(transactions, locked); err != nil {
		return err
	}
	if err := insertTransactionsInTx(ctx, tx, transactions); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// PostGroup transitions a group from BALANCED to POSTED and marks its members
// verified. Returns false when the group was not in BALANCED state, including
// when it does not exist; callers disambiguate with a follow-up read.
func (r *PgGroupRepository) PostGroup(ctx context.Context, tenantID, groupID, postedByUserID string, postedAt time.Time) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	guard := `
		UPDATE transaction_groups
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE group_id = $1 AND tenant_id = $2 AND status = $6
	`
	tag, err := tx.Exec(ctx, guard, groupID, tenantID,
		domain.GroupPosted, postedAt, postedByUserID, domain.GroupBalanced)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to post group", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	verify := `
		UPDATE transactions
		SET verified = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE group_id = $1
	`
	if _, err := tx.Exec(ctx, verify, groupID, postedAt, postedByUserID); err != nil {
		return false, apperrors.NewAppError(500, "failed to verify group transactions", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// SaveReversalGroup flips the original group to REVERSED and persists the
// mirror group with its members and balance changes, all in one storage
// transaction. The status guard on the original makes concurrent reversals
// mutually exclusive.
func (r *PgGroupRepository) SaveReversalGroup(ctx context.Context, originalGroupID string, mirror domain.LedgerTransactionGroup, transactions []domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	guard := `
		UPDATE transaction_groups
		SET status = $3, reversing_group_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE group_id = $1 AND tenant_id = $2 AND status = $7 AND reversing_group_id IS NULL
	`
	tag, err := tx.Exec(ctx, guard, originalGroupID, mirror.TenantID,
		domain.GroupReversed, mirror.GroupID, mirror.CreatedAt, mirror.CreatedBy, domain.GroupPosted)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to flag original group", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	// Original members are flagged so they cannot also be reversed one by one.
	flag := `
		UPDATE transactions
		SET archived = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE group_id = $1
	`
	if _, err := tx.Exec(ctx, flag, originalGroupID, mirror.CreatedAt, mirror.CreatedBy); err != nil {
		return false, apperrors.NewAppError(500, "failed to flag original group transactions", err)
	}

	if err := insertGroupInTx(ctx, tx, mirror); err != nil {
		return false, err
	}

	accountIDs := collectAccountIDs(transactions)
	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, mirror.TenantID, accountIDs)
	if err != nil {
		return false, err
	}
	if err := UpdateAccountBalancesInTx(ctx, tx, mirror.TenantID, balanceChanges, mirror.CreatedBy, mirror.CreatedAt); err != nil {
		return false, err
	}

	if err := stampGroupRunningBalances(transactions, locked); err != nil {
		return false, err
	}
	if err := insertTransactionsInTx(ctx, tx, transactions); err != nil {
		return false, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// FindGroupByID retrieves a group header.
func (r *PgGroupRepository) FindGroupByID(ctx context.Context, tenantID, groupID string) (*domain.LedgerTransactionGroup, error) {
	query := `SELECT ` + groupColumns + `
		FROM transaction_groups g
		WHERE g.group_id = $1 AND g.tenant_id = $2`
	group, err := scanGroup(r.Pool.QueryRow(ctx, query, groupID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group %s: %w", groupID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find group", err)
	}
	return group, nil
}

// ListGroupsByTenant retrieves a page of groups, newest first, using keyset
// pagination on (group_date, created_at). Mirror groups are excluded unless
// includeReversals is set.
func (r *PgGroupRepository) ListGroupsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.LedgerTransactionGroup, *string, error) {
	fetchLimit := limit + 1

	query := `SELECT ` + groupColumns + `
		FROM transaction_groups g
		WHERE g.tenant_id = $1`
	args := []any{tenantID}

	if !includeReversals {
		query += ` AND g.original_group_id IS NULL`
	}

	if nextToken != nil && *nextToken != "" {
		groupDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(` AND (g.group_date, g.created_at) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, groupDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY g.group_date DESC, g.created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list groups", err)
	}
	defer rows.Close()

	groups := make([]domain.LedgerTransactionGroup, 0, fetchLimit)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan group", err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate groups", err)
	}

	var token *string
	if len(groups) == fetchLimit {
		groups = groups[:limit]
		last := groups[limit-1]
		t := pagination.EncodeToken(last.GroupDate, last.CreatedAt)
		token = &t
	}
	return groups, token, nil
}
