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

const transactionColumns = `
	t.transaction_id, t.tenant_id, t.group_id, t.entry_mode, t.account_id, t.side,
	t.debit_account_id, t.credit_account_id, t.amount, t.currency_code,
	t.exchange_rate, t.base_amount, t.transaction_date, t.verified, t.archived,
	t.related_to_type, t.related_to_id, t.payment_method, t.reversal_of_id,
	t.notes, t.running_balance, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

// PgTransactionRepository implements the TransactionRepositoryFacade using PostgreSQL.
type PgTransactionRepository struct {
	BaseRepository
	accountRepo *PgAccountRepository
}

// NewPgTransactionRepository creates a new PgTransactionRepository.
func NewPgTransactionRepository(pool *pgxpool.Pool, accountRepo *PgAccountRepository) *PgTransactionRepository {
	return &PgTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.LedgerTransaction, error) {
	var txn domain.LedgerTransaction
	var accountID, debitAccountID, creditAccountID, side *string
	var relatedToType *string
	err := row.Scan(
		&txn.TransactionID,
		&txn.TenantID,
		&txn.GroupID,
		&txn.EntryMode,
		&accountID,
		&side,
		&debitAccountID,
		&creditAccountID,
		&txn.Amount,
		&txn.CurrencyCode,
		&txn.ExchangeRate,
		&txn.BaseAmount,
		&txn.TransactionDate,
		&txn.Verified,
		&txn.Archived,
		&relatedToType,
		&txn.RelatedToID,
		&txn.PaymentMethod,
		&txn.ReversalOfID,
		&txn.Notes,
		&txn.RunningBalance,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if accountID != nil {
		txn.AccountID = *accountID
	}
	if side != nil {
		txn.Side = domain.TransactionSide(*side)
	}
	if debitAccountID != nil {
		txn.DebitAccountID = *debitAccountID
	}
	if creditAccountID != nil {
		txn.CreditAccountID = *creditAccountID
	}
	if relatedToType != nil {
		rt := domain.RelatedToType(*relatedToType)
		txn.RelatedToType = &rt
	}
	return &txn, nil
}

// insertTransactionsInTx batch-inserts transaction rows within an open
// storage transaction. Shared by the posting, grouping, and payment paths.
func insertTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.LedgerTransaction) error {
	query := `
		INSERT INTO transactions (
			transaction_id, tenant_id, group_id, entry_mode, account_id, side,
			debit_account_id, credit_account_id, amount, currency_code,
			exchange_rate, base_amount, transaction_date, verified, archived,
			related_to_type, related_to_id, payment_method, reversal_of_id,
			notes, running_balance, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		          $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`
	batch := &pgx.Batch{}
	for _, txn := range txns {
		var accountID, side, debitAccountID, creditAccountID *string
		if txn.AccountID != "" {
			accountID = &txn.AccountID
		}
		if txn.Side != "" {
			s := string(txn.Side)
			side = &s
		}
		if txn.DebitAccountID != "" {
			debitAccountID = &txn.DebitAccountID
		}
		if txn.CreditAccountID != "" {
			creditAccountID = &txn.CreditAccountID
		}
		batch.Queue(query,
			txn.TransactionID, txn.TenantID, txn.GroupID, txn.EntryMode,
			accountID, side, debitAccountID, creditAccountID,
			txn.Amount, txn.CurrencyCode, txn.ExchangeRate, txn.BaseAmount,
			txn.TransactionDate, txn.Verified, txn.Archived,
			txn.RelatedToType, txn.RelatedToID, txn.PaymentMethod, txn.ReversalOfID,
			txn.Notes, txn.RunningBalance,
			txn.CreatedAt, txn.CreatedBy, txn.LastUpdatedAt, txn.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("transaction already exists: %w", apperrors.ErrDuplicate)
			}
			return apperrors.NewAppError(500, "failed to insert transaction", err)
		}
	}
	return nil
}

// applyRunningBalances stamps single-entry transactions with the account
// balance after the posting, derived from the locked row balances plus the
// signed changes.
func applyRunningBalances(txns []domain.LedgerTransaction, locked map[string]domain.LedgerAccount, changes map[string]decimal.Decimal) {
	running := make(map[string]decimal.Decimal, len(locked))
	for id, account := range locked {
		running[id] = account.Balance.Add(changes[id])
	}
	for i := range txns {
		if txns[i].EntryMode == domain.SingleEntry {
			txns[i].RunningBalance = running[txns[i].AccountID]
		}
	}
}

// SaveTransaction persists a transaction and applies its balance changes
// atomically. Affected account rows are locked first so concurrent postings
// serialize per account.
func (r *PgTransactionRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

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

	txns := []domain.LedgerTransaction{txn}
	applyRunningBalances(txns, locked, balanceChanges)
	if err := insertTransactionsInTx(ctx, tx, txns); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveReversal flags the original as reversed and persists the mirror
// transaction with its balance changes in one storage transaction. The
// archived guard on the original makes concurrent reversals mutually
// exclusive.
func (r *PgTransactionRepository) SaveReversal(ctx context.Context, originalID string, reversal domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	guard := `
		UPDATE transactions
		SET archived = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND tenant_id = $2 AND archived = FALSE
	`
	tag, err := tx.Exec(ctx, guard, originalID, reversal.TenantID, reversal.CreatedAt, reversal.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to flag original transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s already reversed: %w", originalID, apperrors.ErrConflict)
	}

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, reversal.TenantID, reversal.Accounts())
	if err != nil {
		return err
	}
	if err := UpdateAccountBalancesInTx(ctx, tx, reversal.TenantID, balanceChanges, reversal.CreatedBy, reversal.CreatedAt); err != nil {
		return err
	}

	txns := []domain.LedgerTransaction{reversal}
	applyRunningBalances(txns, locked, balanceChanges)
	if err := insertTransactionsInTx(ctx, tx, txns); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkTransactionVerified sets the verified flag. Idempotent.
func (r *PgTransactionRepository) MarkTransactionVerified(ctx context.Context, tenantID, transactionID, verifiedByUserID string, verifiedAt time.Time) error {
	query := `
		UPDATE transactions
		SET verified = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND tenant_id = $2
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, tenantID, verifiedAt, verifiedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction verified", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

// FindTransactionByID retrieves a transaction within a tenant.
func (r *PgTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.transaction_id = $1 AND t.tenant_id = $2`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction", err)
	}
	return txn, nil
}

// FindTransactionsByGroupID retrieves all member transactions of a group.
func (r *PgTransactionRepository) FindTransactionsByGroupID(ctx context.Context, groupID string) ([]domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.group_id = $1
		ORDER BY t.transaction_date ASC, t.created_at ASC, t.transaction_id ASC`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find group transactions", err)
	}
	defer rows.Close()

	var txns []domain.LedgerTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate transactions", err)
	}
	return txns, nil
}

// ListTransactionsByAccountID retrieves a page of transactions posting to the
// account on either leg, newest first, using keyset pagination on
// (transaction_date, created_at).
func (r *PgTransactionRepository) ListTransactionsByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.tenant_id = $1
		  AND (t.account_id = $2 OR t.debit_account_id = $2 OR t.credit_account_id = $2)`
	args := []any{tenantID, accountID}

	if nextToken != nil && *nextToken != "" {
		txnDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += ` AND (t.transaction_date, t.created_at) < ($3, $4)`
		args = append(args, txnDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY t.transaction_date DESC, t.created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.LedgerTransaction, 0, fetchLimit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate transactions", err)
	}

	var token *string
	if len(txns) == fetchLimit {
		txns = txns[:limit]
		last := txns[limit-1]
		t := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		token = &t
	}
	return txns, token, nil
}
