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

// accountColumns is the select list shared by every account query. The
// ledger group lives on the category row and is resolved on read.
const accountColumns = `
	a.account_id, a.tenant_id, a.name, a.number, a.category_id, a.parent_account_id,
	a.currency_code, a.system_account, a.editable, a.hidden, a.archived, a.purpose,
	a.balance, a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
	c.ledger_group`

const accountFrom = ` FROM accounts a JOIN account_categories c ON c.category_id = a.category_id`

// PgAccountRepository implements the AccountRepositoryFacade using PostgreSQL.
type PgAccountRepository struct {
	BaseRepository
}

// NewPgAccountRepository creates a new PgAccountRepository.
func NewPgAccountRepository(pool *pgxpool.Pool) *PgAccountRepository {
	return &PgAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.LedgerAccount, error) {
	var account domain.LedgerAccount
	var parentID *string
	var purpose *string
	err := row.Scan(
		&account.AccountID,
		&account.TenantID,
		&account.Name,
		&account.Number,
		&account.CategoryID,
		&parentID,
		&account.CurrencyCode,
		&account.SystemAccount,
		&account.Editable,
		&account.Hidden,
		&account.Archived,
		&purpose,
		&account.Balance,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
		&account.LedgerGroup,
	)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		account.ParentAccountID = *parentID
	}
	if purpose != nil {
		p := domain.DefaultAccountPurpose(*purpose)
		account.Purpose = &p
	}
	return &account, nil
}

// SaveAccount persists a new account.
func (r *PgAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	query := `
		INSERT INTO accounts (
			account_id, tenant_id, name, number, category_id, parent_account_id,
			currency_code, system_account, editable, hidden, archived, purpose,
			balance, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	var parentID *string
	if account.ParentAccountID != "" {
		parentID = &account.ParentAccountID
	}
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID, account.TenantID, account.Name, account.Number,
		account.CategoryID, parentID, account.CurrencyCode, account.SystemAccount,
		account.Editable, account.Hidden, account.Archived, account.Purpose,
		account.Balance, account.CreatedAt, account.CreatedBy,
		account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save account", err)
	}
	return nil
}

// UpdateAccount persists changes to an existing account. The persisted
// balance is not touched here; it only moves with postings.
func (r *PgAccountRepository) UpdateAccount(ctx context.Context, account domain.LedgerAccount) error {
	query := `
		UPDATE accounts
		SET name = $3, number = $4, category_id = $5, parent_account_id = $6,
		    hidden = $7, last_updated_at = $8, last_updated_by = $9
		WHERE account_id = $1 AND tenant_id = $2
	`
	var parentID *string
	if account.ParentAccountID != "" {
		parentID = &account.ParentAccountID
	}
	tag, err := r.Pool.Exec(ctx, query,
		account.AccountID, account.TenantID, account.Name, account.Number,
		account.CategoryID, parentID, account.Hidden,
		account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	return nil
}

// UpsertDefaultAccount inserts the candidate unless the (tenant, purpose)
// pair already has an account, then returns the surviving row. The partial
// unique index on (tenant_id, purpose) guarantees concurrent first-use
// callers converge on a single account.
func (r *PgAccountRepository) UpsertDefaultAccount(ctx context.Context, candidate domain.LedgerAccount) (*domain.LedgerAccount, error) {
	insert := `
		INSERT INTO accounts (
			account_id, tenant_id, name, number, category_id, parent_account_id,
			currency_code, system_account, editable, hidden, archived, purpose,
			balance, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (tenant_id, purpose) WHERE purpose IS NOT NULL DO NOTHING
	`
	_, err := r.Pool.Exec(ctx, insert,
		candidate.AccountID, candidate.TenantID, candidate.Name, candidate.Number,
		candidate.CategoryID, candidate.CurrencyCode, candidate.SystemAccount,
		candidate.Editable, candidate.Hidden, candidate.Archived, candidate.Purpose,
		candidate.Balance, candidate.CreatedAt, candidate.CreatedBy,
		candidate.LastUpdatedAt, candidate.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert default account", err)
	}

	query := `SELECT ` + accountColumns + accountFrom + `
		WHERE a.tenant_id = $1 AND a.purpose = $2`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, candidate.TenantID, candidate.Purpose))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("default account for purpose %s: %w", *candidate.Purpose, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to load default account", err)
	}
	return account, nil
}

// FindAccountByID retrieves an account by ID within a tenant.
func (r *PgAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + accountColumns + accountFrom + `
		WHERE a.account_id = $1 AND a.tenant_id = $2`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find account", err)
	}
	return account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
// simply absent from the map; callers decide whether that is an error.
func (r *PgAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.LedgerAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.LedgerAccount{}, nil
	}
	query := `SELECT ` + accountColumns + accountFrom + `
		WHERE a.tenant_id = $1 AND a.account_id = ANY($2)`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.LedgerAccount, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		accounts[account.AccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate accounts", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a page of accounts ordered by creation time,
// newest first, using keyset pagination.
func (r *PgAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.LedgerAccount, *string, error) {
	fetchLimit := limit + 1

	query := `SELECT ` + accountColumns + accountFrom + `
		WHERE a.tenant_id = $1`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += ` AND (a.created_at, a.account_id) < ($2, $3)`
		args = append(args, createdAt, fields[1])
	}

	query += fmt.Sprintf(` ORDER BY a.created_at DESC, a.account_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.LedgerAccount, 0, fetchLimit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate accounts", err)
	}

	var token *string
	if len(accounts) == fetchLimit {
		accounts = accounts[:limit]
		last := accounts[limit-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.AccountID)
		token = &t
	}
	return accounts, token, nil
}

// HasPostings reports whether any transaction references the account on
// either leg.
func (r *PgAccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.account_id = $1 OR t.debit_account_id = $1 OR t.credit_account_id = $1
		)
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check account postings", err)
	}
	return exists, nil
}

// HasActiveChildren reports whether the account has non-archived children.
func (r *PgAccountRepository) HasActiveChildren(ctx context.Context, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts
			WHERE parent_account_id = $1 AND archived = FALSE
		)
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check account children", err)
	}
	return exists, nil
}

// ArchiveAccount soft-archives an account. Archiving an already archived
// account is a no-op at this layer.
func (r *PgAccountRepository) ArchiveAccount(ctx context.Context, tenantID, accountID, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET archived = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND tenant_id = $2
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, tenantID, updatedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

// FindAccountsByIDsForUpdate locks the given account rows for the duration
// of the surrounding transaction and returns them keyed by ID. Used by the
// posting paths before applying balance changes.
func (r *PgAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.LedgerAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.LedgerAccount{}, nil
	}
	// FOR UPDATE OF a: only the account rows are locked, not the category rows.
	query := `SELECT ` + accountColumns + accountFrom + `
		WHERE a.tenant_id = $1 AND a.account_id = ANY($2)
		ORDER BY a.account_id
		FOR UPDATE OF a`
	rows, err := tx.Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.LedgerAccount, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked account", err)
		}
		accounts[account.AccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate locked accounts", err)
	}
	return accounts, nil
}

// UpdateAccountBalancesInTx applies the signed balance deltas to the already
// locked account rows within the transaction.
func UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, tenantID string, changes map[string]decimal.Decimal, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1 AND tenant_id = $2
	`
	batch := &pgx.Batch{}
	for accountID, delta := range changes {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, tenantID, delta, updatedAt, updatedByUserID)
	}
	if batch.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to update account balance", err)
		}
	}
	return nil
}
