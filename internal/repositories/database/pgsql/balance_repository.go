package pgsql

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// accountLegs unpivots transactions into one row per (account, side, amount)
// leg: single-entry rows contribute their one leg, double-entry rows
// contribute both. Every balance and reporting aggregate is built on top of
// this shape.
const accountLegs = `
	legs AS (
		SELECT t.account_id AS account_id, t.side AS side, t.amount, t.base_amount, t.transaction_date
		FROM transactions t
		WHERE t.tenant_id = $1 AND t.entry_mode = 'SINGLE_ENTRY'
		UNION ALL
		SELECT t.debit_account_id, 'DEBIT', t.amount, t.base_amount, t.transaction_date
		FROM transactions t
		WHERE t.tenant_id = $1 AND t.entry_mode = 'DOUBLE_ENTRY'
		UNION ALL
		SELECT t.credit_account_id, 'CREDIT', t.amount, t.base_amount, t.transaction_date
		FROM transactions t
		WHERE t.tenant_id = $1 AND t.entry_mode = 'DOUBLE_ENTRY'
	)`

// normalSide resolves an account's normal-balance side from its category.
const normalSide = `CASE WHEN c.ledger_group IN ('ASSET', 'EXPENSE', 'DIVIDENDS') THEN 'DEBIT' ELSE 'CREDIT' END`

// PgBalanceRepository implements the BalanceRepository using database-side
// aggregates. Balances are never derived by replaying history in application
// code.
type PgBalanceRepository struct {
	BaseRepository
}

// NewPgBalanceRepository creates a new PgBalanceRepository.
func NewPgBalanceRepository(pool *pgxpool.Pool) *PgBalanceRepository {
	return &PgBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepository = (*PgBalanceRepository)(nil)

func (r *PgBalanceRepository) sumLegs(ctx context.Context, tenantID, accountID string, from *time.Time, to time.Time) (decimal.Decimal, error) {
	query := `WITH ` + accountLegs + `
		SELECT COALESCE(SUM(
			CASE WHEN l.side = ` + normalSide + ` THEN l.amount ELSE -l.amount END
		), 0)
		FROM legs l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN account_categories c ON c.category_id = a.category_id
		WHERE l.account_id = $2 AND l.transaction_date <= $3`
	args := []any{tenantID, accountID, to}
	if from != nil {
		query += ` AND l.transaction_date > $4`
		args = append(args, *from)
	}

	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to aggregate account balance", err)
	}
	return balance, nil
}

// BalanceAsOf sums all legs posted to the account up to and including asOf,
// signed per the account's normal side.
func (r *PgBalanceRepository) BalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	return r.sumLegs(ctx, tenantID, accountID, nil, asOf)
}

// BalanceBetween sums all legs in the half-open interval (from, to].
func (r *PgBalanceRepository) BalanceBetween(ctx context.Context, tenantID, accountID string, from, to time.Time) (decimal.Decimal, error) {
	return r.sumLegs(ctx, tenantID, accountID, &from, to)
}

// TrialBalanceData nets each account's debit and credit legs in base currency
// as of a date. A positive net lands in the debit column, a negative net in
// the credit column. Accounts with no postings are omitted.
func (r *PgBalanceRepository) TrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `WITH ` + accountLegs + `
		SELECT a.account_id, a.name, c.ledger_group,
		       COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE -l.base_amount END), 0) AS net_debit
		FROM legs l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN account_categories c ON c.category_id = a.category_id
		WHERE l.transaction_date <= $2
		GROUP BY a.account_id, a.name, a.number, c.ledger_group
		HAVING COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE -l.base_amount END), 0) <> 0
		ORDER BY a.number, a.account_id`
	rows, err := r.Pool.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate trial balance", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var netDebit decimal.Decimal
		if err := rows.Scan(&row.AccountID, &row.AccountName, &row.LedgerGroup, &netDebit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		if netDebit.IsNegative() {
			row.Credit = netDebit.Neg()
		} else {
			row.Debit = netDebit
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate trial balance rows", err)
	}
	return result, nil
}
