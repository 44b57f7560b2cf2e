package pgsql

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgReportingRepository implements the ReportingRepository using PostgreSQL
// aggregates over the same leg shape as the balance queries. Report amounts
// are in tenant base currency.
type PgReportingRepository struct {
	BaseRepository
}

// NewPgReportingRepository creates a new PgReportingRepository.
func NewPgReportingRepository(pool *pgxpool.Pool) *PgReportingRepository {
	return &PgReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgReportingRepository)(nil)

type accountAmountRow struct {
	domain.AccountAmount
	ledgerGroup domain.LedgerGroup
}

func (r *PgReportingRepository) netAmountsByGroup(ctx context.Context, query string, args ...any) ([]accountAmountRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate report data", err)
	}
	defer rows.Close()

	var result []accountAmountRow
	for rows.Next() {
		var row accountAmountRow
		if err := rows.Scan(&row.AccountID, &row.Name, &row.ledgerGroup, &row.NetAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan report row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate report rows", err)
	}
	return result, nil
}

// GetProfitAndLossData nets income and expense accounts over the half-open
// interval (from, to], each signed per its normal side.
func (r *PgReportingRepository) GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `WITH ` + accountLegs + `
		SELECT a.account_id, a.name, c.ledger_group,
		       COALESCE(SUM(CASE WHEN l.side = ` + normalSide + ` THEN l.base_amount ELSE -l.base_amount END), 0) AS net_amount
		FROM legs l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN account_categories c ON c.category_id = a.category_id
		WHERE c.ledger_group IN ('INCOME', 'EXPENSE')
		  AND l.transaction_date > $2 AND l.transaction_date <= $3
		GROUP BY a.account_id, a.name, a.number, c.ledger_group
		ORDER BY a.number, a.account_id`
	rows, err := r.netAmountsByGroup(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, nil, err
	}

	var income, expenses []domain.AccountAmount
	for _, row := range rows {
		if row.ledgerGroup == domain.Income {
			income = append(income, row.AccountAmount)
		} else {
			expenses = append(expenses, row.AccountAmount)
		}
	}
	return income, expenses, nil
}

// GetBalanceSheetData nets asset, liability, and equity-side accounts as of a
// date. Share capital counts toward equity; dividends reduce it, which their
// debit normal side already encodes as a negative net.
func (r *PgReportingRepository) GetBalanceSheetData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `WITH ` + accountLegs + `
		SELECT a.account_id, a.name, c.ledger_group,
		       COALESCE(SUM(CASE WHEN l.side = ` + normalSide + ` THEN l.base_amount ELSE -l.base_amount END), 0) AS net_amount
		FROM legs l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN account_categories c ON c.category_id = a.category_id
		WHERE c.ledger_group IN ('ASSET', 'LIABILITY', 'EQUITY', 'SHARES', 'DIVIDENDS')
		  AND l.transaction_date <= $2
		GROUP BY a.account_id, a.name, a.number, c.ledger_group
		ORDER BY a.number, a.account_id`
	rows, err := r.netAmountsByGroup(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, nil, nil, err
	}

	var assets, liabilities, equity []domain.AccountAmount
	for _, row := range rows {
		switch row.ledgerGroup {
		case domain.Asset:
			assets = append(assets, row.AccountAmount)
		case domain.Liability:
			liabilities = append(liabilities, row.AccountAmount)
		case domain.Dividends:
			// Dividends carry a debit normal balance; as an equity reduction
			// they enter the report negated.
			row.NetAmount = row.NetAmount.Neg()
			equity = append(equity, row.AccountAmount)
		default:
			equity = append(equity, row.AccountAmount)
		}
	}
	return assets, liabilities, equity, nil
}
