package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgCurrencyRepository implements the CurrencyRepositoryFacade using PostgreSQL.
type PgCurrencyRepository struct {
	BaseRepository
}

// NewPgCurrencyRepository creates a new PgCurrencyRepository.
func NewPgCurrencyRepository(pool *pgxpool.Pool) *PgCurrencyRepository {
	return &PgCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgCurrencyRepository)(nil)

// SaveCurrency persists a new currency.
func (r *PgCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (
			currency_code, symbol, name, precision,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.Pool.Exec(ctx, query,
		currency.CurrencyCode, currency.Symbol, currency.Name, currency.Precision,
		currency.CreatedAt, currency.CreatedBy, currency.LastUpdatedAt, currency.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("currency %s: %w", currency.CurrencyCode, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save currency", err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its ISO code.
func (r *PgCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		WHERE currency_code = $1
	`
	var currency domain.Currency
	err := r.Pool.QueryRow(ctx, query, currencyCode).Scan(
		&currency.CurrencyCode,
		&currency.Symbol,
		&currency.Name,
		&currency.Precision,
		&currency.CreatedAt,
		&currency.CreatedBy,
		&currency.LastUpdatedAt,
		&currency.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("currency %s: %w", currencyCode, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find currency", err)
	}
	return &currency, nil
}

// ListCurrencies retrieves all supported currencies.
func (r *PgCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, precision,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		ORDER BY currency_code
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list currencies", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var currency domain.Currency
		err := rows.Scan(
			&currency.CurrencyCode,
			&currency.Symbol,
			&currency.Name,
			&currency.Precision,
			&currency.CreatedAt,
			&currency.CreatedBy,
			&currency.LastUpdatedAt,
			&currency.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency", err)
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate currencies", err)
	}
	return currencies, nil
}
