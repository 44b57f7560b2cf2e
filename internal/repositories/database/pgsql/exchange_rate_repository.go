package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgExchangeRateRepository implements the ExchangeRateRepositoryFacade using PostgreSQL.
type PgExchangeRateRepository struct {
	BaseRepository
}

// NewPgExchangeRateRepository creates a new PgExchangeRateRepository.
func NewPgExchangeRateRepository(pool *pgxpool.Pool) *PgExchangeRateRepository {
	return &PgExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgExchangeRateRepository)(nil)

// SaveExchangeRate persists a new exchange rate.
func (r *PgExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID, rate.FromCurrencyCode, rate.ToCurrencyCode,
		rate.Rate, rate.DateEffective,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("exchange rate %s/%s on %s: %w",
				rate.FromCurrencyCode, rate.ToCurrencyCode,
				rate.DateEffective.Format(time.DateOnly), apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// FindEffectiveRate returns the most recent rate between the pair whose
// effective date is on or before asOf.
func (r *PgExchangeRateRepository) FindEffectiveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		ORDER BY date_effective DESC
		LIMIT 1
	`
	var rate domain.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, fromCode, toCode, asOf).Scan(
		&rate.ExchangeRateID,
		&rate.FromCurrencyCode,
		&rate.ToCurrencyCode,
		&rate.Rate,
		&rate.DateEffective,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("exchange rate %s/%s: %w", fromCode, toCode, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}
	return &rate, nil
}
