package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CurrencyReader defines read operations for currencies.
type CurrencyReader interface {
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyRepositoryFacade combines currency read and write operations.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// ExchangeRateRepositoryFacade defines persistence for exchange rates.
type ExchangeRateRepositoryFacade interface {
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// FindEffectiveRate returns the most recent rate between the pair whose
	// effective date is on or before asOf.
	FindEffectiveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)
}
