package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencySvcFacade defines currency registry operations.
type CurrencySvcFacade interface {
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, userID string) (*domain.Currency, error)
}

// ExchangeRateSvcFacade defines exchange rate operations.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// EffectiveRate returns the latest rate for the pair effective on or
	// before the given date.
	EffectiveRate(ctx context.Context, fromCode, toCode string, on time.Time) (decimal.Decimal, error)
}
