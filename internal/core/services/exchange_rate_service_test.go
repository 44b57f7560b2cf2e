package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateExchangeRate_Success(t *testing.T) {
	rateRepo := new(MockExchangeRateRepository)
	currencySvc := new(MockCurrencyService)
	svc := services.NewExchangeRateService(rateRepo, currencySvc)
	ctx := context.Background()
	userID := uuid.NewString()

	currencySvc.On("GetCurrencyByCode", ctx, "EUR").
		Return(&domain.Currency{CurrencyCode: "EUR", Precision: 2}, nil).Once()
	currencySvc.On("GetCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()
	rateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(rate domain.ExchangeRate) bool {
		return rate.FromCurrencyCode == "EUR" && rate.ToCurrencyCode == "USD" &&
			rate.Rate.Equal(decimal.RequireFromString("1.0850"))
	})).Return(nil).Once()

	// Lowercase codes are normalized before validation and storage.
	rate, err := svc.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: "eur",
		ToCurrencyCode:   "usd",
		Rate:             decimal.RequireFromString("1.0850"),
		DateEffective:    time.Now(),
	}, userID)

	require.NoError(t, err)
	assert.Equal(t, "EUR", rate.FromCurrencyCode)
	assert.Equal(t, "USD", rate.ToCurrencyCode)
	rateRepo.AssertExpectations(t)
}

func TestCreateExchangeRate_SameCurrency(t *testing.T) {
	svc := services.NewExchangeRateService(new(MockExchangeRateRepository), new(MockCurrencyService))

	_, err := svc.CreateExchangeRate(context.Background(), dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "usd",
		Rate:             decimal.NewFromInt(1),
		DateEffective:    time.Now(),
	}, uuid.NewString())

	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateExchangeRate_NonPositiveRate(t *testing.T) {
	svc := services.NewExchangeRateService(new(MockExchangeRateRepository), new(MockCurrencyService))

	_, err := svc.CreateExchangeRate(context.Background(), dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.Zero,
		DateEffective:    time.Now(),
	}, uuid.NewString())

	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEffectiveRate_SameCurrencyIsIdentity(t *testing.T) {
	rateRepo := new(MockExchangeRateRepository)
	svc := services.NewExchangeRateService(rateRepo, new(MockCurrencyService))

	rate, err := svc.EffectiveRate(context.Background(), "usd", "USD", time.Now())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
	rateRepo.AssertNotCalled(t, "FindEffectiveRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEffectiveRate_LatestOnOrBefore(t *testing.T) {
	rateRepo := new(MockExchangeRateRepository)
	svc := services.NewExchangeRateService(rateRepo, new(MockCurrencyService))
	ctx := context.Background()
	on := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	rateRepo.On("FindEffectiveRate", ctx, "EUR", "USD", on).
		Return(&domain.ExchangeRate{
			ExchangeRateID:   uuid.NewString(),
			FromCurrencyCode: "EUR",
			ToCurrencyCode:   "USD",
			Rate:             decimal.RequireFromString("1.0720"),
			DateEffective:    on.AddDate(0, 0, -4),
		}, nil).Once()

	rate, err := svc.EffectiveRate(ctx, "EUR", "USD", on)

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.0720").Equal(rate))
}

func TestEffectiveRate_MissingRate(t *testing.T) {
	rateRepo := new(MockExchangeRateRepository)
	svc := services.NewExchangeRateService(rateRepo, new(MockCurrencyService))
	ctx := context.Background()
	on := time.Now()

	rateRepo.On("FindEffectiveRate", ctx, "GBP", "USD", on).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.EffectiveRate(ctx, "GBP", "USD", on)

	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
