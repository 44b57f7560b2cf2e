package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCurrency_Success(t *testing.T) {
	repo := new(MockCurrencyRepository)
	svc := services.NewCurrencyService(repo)
	ctx := context.Background()

	repo.On("FindCurrencyByCode", ctx, "JPY").Return(nil, apperrors.ErrNotFound).Once()
	repo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "JPY" && c.Precision == 0
	})).Return(nil).Once()

	currency, err := svc.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		CurrencyCode: "jpy",
		Symbol:       "¥",
		Name:         "Japanese Yen",
		Precision:    0,
	}, uuid.NewString())

	require.NoError(t, err)
	assert.Equal(t, "JPY", currency.CurrencyCode)
	repo.AssertExpectations(t)
}

func TestCreateCurrency_AlreadyExists(t *testing.T) {
	repo := new(MockCurrencyRepository)
	svc := services.NewCurrencyService(repo)
	ctx := context.Background()

	repo.On("FindCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()

	_, err := svc.CreateCurrency(ctx, dto.CreateCurrencyRequest{
		CurrencyCode: "USD",
		Symbol:       "$",
		Name:         "US Dollar",
		Precision:    2,
	}, uuid.NewString())

	require.ErrorIs(t, err, apperrors.ErrDuplicate)
	repo.AssertNotCalled(t, "SaveCurrency", mock.Anything, mock.Anything)
}

func TestGetCurrencyByCode_NormalizesCase(t *testing.T) {
	repo := new(MockCurrencyRepository)
	svc := services.NewCurrencyService(repo)
	ctx := context.Background()

	repo.On("FindCurrencyByCode", ctx, "EUR").
		Return(&domain.Currency{CurrencyCode: "EUR", Precision: 2}, nil).Once()

	currency, err := svc.GetCurrencyByCode(ctx, "eur")

	require.NoError(t, err)
	assert.Equal(t, "EUR", currency.CurrencyCode)
}

func TestListCurrencies_EmptyIsNotNil(t *testing.T) {
	repo := new(MockCurrencyRepository)
	svc := services.NewCurrencyService(repo)
	ctx := context.Background()

	repo.On("ListCurrencies", ctx).Return([]domain.Currency{}, nil).Once()

	currencies, err := svc.ListCurrencies(ctx)

	require.NoError(t, err)
	assert.NotNil(t, currencies)
	assert.Empty(t, currencies)
}
