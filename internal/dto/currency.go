package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the payload for registering a currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Precision    int32  `json:"precision" binding:"min=0,max=8"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int32  `json:"precision"`
}

// ToCurrencyResponse converts a domain currency to its response DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
		Precision:    c.Precision,
	}
}

// CreateExchangeRateRequest defines the payload for registering an exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse defines the data returned for an exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
}

// ToExchangeRateResponse converts a domain exchange rate to its response DTO.
func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   r.ExchangeRateID,
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		DateEffective:    r.DateEffective,
	}
}
