package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a specific date.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
