package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService implements the ExchangeRateSvcFacade interface.
type exchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)
	if fromCode == toCode {
		return nil, fmt.Errorf("from and to currencies must differ: %w", apperrors.ErrValidation)
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("exchange rate must be positive: %w", apperrors.ErrValidation)
	}

	// Both sides must be registered currencies.
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, fromCode); err != nil {
		return nil, fmt.Errorf("invalid from currency %s: %w", fromCode, err)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, toCode); err != nil {
		return nil, fmt.Errorf("invalid to currency %s: %w", toCode, err)
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", fromCode),
			slog.String("to", toCode))
		return nil, err
	}

	s.LogInfo(ctx, "Exchange rate created",
		slog.String("from", fromCode),
		slog.String("to", toCode),
		slog.String("rate", req.Rate.String()))
	return &rate, nil
}

func (s *exchangeRateService) EffectiveRate(ctx context.Context, fromCode, toCode string, on time.Time) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindEffectiveRate(ctx, fromCode, toCode, on)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("no exchange rate from %s to %s effective on %s: %w",
				fromCode, toCode, on.Format("2006-01-02"), apperrors.ErrNotFound)
		}
		return decimal.Zero, err
	}
	return rate.Rate, nil
}
