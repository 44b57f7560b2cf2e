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
)

// currencyService implements the CurrencySvcFacade interface.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(code))
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, err
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, userID string) (*domain.Currency, error) {
	code := strings.ToUpper(req.CurrencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("currency %s already exists: %w", code, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", code))
	return &currency, nil
}
