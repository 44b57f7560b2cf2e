package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService implements the BalanceSvcFacade interface. All balances come
// from database-side aggregates over the transaction history, never from
// replaying transactions in memory.
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceRepository
	accountRepo portsrepo.AccountReader
	tenantRepo  portsrepo.TenantWriter
}

// NewBalanceService creates a new balance service.
func NewBalanceService(
	balanceRepo portsrepo.BalanceRepository,
	accountRepo portsrepo.AccountReader,
	tenantRepo portsrepo.TenantWriter,
	authorizer portssvc.TenantAuthorizerSvc,
) portssvc.BalanceSvcFacade {
	svc := &balanceService{
		balanceRepo: balanceRepo,
		accountRepo: accountRepo,
		tenantRepo:  tenantRepo,
	}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

func (s *balanceService) BalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time, userID string) (decimal.Decimal, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return decimal.Zero, err
	}

	// A dangling account ID is a not-found, not a zero balance.
	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.balanceRepo.BalanceAsOf(ctx, tenantID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance as of date",
			slog.String("account_id", accountID),
			slog.Time("as_of", asOf))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *balanceService) BalanceBetween(ctx context.Context, tenantID, accountID string, from, to time.Time, userID string) (decimal.Decimal, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return decimal.Zero, err
	}
	if !from.Before(to) {
		return decimal.Zero, fmt.Errorf("from must be before to: %w", apperrors.ErrValidation)
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.balanceRepo.BalanceBetween(ctx, tenantID, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance between dates",
			slog.String("account_id", accountID),
			slog.Time("from", from),
			slog.Time("to", to))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *balanceService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time, userID string) (*domain.TrialBalanceReport, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	rows, err := s.balanceRepo.TrialBalanceData(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute trial balance", slog.String("tenant_id", tenantID))
		return nil, err
	}

	report := &domain.TrialBalanceReport{Rows: rows}
	for _, row := range rows {
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}

	if !report.Balanced() {
		// The ledger itself is broken. Halt further posting for the tenant
		// and escalate; nobody should book against a corrupted ledger.
		s.LogError(ctx, apperrors.ErrConsistency, "Trial balance out of balance, halting postings",
			slog.String("tenant_id", tenantID),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
		if lockErr := s.tenantRepo.SetPostingsLocked(ctx, tenantID, true, userID, time.Now()); lockErr != nil {
			s.LogError(ctx, lockErr, "Failed to halt postings after trial balance failure",
				slog.String("tenant_id", tenantID))
		}
		return report, fmt.Errorf("trial balance out of balance (debit %s, credit %s): %w",
			report.TotalDebit.String(), report.TotalCredit.String(), apperrors.ErrConsistency)
	}

	return report, nil
}
