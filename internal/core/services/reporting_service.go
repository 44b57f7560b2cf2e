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

// reportingService implements the ReportingSvcFacade interface.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, authorizer portssvc.TenantAuthorizerSvc) portssvc.ReportingSvcFacade {
	svc := &reportingService{reportingRepo: reportingRepo}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time, userID string) (*domain.PAndLReport, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("from must be before to: %w", apperrors.ErrValidation)
	}

	income, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load profit and loss data", slog.String("tenant_id", tenantID))
		return nil, err
	}

	totalIncome := decimal.Zero
	for _, row := range income {
		totalIncome = totalIncome.Add(row.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, row := range expenses {
		totalExpenses = totalExpenses.Add(row.NetAmount)
	}

	return &domain.PAndLReport{
		Income:    income,
		Expenses:  expenses,
		NetProfit: totalIncome.Sub(totalExpenses),
	}, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load balance sheet data", slog.String("tenant_id", tenantID))
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
	}
	for _, row := range assets {
		report.TotalAssets = report.TotalAssets.Add(row.NetAmount)
	}
	for _, row := range liabilities {
		report.TotalLiabilities = report.TotalLiabilities.Add(row.NetAmount)
	}
	for _, row := range equity {
		report.TotalEquity = report.TotalEquity.Add(row.NetAmount)
	}
	return report, nil
}
