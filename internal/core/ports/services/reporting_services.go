package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// ReportingSvcFacade defines the financial report builders. All operations
// are pure reads over the balance calculator's data.
type ReportingSvcFacade interface {
	ProfitAndLoss(ctx context.Context, tenantID string, from, to time.Time, userID string) (*domain.PAndLReport, error)
	BalanceSheet(ctx context.Context, tenantID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error)
}
