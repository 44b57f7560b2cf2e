package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type balanceServiceMocks struct {
	balanceRepo *MockBalanceRepository
	accountRepo *MockAccountRepository
	tenantRepo  *MockTenantRepository
	authorizer  *MockAuthorizer
}

func newBalanceServiceForTest() (portssvc.BalanceSvcFacade, balanceServiceMocks) {
	m := balanceServiceMocks{
		balanceRepo: new(MockBalanceRepository),
		accountRepo: new(MockAccountRepository),
		tenantRepo:  new(MockTenantRepository),
		authorizer:  new(MockAuthorizer),
	}
	svc := services.NewBalanceService(m.balanceRepo, m.accountRepo, m.tenantRepo, m.authorizer)
	return svc, m
}

func TestBalanceAsOf_Success(t *testing.T) {
	svc, m := newBalanceServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()
	asOf := time.Now()

	m.authorizer.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Once()
	m.accountRepo.On("FindAccountByID", ctx, tenantID, accountID).
		Return(&domain.LedgerAccount{AccountID: accountID}, nil).Once()
	m.balanceRepo.On("BalanceAsOf", ctx, tenantID, accountID, asOf).
		Return(decimal.RequireFromString("1234.56"), nil).Once()

	balance, err := svc.BalanceAsOf(ctx, tenantID, accountID, asOf, userID)

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(balance))
	m.balanceRepo.AssertExpectations(t)
}

func TestBalanceAsOf_DanglingAccountIsNotFound(t *testing.T) {
	svc, m := newBalanceServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()

	m.authorizer.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Once()
	m.accountRepo.On("FindAccountByID", ctx, tenantID, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.BalanceAsOf(ctx, tenantID, accountID, time.Now(), userID)

	require.ErrorIs(t, err, apperrors.ErrNotFound)
	m.balanceRepo.AssertNotCalled(t, "BalanceAsOf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceBetween_InvalidRange(t *testing.T) {
	svc, m := newBalanceServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	at := time.Now()

	m.authorizer.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Twice()

	_, err := svc.BalanceBetween(ctx, tenantID, uuid.NewString(), at, at, userID)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.BalanceBetween(ctx, tenantID, uuid.NewString(), at, at.Add(-time.Hour), userID)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBalanceBetween_Success(t *testing.T) {
	svc, m := newBalanceServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()
	from := time.Now().AddDate(0, -1, 0)
	to := time.Now()

	m.authorizer.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Once()
	m.accountRepo.On("FindAccountByID", ctx, tenantID, accountID).
		Return(&domain.LedgerAccount{AccountID: accountID}, nil).Once()
	m.balanceRepo.On("BalanceBetween", ctx, tenantID, accountID, from, to).
		Return(decimal.NewFromInt(-42), nil).Once()

	balance, err := svc.BalanceBetween(ctx, tenantID, accountID, from, to, userID)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-42).Equal(balance))
}

func TestTrialBalance_Balanced(t *testing.T) {
	svc, m := newBalanceServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	asOf := time.Now()

	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", AccountName: "Cash", LedgerGroup: domain.Asset, Debit: decimal.NewFromInt(700), Credit: decimal.Zero},
		{AccountID: "revenue", AccountName: "Revenue", LedgerGroup: domain.Income, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		{AccountID: "payable", AccountName: "Payables", LedgerGroup: domain.Liability, Debit: decimal.Zero, Credit: decimal.NewFromInt(200)},
	}

	m.authorizer.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Once()
	m.balanceRepo.On("TrialBalanceData", ctx, tenantID, asOf).Return(rows, nil).Once()

	report, err := svc.TrialBalance(ctx, tenantID, asOf, userID)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(report.TotalDebit))
	assert.True(t, decimal.NewFromInt(700).Equal(report.TotalCredit))
	assert.True(t, report.Balanced())
	m.tenantRepo.AssertNotCalled(t, "SetPostingsLocked",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrialBalance_ImbalanceHaltsPostings(t *testing.T) {
	svc, m := newBalanceServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	asOf := time.Now()

	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", LedgerGroup: domain.Asset, Debit: decimal.NewFromInt(700), Credit: decimal.Zero},
		{AccountID: "revenue", LedgerGroup: domain.Income, Debit: decimal.Zero, Credit: decimal.NewFromInt(699)},
	}

	m.authorizer.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Once()
	m.balanceRepo.On("TrialBalanceData", ctx, tenantID, asOf).Return(rows, nil).Once()
	m.tenantRepo.On("SetPostingsLocked", ctx, tenantID, true, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	report, err := svc.TrialBalance(ctx, tenantID, asOf, userID)

	require.ErrorIs(t, err, apperrors.ErrConsistency)
	// The report still comes back so operators can see what broke.
	require.NotNil(t, report)
	assert.False(t, report.Balanced())
	m.tenantRepo.AssertExpectations(t)
}
