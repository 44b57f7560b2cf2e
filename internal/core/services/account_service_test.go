package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceMocks struct {
	accountRepo  *MockAccountRepository
	categoryRepo *MockCategoryRepository
	currencyRepo *MockCurrencyRepository
	tenantRepo   *MockTenantRepository
	authorizer   *MockAuthorizer
}

func newAccountServiceForTest() (portssvc.AccountSvcFacade, accountServiceMocks) {
	m := accountServiceMocks{
		accountRepo:  new(MockAccountRepository),
		categoryRepo: new(MockCategoryRepository),
		currencyRepo: new(MockCurrencyRepository),
		tenantRepo:   new(MockTenantRepository),
		authorizer:   new(MockAuthorizer),
	}
	svc := services.NewAccountService(m.accountRepo, m.categoryRepo,
		services.WithTenantAuthorizer(m.authorizer),
		services.WithCurrencyRepository(m.currencyRepo),
		services.WithTenantRepository(m.tenantRepo),
	)
	return svc, m
}

func expectMemberRole(m *MockAuthorizer, userID, tenantID string) {
	m.On("AuthorizeUserForTenant", mock.Anything, userID, tenantID, domain.RoleMember).
		Return(domain.RoleMember, nil).Once()
}

func newCreateAccountRequest(categoryID string, parentID *string) dto.CreateAccountRequest {
	return dto.CreateAccountRequest{
		Name:            "Brokerage Fees",
		Number:          "5100",
		CategoryID:      categoryID,
		ParentAccountID: parentID,
		CurrencyCode:    "USD",
	}
}

func TestArchiveAccount_Success(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	account := &domain.LedgerAccount{AccountID: uuid.NewString(), TenantID: tenantID}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.accountRepo.On("FindAccountByID", ctx, tenantID, account.AccountID).Return(account, nil).Once()
	m.accountRepo.On("HasActiveChildren", ctx, account.AccountID).Return(false, nil).Once()
	m.accountRepo.On("ArchiveAccount", ctx, tenantID, account.AccountID, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := svc.ArchiveAccount(ctx, tenantID, account.AccountID, userID)

	require.NoError(t, err)
	m.accountRepo.AssertExpectations(t)
}

func TestArchiveAccount_AlreadyArchivedIsNoOp(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	account := &domain.LedgerAccount{AccountID: uuid.NewString(), TenantID: tenantID, Archived: true}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.accountRepo.On("FindAccountByID", ctx, tenantID, account.AccountID).Return(account, nil).Once()

	err := svc.ArchiveAccount(ctx, tenantID, account.AccountID, userID)

	require.NoError(t, err)
	m.accountRepo.AssertNotCalled(t, "ArchiveAccount",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiveAccount_SystemAccountWithPostings(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	account := &domain.LedgerAccount{AccountID: uuid.NewString(), TenantID: tenantID, SystemAccount: true}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.accountRepo.On("FindAccountByID", ctx, tenantID, account.AccountID).Return(account, nil).Once()
	m.accountRepo.On("HasPostings", ctx, account.AccountID).Return(true, nil).Once()

	err := svc.ArchiveAccount(ctx, tenantID, account.AccountID, userID)

	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestArchiveAccount_ActiveChildren(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	account := &domain.LedgerAccount{AccountID: uuid.NewString(), TenantID: tenantID}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.accountRepo.On("FindAccountByID", ctx, tenantID, account.AccountID).Return(account, nil).Once()
	m.accountRepo.On("HasActiveChildren", ctx, account.AccountID).Return(true, nil).Once()

	err := svc.ArchiveAccount(ctx, tenantID, account.AccountID, userID)

	require.ErrorIs(t, err, apperrors.ErrConflict)
	m.accountRepo.AssertNotCalled(t, "ArchiveAccount",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrCreateDefaultAccount_UnknownPurpose(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()

	expectMemberRole(m.authorizer, userID, tenantID)

	_, err := svc.GetOrCreateDefaultAccount(ctx, tenantID, domain.DefaultAccountPurpose("PETTY_CASH"), userID)

	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetOrCreateDefaultAccount_UsesTenantBaseCurrency(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	eur := "EUR"
	category := &domain.LedgerAccountCategory{
		CategoryID:  uuid.NewString(),
		TenantID:    tenantID,
		Name:        "Current Assets",
		LedgerGroup: domain.Asset,
	}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.categoryRepo.On("FindCategoryByName", ctx, tenantID, "Current Assets").Return(category, nil).Once()
	m.tenantRepo.On("FindTenantByID", ctx, tenantID).
		Return(&domain.Tenant{TenantID: tenantID, DefaultCurrencyCode: &eur}, nil).Once()
	m.accountRepo.On("UpsertDefaultAccount", ctx, mock.MatchedBy(func(candidate domain.LedgerAccount) bool {
		return candidate.CurrencyCode == "EUR" &&
			candidate.SystemAccount && !candidate.Editable &&
			candidate.Name == "Cash" && candidate.Number == "1000" &&
			candidate.Purpose != nil && *candidate.Purpose == domain.PurposeCash
	})).Return(&domain.LedgerAccount{
		AccountID:    uuid.NewString(),
		TenantID:     tenantID,
		Name:         "Cash",
		CurrencyCode: "EUR",
		LedgerGroup:  domain.Asset,
	}, nil).Once()

	account, err := svc.GetOrCreateDefaultAccount(ctx, tenantID, domain.PurposeCash, userID)

	require.NoError(t, err)
	assert.Equal(t, "Cash", account.Name)
	m.accountRepo.AssertExpectations(t)
}

func TestGetOrCreateDefaultAccount_CategoryCreationRace(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	winner := &domain.LedgerAccountCategory{
		CategoryID:  uuid.NewString(),
		TenantID:    tenantID,
		Name:        "Operating Income",
		LedgerGroup: domain.Income,
	}

	expectMemberRole(m.authorizer, userID, tenantID)
	// First lookup misses, the insert loses to a concurrent caller, the
	// second lookup returns the surviving row.
	m.categoryRepo.On("FindCategoryByName", ctx, tenantID, "Operating Income").
		Return(nil, apperrors.ErrNotFound).Once()
	m.categoryRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.LedgerAccountCategory")).
		Return(apperrors.ErrDuplicate).Once()
	m.categoryRepo.On("FindCategoryByName", ctx, tenantID, "Operating Income").
		Return(winner, nil).Once()
	m.tenantRepo.On("FindTenantByID", ctx, tenantID).
		Return(&domain.Tenant{TenantID: tenantID}, nil).Once()
	m.accountRepo.On("UpsertDefaultAccount", ctx, mock.MatchedBy(func(candidate domain.LedgerAccount) bool {
		return candidate.CategoryID == winner.CategoryID && candidate.CurrencyCode == "USD"
	})).Return(&domain.LedgerAccount{AccountID: uuid.NewString(), Name: "Sales"}, nil).Once()

	account, err := svc.GetOrCreateDefaultAccount(ctx, tenantID, domain.PurposeSales, userID)

	require.NoError(t, err)
	assert.Equal(t, "Sales", account.Name)
	m.categoryRepo.AssertExpectations(t)
}

func TestCreateAccount_ArchivedParentRejected(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	parentID := uuid.NewString()
	category := &domain.LedgerAccountCategory{
		CategoryID:  uuid.NewString(),
		TenantID:    tenantID,
		LedgerGroup: domain.Asset,
	}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.currencyRepo.On("FindCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()
	m.categoryRepo.On("FindCategoryByID", ctx, tenantID, category.CategoryID).Return(category, nil).Once()
	m.accountRepo.On("FindAccountByID", ctx, tenantID, parentID).
		Return(&domain.LedgerAccount{AccountID: parentID, Archived: true}, nil).Once()

	_, err := svc.CreateAccount(ctx, tenantID, newCreateAccountRequest(category.CategoryID, &parentID), userID)

	require.ErrorIs(t, err, apperrors.ErrConflict)
	m.accountRepo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
}

func TestCreateAccount_Success(t *testing.T) {
	svc, m := newAccountServiceForTest()
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	category := &domain.LedgerAccountCategory{
		CategoryID:  uuid.NewString(),
		TenantID:    tenantID,
		LedgerGroup: domain.Expense,
	}

	expectMemberRole(m.authorizer, userID, tenantID)
	m.currencyRepo.On("FindCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()
	m.categoryRepo.On("FindCategoryByID", ctx, tenantID, category.CategoryID).Return(category, nil).Once()
	m.accountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.LedgerAccount")).Return(nil).Once()

	account, err := svc.CreateAccount(ctx, tenantID, newCreateAccountRequest(category.CategoryID, nil), userID)

	require.NoError(t, err)
	assert.NotEmpty(t, account.AccountID)
	// The ledger group comes from the category, never from the caller.
	assert.Equal(t, domain.Expense, account.LedgerGroup)
	assert.True(t, account.Editable)
	assert.False(t, account.SystemAccount)
}
