package services_test

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Shared testify mocks for the service-layer tests.

func tokenArg(args mock.Arguments, i int) *string {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*string)
}

// --- Mock TenantAuthorizer ---

type MockAuthorizer struct {
	mock.Mock
}

var _ portssvc.TenantAuthorizerSvc = (*MockAuthorizer)(nil)

func (m *MockAuthorizer) AuthorizeUserForTenant(ctx context.Context, userID, tenantID string, requiredRole domain.UserTenantRole) (domain.UserTenantRole, error) {
	args := m.Called(ctx, userID, tenantID, requiredRole)
	if args.Get(0) == nil {
		return "", args.Error(1)
	}
	return args.Get(0).(domain.UserTenantRole), args.Error(1)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByGroupID(ctx context.Context, groupID string) ([]domain.LedgerTransaction, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	args := m.Called(ctx, tenantID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerTransaction), tokenArg(args, 1), args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveReversal(ctx context.Context, originalID string, reversal domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, originalID, reversal, balanceChanges)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkTransactionVerified(ctx context.Context, tenantID, transactionID, verifiedByUserID string, verifiedAt time.Time) error {
	args := m.Called(ctx, tenantID, transactionID, verifiedByUserID, verifiedAt)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.LedgerAccount, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerAccount), tokenArg(args, 1), args.Error(2)
}

func (m *MockAccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasActiveChildren(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpsertDefaultAccount(ctx context.Context, candidate domain.LedgerAccount) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ArchiveAccount(ctx context.Context, tenantID, accountID, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, accountID, updatedByUserID, updatedAt)
	return args.Error(0)
}

// --- Mock TenantRepository ---

type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepositoryFacade = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserTenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) AddUserToTenant(ctx context.Context, membership domain.UserTenant) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateUserTenantRole(ctx context.Context, userID, tenantID string, role domain.UserTenantRole) error {
	args := m.Called(ctx, userID, tenantID, role)
	return args.Error(0)
}

func (m *MockTenantRepository) SetPostingsLocked(ctx context.Context, tenantID string, locked bool, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, locked, updatedByUserID, updatedAt)
	return args.Error(0)
}

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepositoryFacade = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Mock ExchangeRateRepository ---

type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindEffectiveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Mock CurrencyService (as used by the exchange rate service) ---

type MockCurrencyService struct {
	mock.Mock
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, userID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, tenantID, categoryID string) (*domain.LedgerAccountCategory, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccountCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, tenantID, name string) (*domain.LedgerAccountCategory, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccountCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, tenantID string) ([]domain.LedgerAccountCategory, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccountCategory), args.Error(1)
}

func (m *MockCategoryRepository) CategoryHasPostings(ctx context.Context, categoryID string) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.LedgerAccountCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.LedgerAccountCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// --- Mock GroupRepository ---

type MockGroupRepository struct {
	mock.Mock
}

var _ portsrepo.GroupRepositoryFacade = (*MockGroupRepository)(nil)

func (m *MockGroupRepository) FindGroupByID(ctx context.Context, tenantID, groupID string) (*domain.LedgerTransactionGroup, error) {
	args := m.Called(ctx, tenantID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransactionGroup), args.Error(1)
}

func (m *MockGroupRepository) ListGroupsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.LedgerTransactionGroup, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerTransactionGroup), tokenArg(args, 1), args.Error(2)
}

func (m *MockGroupRepository) SaveGroup(ctx context.Context, group domain.LedgerTransactionGroup, transactions []domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, group, transactions, balanceChanges)
	return args.Error(0)
}

func (m *MockGroupRepository) PostGroup(ctx context.Context, tenantID, groupID, postedByUserID string, postedAt time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, groupID, postedByUserID, postedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) SaveReversalGroup(ctx context.Context, originalGroupID string, mirror domain.LedgerTransactionGroup, transactions []domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) (bool, error) {
	args := m.Called(ctx, originalGroupID, mirror, transactions, balanceChanges)
	return args.Bool(0), args.Error(1)
}

// --- Mock BalanceRepository ---

type MockBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.BalanceRepository = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) BalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceRepository) BalanceBetween(ctx context.Context, tenantID, accountID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID, from, to)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceRepository) TrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Mock VoucherRepository ---

type MockVoucherRepository struct {
	mock.Mock
}

var _ portsrepo.VoucherRepositoryFacade = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, tenantID, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, tenantID, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, tenantID string, status *domain.VoucherStatus, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, tenantID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Voucher), tokenArg(args, 1), args.Error(2)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdatePendingVoucher(ctx context.Context, voucher domain.Voucher) (bool, error) {
	args := m.Called(ctx, voucher)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) TransitionVoucherStatus(ctx context.Context, tenantID, voucherID string, to domain.VoucherStatus, actedByUserID string, actedAt time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, voucherID, to, actedByUserID, actedAt)
	return args.Bool(0), args.Error(1)
}

// --- Mock DocumentRepository ---

type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, tenantID, documentID string) (*domain.BillableDocument, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillableDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, tenantID string, docType *domain.DocumentType, limit int, nextToken *string) ([]domain.BillableDocument, *string, error) {
	args := m.Called(ctx, tenantID, docType, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BillableDocument), tokenArg(args, 1), args.Error(2)
}

func (m *MockDocumentRepository) OpenDocuments(ctx context.Context, tenantID string, docType domain.DocumentType, asOf time.Time) ([]domain.BillableDocument, error) {
	args := m.Called(ctx, tenantID, docType, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillableDocument), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.BillableDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) ArchiveDocument(ctx context.Context, tenantID, documentID, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, tenantID, documentID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) SavePayment(ctx context.Context, payment domain.Payment, txn domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, payment, txn, balanceChanges)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---

type MockExchangeRateService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) EffectiveRate(ctx context.Context, fromCode, toCode string, on time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, on)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock TransactionService (as used by the voucher service) ---

type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, tenantID, transactionID, userID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, tenantID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactionsByAccount(ctx context.Context, tenantID, accountID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, tenantID, accountID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) PostSingleEntry(ctx context.Context, tenantID string, req dto.PostSingleEntryRequest, userID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionService) PostDoubleEntry(ctx context.Context, tenantID string, req dto.PostDoubleEntryRequest, userID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionService) ReverseTransaction(ctx context.Context, tenantID, transactionID, userID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, tenantID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionService) VerifyTransaction(ctx context.Context, tenantID, transactionID, approverUserID string) error {
	args := m.Called(ctx, tenantID, transactionID, approverUserID)
	return args.Error(0)
}

// --- Mock AccountService (as used by the document service) ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID, requestingUserID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, accountID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string, requestingUserID string) (map[string]domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, accountIDs, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID, userID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, tenantID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) ArchiveAccount(ctx context.Context, tenantID, accountID, userID string) error {
	args := m.Called(ctx, tenantID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) GetOrCreateDefaultAccount(ctx context.Context, tenantID string, purpose domain.DefaultAccountPurpose, userID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, tenantID, purpose, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}
