package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GroupServiceTestSuite struct {
	suite.Suite
	mockGroupRepo    *MockGroupRepository
	mockTxnRepo      *MockTransactionRepository
	mockAccountRepo  *MockAccountRepository
	mockTenantRepo   *MockTenantRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockRateSvc      *MockExchangeRateService
	mockAuthorizer   *MockAuthorizer
	service          portssvc.GroupSvcFacade

	tenantID string
	userID   string
	tenant   *domain.Tenant

	cashAccount    domain.LedgerAccount
	revenueAccount domain.LedgerAccount
	feeAccount     domain.LedgerAccount
}

func (suite *GroupServiceTestSuite) SetupTest() {
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockRateSvc = new(MockExchangeRateService)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewGroupService(
		suite.mockGroupRepo,
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockTenantRepo,
		suite.mockCurrencyRepo,
		suite.mockRateSvc,
		suite.mockAuthorizer,
	)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	usd := "USD"
	suite.tenant = &domain.Tenant{
		TenantID:            suite.tenantID,
		DefaultCurrencyCode: &usd,
		IsActive:            true,
	}

	suite.cashAccount = domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Name:        "Cash",
		LedgerGroup: domain.Asset,
	}
	suite.revenueAccount = domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Name:        "Commission Income",
		LedgerGroup: domain.Income,
	}
	suite.feeAccount = domain.LedgerAccount{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Name:        "Exchange Fees",
		LedgerGroup: domain.Expense,
	}
}

func (suite *GroupServiceTestSuite) expectAuthorized(role domain.UserTenantRole) {
	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, role).
		Return(role, nil).Once()
}

func (suite *GroupServiceTestSuite) accountsMap(accounts ...domain.LedgerAccount) map[string]domain.LedgerAccount {
	out := make(map[string]domain.LedgerAccount, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

func (suite *GroupServiceTestSuite) TestCreateGroup_Success() {
	ctx := context.Background()
	req := dto.CreateGroupRequest{
		GroupDate:    time.Now(),
		CurrencyCode: "USD",
		Description:  "Commission settlement",
		Lines: []dto.GroupLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: "DEBIT", Amount: decimal.NewFromInt(300)},
			{AccountID: suite.revenueAccount.AccountID, Side: "CREDIT", Amount: decimal.NewFromInt(200)},
			{AccountID: suite.feeAccount.AccountID, Side: "CREDIT", Amount: decimal.NewFromInt(100)},
		},
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount, suite.feeAccount), nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()
	suite.mockGroupRepo.On("SaveGroup", ctx,
		mock.AnythingOfType("domain.LedgerTransactionGroup"),
		mock.AnythingOfType("[]domain.LedgerTransaction"),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			// Crediting an expense account decreases it.
			return changes[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(300)) &&
				changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(200)) &&
				changes[suite.feeAccount.AccountID].Equal(decimal.NewFromInt(-100))
		})).Return(nil).Once()

	group, err := suite.service.CreateGroup(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(group)
	suite.NotEmpty(group.GroupID)
	suite.Equal(domain.GroupBalanced, group.Status)
	suite.True(decimal.NewFromInt(300).Equal(group.TotalDebit))
	suite.True(decimal.NewFromInt(300).Equal(group.TotalCredit))
	suite.Len(group.Transactions, 3)
	for _, txn := range group.Transactions {
		suite.Require().NotNil(txn.GroupID)
		suite.Equal(group.GroupID, *txn.GroupID)
		suite.Equal(domain.SingleEntry, txn.EntryMode)
	}
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestCreateGroup_UnbalancedNeverReachesStorage() {
	ctx := context.Background()
	req := dto.CreateGroupRequest{
		GroupDate:    time.Now(),
		CurrencyCode: "USD",
		Description:  "Fat-fingered entry",
		Lines: []dto.GroupLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: "DEBIT", Amount: decimal.NewFromInt(300)},
			{AccountID: suite.revenueAccount.AccountID, Side: "CREDIT", Amount: decimal.NewFromInt(299)},
		},
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil).Once()

	_, err := suite.service.CreateGroup(ctx, suite.tenantID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_PostingsLocked() {
	ctx := context.Background()
	locked := *suite.tenant
	locked.PostingsLocked = true

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&locked, nil).Once()

	_, err := suite.service.CreateGroup(ctx, suite.tenantID, dto.CreateGroupRequest{
		GroupDate:    time.Now(),
		CurrencyCode: "USD",
		Description:  "Anything",
		Lines: []dto.GroupLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: "DEBIT", Amount: decimal.NewFromInt(1)},
			{AccountID: suite.revenueAccount.AccountID, Side: "CREDIT", Amount: decimal.NewFromInt(1)},
		},
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConsistency)
}

func (suite *GroupServiceTestSuite) TestPostGroup_Success() {
	ctx := context.Background()
	groupID := uuid.NewString()
	posted := &domain.LedgerTransactionGroup{
		GroupID:  groupID,
		TenantID: suite.tenantID,
		Status:   domain.GroupPosted,
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockGroupRepo.On("PostGroup", ctx, suite.tenantID, groupID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(true, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, groupID).Return(posted, nil).Once()

	group, err := suite.service.PostGroup(ctx, suite.tenantID, groupID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.GroupPosted, group.Status)
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestPostGroup_GuardMismatch() {
	ctx := context.Background()
	groupID := uuid.NewString()
	alreadyPosted := &domain.LedgerTransactionGroup{
		GroupID:  groupID,
		TenantID: suite.tenantID,
		Status:   domain.GroupPosted,
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockGroupRepo.On("PostGroup", ctx, suite.tenantID, groupID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(false, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, groupID).Return(alreadyPosted, nil).Once()

	_, err := suite.service.PostGroup(ctx, suite.tenantID, groupID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, "POSTED")
}

func (suite *GroupServiceTestSuite) postedGroupWithMembers() (*domain.LedgerTransactionGroup, []domain.LedgerTransaction) {
	groupID := uuid.NewString()
	gid := groupID
	members := []domain.LedgerTransaction{
		{
			TransactionID: uuid.NewString(),
			TenantID:      suite.tenantID,
			GroupID:       &gid,
			EntryMode:     domain.SingleEntry,
			AccountID:     suite.cashAccount.AccountID,
			Side:          domain.Debit,
			Amount:        decimal.NewFromInt(100),
			ExchangeRate:  decimal.NewFromInt(1),
			BaseAmount:    decimal.NewFromInt(100),
			Verified:      true,
		},
		{
			TransactionID: uuid.NewString(),
			TenantID:      suite.tenantID,
			GroupID:       &gid,
			EntryMode:     domain.SingleEntry,
			AccountID:     suite.revenueAccount.AccountID,
			Side:          domain.Credit,
			Amount:        decimal.NewFromInt(100),
			ExchangeRate:  decimal.NewFromInt(1),
			BaseAmount:    decimal.NewFromInt(100),
			Verified:      true,
		},
	}
	group := &domain.LedgerTransactionGroup{
		GroupID:      groupID,
		TenantID:     suite.tenantID,
		GroupDate:    time.Now().AddDate(0, 0, -3),
		Description:  "Settlement batch",
		CurrencyCode: "USD",
		Status:       domain.GroupPosted,
	}
	return group, members
}

func (suite *GroupServiceTestSuite) TestReverseGroup_Success() {
	ctx := context.Background()
	original, members := suite.postedGroupWithMembers()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, original.GroupID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByGroupID", ctx, original.GroupID).Return(members, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockGroupRepo.On("SaveReversalGroup", ctx, original.GroupID,
		mock.AnythingOfType("domain.LedgerTransactionGroup"),
		mock.AnythingOfType("[]domain.LedgerTransaction"),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(-100)) &&
				changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(-100))
		})).Return(true, nil).Once()

	mirror, err := suite.service.ReverseGroup(ctx, suite.tenantID, original.GroupID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(mirror)
	suite.NotEqual(original.GroupID, mirror.GroupID)
	suite.Equal(domain.GroupPosted, mirror.Status)
	suite.Require().NotNil(mirror.OriginalGroupID)
	suite.Equal(original.GroupID, *mirror.OriginalGroupID)
	suite.Require().Len(mirror.Transactions, 2)
	suite.Equal(domain.Credit, mirror.Transactions[0].Side)
	suite.Equal(domain.Debit, mirror.Transactions[1].Side)
	for i := range mirror.Transactions {
		suite.Require().NotNil(mirror.Transactions[i].ReversalOfID)
		suite.Equal(members[i].TransactionID, *mirror.Transactions[i].ReversalOfID)
		suite.False(mirror.Transactions[i].Verified)
	}
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestReverseGroup_NotPosted() {
	ctx := context.Background()
	original := &domain.LedgerTransactionGroup{
		GroupID:  uuid.NewString(),
		TenantID: suite.tenantID,
		Status:   domain.GroupBalanced,
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, original.GroupID).Return(original, nil).Once()

	_, err := suite.service.ReverseGroup(ctx, suite.tenantID, original.GroupID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *GroupServiceTestSuite) TestReverseGroup_AlreadyReversed() {
	ctx := context.Background()
	reversingID := uuid.NewString()
	original := &domain.LedgerTransactionGroup{
		GroupID:          uuid.NewString(),
		TenantID:         suite.tenantID,
		Status:           domain.GroupPosted,
		ReversingGroupID: &reversingID,
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, original.GroupID).Return(original, nil).Once()

	_, err := suite.service.ReverseGroup(ctx, suite.tenantID, original.GroupID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *GroupServiceTestSuite) TestReverseGroup_NoMembersIsConsistencyViolation() {
	ctx := context.Background()
	original := &domain.LedgerTransactionGroup{
		GroupID:  uuid.NewString(),
		TenantID: suite.tenantID,
		Status:   domain.GroupPosted,
	}

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, original.GroupID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByGroupID", ctx, original.GroupID).
		Return([]domain.LedgerTransaction{}, nil).Once()

	_, err := suite.service.ReverseGroup(ctx, suite.tenantID, original.GroupID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConsistency)
}

func (suite *GroupServiceTestSuite) TestReverseGroup_ConcurrentLoser() {
	ctx := context.Background()
	original, members := suite.postedGroupWithMembers()

	suite.expectAuthorized(domain.RoleMember)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(suite.tenant, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, original.GroupID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByGroupID", ctx, original.GroupID).Return(members, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, suite.tenantID, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockGroupRepo.On("SaveReversalGroup", ctx, original.GroupID, mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil).Once()

	_, err := suite.service.ReverseGroup(ctx, suite.tenantID, original.GroupID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorContains(err, "concurrently")
}

func (suite *GroupServiceTestSuite) TestGetGroupByID_LoadsMembers() {
	ctx := context.Background()
	original, members := suite.postedGroupWithMembers()

	suite.mockAuthorizer.On("AuthorizeUserForTenant", mock.Anything, suite.userID, suite.tenantID, domain.RoleReadOnly).
		Return(domain.RoleReadOnly, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.tenantID, original.GroupID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindTransactionsByGroupID", ctx, original.GroupID).Return(members, nil).Once()

	group, err := suite.service.GetGroupByID(ctx, suite.tenantID, original.GroupID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(group.Transactions, 2)
}

func TestGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceTestSuite))
}
