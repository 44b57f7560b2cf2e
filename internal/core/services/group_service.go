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
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// groupService implements the GroupSvcFacade interface. A group is one
// logical journal entry: a balanced set of single-entry lines created,
// posted and reversed as a unit.
type groupService struct {
	BaseService
	groupRepo       portsrepo.GroupRepositoryFacade
	txnRepo         portsrepo.TransactionReader
	accountRepo     portsrepo.AccountRepositoryFacade
	tenantRepo      portsrepo.TenantReader
	currencyRepo    portsrepo.CurrencyReader
	exchangeRateSvc portssvc.ExchangeRateSvcFacade
}

// NewGroupService creates a new group service.
func NewGroupService(
	groupRepo portsrepo.GroupRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	accountRepo portsrepo.AccountRepositoryFacade,
	tenantRepo portsrepo.TenantReader,
	currencyRepo portsrepo.CurrencyReader,
	exchangeRateSvc portssvc.ExchangeRateSvcFacade,
	authorizer portssvc.TenantAuthorizerSvc,
) portssvc.GroupSvcFacade {
	svc := &groupService{
		groupRepo:       groupRepo,
		txnRepo:         txnRepo,
		accountRepo:     accountRepo,
		tenantRepo:      tenantRepo,
		currencyRepo:    currencyRepo,
		exchangeRateSvc: exchangeRateSvc,
	}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.GroupSvcFacade = (*groupService)(nil)

func (s *groupService) CreateGroup(ctx context.Context, tenantID string, req dto.CreateGroupRequest, userID string) (*domain.LedgerTransactionGroup, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PostingsLocked {
		return nil, fmt.Errorf("postings are halted for tenant %s pending investigation: %w", tenantID, apperrors.ErrConsistency)
	}

	accountIDs := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}

	ledgerGroups := make(map[string]domain.LedgerGroup, len(accounts))
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		if account.Archived {
			return nil, fmt.Errorf("account %s is archived: %w", id, apperrors.ErrConflict)
		}
		ledgerGroups[id] = account.LedgerGroup
	}

	// Rate and rounding are resolved once for the whole group so every line
	// converts identically.
	baseCurrency := req.CurrencyCode
	if tenant.DefaultCurrencyCode != nil {
		baseCurrency = *tenant.DefaultCurrencyCode
	}
	rate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	} else if req.CurrencyCode != baseCurrency {
		rate, err = s.exchangeRateSvc.EffectiveRate(ctx, req.CurrencyCode, baseCurrency, req.GroupDate)
		if err != nil {
			return nil, err
		}
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("exchange rate must be positive: %w", apperrors.ErrValidation)
	}
	precision := int32(2)
	if s.currencyRepo != nil {
		if currency, cerr := s.currencyRepo.FindCurrencyByCode(ctx, baseCurrency); cerr == nil {
			precision = currency.Precision
		}
	}

	now := time.Now()
	groupID := uuid.NewString()
	transactions := make([]domain.LedgerTransaction, 0, len(req.Lines))
	for _, line := range req.Lines {
		gid := groupID
		txn := domain.LedgerTransaction{
			TransactionID:   uuid.NewString(),
			TenantID:        tenantID,
			GroupID:         &gid,
			EntryMode:       domain.SingleEntry,
			AccountID:       line.AccountID,
			Side:            domain.TransactionSide(line.Side),
			Amount:          line.Amount,
			CurrencyCode:    req.CurrencyCode,
			ExchangeRate:    rate,
			BaseAmount:      accounting.ConvertToBase(line.Amount, rate, precision),
			TransactionDate: req.GroupDate,
			Notes:           line.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := txn.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		transactions = append(transactions, txn)
	}

	// An unbalanced line set never reaches storage.
	if err := accounting.ValidateGroupBalance(transactions); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}

	changes := make(map[string]decimal.Decimal)
	for _, txn := range transactions {
		txnChanges, err := accounting.BalanceChanges(txn, ledgerGroups)
		if err != nil {
			return nil, err
		}
		for accountID, delta := range txnChanges {
			changes[accountID] = changes[accountID].Add(delta)
		}
	}

	group := domain.LedgerTransactionGroup{
		GroupID:      groupID,
		TenantID:     tenantID,
		GroupDate:    req.GroupDate,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.GroupBalanced,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Transactions: transactions,
	}
	group.RecomputeTotals()

	if err := s.groupRepo.SaveGroup(ctx, group, transactions, changes); err != nil {
		s.LogError(ctx, err, "Failed to save transaction group",
			slog.String("group_id", groupID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction group created",
		slog.String("group_id", groupID),
		slog.Int("lines", len(transactions)),
		slog.String("total_debit", group.TotalDebit.String()))
	return &group, nil
}

func (s *groupService) PostGroup(ctx context.Context, tenantID, groupID, userID string) (*domain.LedgerTransactionGroup, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	posted, err := s.groupRepo.PostGroup(ctx, tenantID, groupID, userID, time.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to post group", slog.String("group_id", groupID))
		return nil, err
	}
	if !posted {
		// The guard did not match: the group is missing or not BALANCED.
		group, ferr := s.groupRepo.FindGroupByID(ctx, tenantID, groupID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, fmt.Errorf("group %s is %s and cannot be posted: %w", groupID, group.Status, apperrors.ErrConflict)
	}

	group, err := s.groupRepo.FindGroupByID(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction group posted", slog.String("group_id", groupID))
	return group, nil
}

func (s *groupService) ReverseGroup(ctx context.Context, tenantID, groupID, userID string) (*domain.LedgerTransactionGroup, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PostingsLocked {
		return nil, fmt.Errorf("postings are halted for tenant %s pending investigation: %w", tenantID, apperrors.ErrConsistency)
	}

	original, err := s.groupRepo.FindGroupByID(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.GroupPosted {
		return nil, fmt.Errorf("group %s is %s; only POSTED groups can be reversed: %w", groupID, original.Status, apperrors.ErrConflict)
	}
	if original.ReversingGroupID != nil {
		return nil, fmt.Errorf("group %s is already reversed by %s: %w", groupID, *original.ReversingGroupID, apperrors.ErrConflict)
	}

	members, err := s.txnRepo.FindTransactionsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("group %s has no member transactions: %w", groupID, apperrors.ErrConsistency)
	}

	accountIDs := make([]string, 0, len(members))
	for _, txn := range members {
		accountIDs = append(accountIDs, txn.Accounts()...)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	ledgerGroups := make(map[string]domain.LedgerGroup, len(accounts))
	for id, account := range accounts {
		ledgerGroups[id] = account.LedgerGroup
	}

	now := time.Now()
	mirrorID := uuid.NewString()
	origID := original.GroupID
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	changes := make(map[string]decimal.Decimal)
	mirrorTxns := make([]domain.LedgerTransaction, 0, len(members))
	for i := range members {
		member := members[i]
		mid := mirrorID
		mirror := member
		mirror.TransactionID = uuid.NewString()
		mirror.GroupID = &mid
		mirror.ReversalOfID = &member.TransactionID
		mirror.Verified = false
		mirror.Archived = false
		mirror.AuditFields = audit
		switch member.EntryMode {
		case domain.SingleEntry:
			mirror.Side = member.Side.Opposite()
		case domain.DoubleEntry:
			mirror.DebitAccountID = member.CreditAccountID
			mirror.CreditAccountID = member.DebitAccountID
		}
		txnChanges, err := accounting.BalanceChanges(mirror, ledgerGroups)
		if err != nil {
			return nil, err
		}
		for accountID, delta := range txnChanges {
			changes[accountID] = changes[accountID].Add(delta)
		}
		mirrorTxns = append(mirrorTxns, mirror)
	}

	mirror := domain.LedgerTransactionGroup{
		GroupID:         mirrorID,
		TenantID:        tenantID,
		GroupDate:       now,
		Description:     fmt.Sprintf("Reversal of: %s", original.Description),
		CurrencyCode:    original.CurrencyCode,
		Status:          domain.GroupPosted,
		OriginalGroupID: &origID,
		AuditFields:     audit,
		Transactions:    mirrorTxns,
	}
	mirror.RecomputeTotals()

	reversed, err := s.groupRepo.SaveReversalGroup(ctx, original.GroupID, mirror, mirrorTxns, changes)
	if err != nil {
		s.LogError(ctx, err, "Failed to save reversal group",
			slog.String("group_id", groupID),
			slog.String("mirror_group_id", mirrorID))
		return nil, err
	}
	if !reversed {
		return nil, fmt.Errorf("group %s was reversed concurrently: %w", groupID, apperrors.ErrConflict)
	}

	s.LogInfo(ctx, "Transaction group reversed",
		slog.String("group_id", groupID),
		slog.String("mirror_group_id", mirrorID))
	return &mirror, nil
}

func (s *groupService) GetGroupByID(ctx context.Context, tenantID, groupID, userID string) (*domain.LedgerTransactionGroup, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindGroupByID(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txnRepo.FindTransactionsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Transactions = transactions
	return group, nil
}

func (s *groupService) ListGroups(ctx context.Context, tenantID, userID string, params dto.ListGroupsParams) (*dto.ListGroupsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	groups, nextToken, err := s.groupRepo.ListGroupsByTenant(ctx, tenantID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		s.LogError(ctx, err, "Failed to list groups", slog.String("tenant_id", tenantID))
		return nil, err
	}

	if params.IncludeTransactions {
		for i := range groups {
			transactions, err := s.txnRepo.FindTransactionsByGroupID(ctx, groups[i].GroupID)
			if err != nil {
				return nil, err
			}
			groups[i].Transactions = transactions
		}
	}

	responses := make([]dto.GroupResponse, len(groups))
	for i := range groups {
		responses[i] = dto.ToGroupResponse(&groups[i])
	}
	return &dto.ListGroupsResponse{
		Groups:    responses,
		NextToken: nextToken,
	}, nil
}
