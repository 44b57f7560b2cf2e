package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	tenantRepo   portsrepo.TenantReader
}

// AccountServiceOption is a functional option for configuring the account service.
type AccountServiceOption func(*accountService)

// WithTenantAuthorizer adds the tenant authorizer dependency.
func WithTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.TenantAuthorizer = authorizer
	}
}

// WithCurrencyRepository adds the currency repository dependency.
func WithCurrencyRepository(repo portsrepo.CurrencyReader) AccountServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// WithTenantRepository adds the tenant repository dependency, used to resolve
// the tenant's base currency for default accounts.
func WithTenantRepository(repo portsrepo.TenantReader) AccountServiceOption {
	return func(s *accountService) {
		s.tenantRepo = repo
	}
}

// NewAccountService creates a new account service with the provided options.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	if s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
			return nil, fmt.Errorf("invalid currency code: %w", err)
		}
	}

	// The category supplies the ledger group and thus the sign convention.
	category, err := s.categoryRepo.FindCategoryByID(ctx, tenantID, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		parent, err := s.accountRepo.FindAccountByID(ctx, tenantID, parentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		if parent.Archived {
			return nil, fmt.Errorf("parent account %s is archived: %w", parentID, apperrors.ErrConflict)
		}
	}

	now := time.Now()
	account := domain.LedgerAccount{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Name:            req.Name,
		Number:          req.Number,
		CategoryID:      category.CategoryID,
		ParentAccountID: parentID,
		CurrencyCode:    req.CurrencyCode,
		SystemAccount:   false,
		Editable:        true,
		Hidden:          req.Hidden,
		LedgerGroup:     category.LedgerGroup,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID, requestingUserID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string, requestingUserID string) (map[string]domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.String("account_ids", fmt.Sprintf("%v", accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID, userID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts for tenant %s: %w", tenantID, err)
	}

	return &dto.ListAccountsResponse{
		Accounts:  dto.ToAccountResponses(accounts),
		NextToken: nextToken,
	}, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Editable {
		return nil, fmt.Errorf("account %s is not editable: %w", accountID, apperrors.ErrConflict)
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Number != nil {
		account.Number = *req.Number
		updated = true
	}
	if req.Hidden != nil {
		account.Hidden = *req.Hidden
		updated = true
	}
	if !updated {
		return account, nil
	}

	now := time.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) ArchiveAccount(ctx context.Context, tenantID, accountID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if account.Archived {
		return nil // Already archived, nothing to do.
	}

	if account.SystemAccount {
		hasPostings, err := s.accountRepo.HasPostings(ctx, accountID)
		if err != nil {
			return err
		}
		if hasPostings {
			return fmt.Errorf("system account %s has postings and cannot be archived: %w", accountID, apperrors.ErrConflict)
		}
	}

	hasChildren, err := s.accountRepo.HasActiveChildren(ctx, accountID)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("account %s still has active child accounts: %w", accountID, apperrors.ErrConflict)
	}

	if err := s.accountRepo.ArchiveAccount(ctx, tenantID, accountID, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to archive account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account archived",
		slog.String("account_id", accountID),
		slog.String("tenant_id", tenantID))
	return nil
}

// defaultAccountSpec describes the account auto-created for a purpose.
type defaultAccountSpec struct {
	name         string
	number       string
	ledgerGroup  domain.LedgerGroup
	categoryName string
}

var defaultAccountSpecs = map[domain.DefaultAccountPurpose]defaultAccountSpec{
	domain.PurposeCash:       {name: "Cash", number: "1000", ledgerGroup: domain.Asset, categoryName: "Current Assets"},
	domain.PurposeReceivable: {name: "Accounts Receivable", number: "1100", ledgerGroup: domain.Asset, categoryName: "Current Assets"},
	domain.PurposePayable:    {name: "Accounts Payable", number: "2000", ledgerGroup: domain.Liability, categoryName: "Current Liabilities"},
	domain.PurposeSales:      {name: "Sales", number: "4000", ledgerGroup: domain.Income, categoryName: "Operating Income"},
	domain.PurposeExpense:    {name: "General Expenses", number: "5000", ledgerGroup: domain.Expense, categoryName: "Operating Expenses"},
	domain.PurposeSuspense:   {name: "Suspense", number: "1900", ledgerGroup: domain.Asset, categoryName: "Current Assets"},
}

func (s *accountService) GetOrCreateDefaultAccount(ctx context.Context, tenantID string, purpose domain.DefaultAccountPurpose, userID string) (*domain.LedgerAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	spec, ok := defaultAccountSpecs[purpose]
	if !ok {
		return nil, fmt.Errorf("unknown default account purpose %q: %w", purpose, apperrors.ErrValidation)
	}

	category, err := s.getOrCreateCategory(ctx, tenantID, spec.categoryName, spec.ledgerGroup, userID)
	if err != nil {
		return nil, err
	}

	currencyCode := "USD"
	if s.tenantRepo != nil {
		tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if tenant.DefaultCurrencyCode != nil {
			currencyCode = *tenant.DefaultCurrencyCode
		}
	}

	now := time.Now()
	p := purpose
	candidate := domain.LedgerAccount{
		AccountID:     uuid.NewString(),
		TenantID:      tenantID,
		Name:          spec.name,
		Number:        spec.number,
		CategoryID:    category.CategoryID,
		CurrencyCode:  currencyCode,
		SystemAccount: true,
		Editable:      false,
		LedgerGroup:   spec.ledgerGroup,
		Purpose:       &p,
		Balance:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// The upsert resolves concurrent first-use: whichever insert wins, both
	// callers get the same surviving row back.
	account, err := s.accountRepo.UpsertDefaultAccount(ctx, candidate)
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert default account",
			slog.String("tenant_id", tenantID),
			slog.String("purpose", string(purpose)))
		return nil, err
	}

	return account, nil
}

func (s *accountService) getOrCreateCategory(ctx context.Context, tenantID, name string, group domain.LedgerGroup, userID string) (*domain.LedgerAccountCategory, error) {
	category, err := s.categoryRepo.FindCategoryByName(ctx, tenantID, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	created := domain.LedgerAccountCategory{
		CategoryID:  uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		LedgerGroup: group,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.categoryRepo.SaveCategory(ctx, created); err != nil {
		// A concurrent caller may have created it in the meantime.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.categoryRepo.FindCategoryByName(ctx, tenantID, name)
		}
		return nil, err
	}
	return &created, nil
}
