package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, tenantID, accountID, requestingUserID string) (*domain.LedgerAccount, error)
	GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string, requestingUserID string) (map[string]domain.LedgerAccount, error)
	ListAccounts(ctx context.Context, tenantID, userID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.LedgerAccount, error)
	UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.LedgerAccount, error)

	// ArchiveAccount soft-archives an account. It fails with a conflict error
	// when the account is a system account with postings, or still has
	// non-archived children.
	ArchiveAccount(ctx context.Context, tenantID, accountID, userID string) error

	// GetOrCreateDefaultAccount resolves the tenant's well-known account for
	// the given purpose, creating it on first use. Idempotent and safe under
	// concurrent first-use.
	GetOrCreateDefaultAccount(ctx context.Context, tenantID string, purpose domain.DefaultAccountPurpose, userID string) (*domain.LedgerAccount, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
