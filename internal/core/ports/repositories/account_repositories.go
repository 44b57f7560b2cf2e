package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by ID within a tenant. Accounts
	// outside the tenant are reported as not found.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.LedgerAccount, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.LedgerAccount, error)

	// ListAccounts retrieves a paginated list of accounts using token-based pagination.
	ListAccounts(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.LedgerAccount, *string, error)

	// HasPostings reports whether any non-archived transaction references the account.
	HasPostings(ctx context.Context, accountID string) (bool, error)

	// HasActiveChildren reports whether the account has non-archived child accounts.
	HasActiveChildren(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.LedgerAccount) error

	// UpdateAccount persists changes to an existing account.
	UpdateAccount(ctx context.Context, account domain.LedgerAccount) error

	// UpsertDefaultAccount inserts the candidate account for its (tenant,
	// purpose) pair unless one already exists, and returns the surviving row.
	// Backed by a unique index so concurrent first-use callers resolve to
	// exactly one account.
	UpsertDefaultAccount(ctx context.Context, candidate domain.LedgerAccount) (*domain.LedgerAccount, error)

	// ArchiveAccount soft-archives an account.
	ArchiveAccount(ctx context.Context, tenantID, accountID, updatedByUserID string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
