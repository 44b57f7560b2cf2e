package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupReader defines read operations for transaction groups.
type GroupReader interface {
	// FindGroupByID retrieves a group header (without member transactions).
	FindGroupByID(ctx context.Context, tenantID, groupID string) (*domain.LedgerTransactionGroup, error)

	// ListGroupsByTenant retrieves a paginated list of groups using
	// token-based pagination. Mirror groups are excluded unless
	// includeReversals is set.
	ListGroupsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.LedgerTransactionGroup, *string, error)
}

// GroupWriter defines write operations for transaction groups.
type GroupWriter interface {
	// SaveGroup persists the group, all member transactions, and the signed
	// balance changes in a single storage transaction. No partial group is
	// ever observable.
	SaveGroup(ctx context.Context, group domain.LedgerTransactionGroup, transactions []domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) error

	// PostGroup transitions a group from BALANCED to POSTED and marks its
	// members verified, guarded by the current status. Returns false when the
	// group was not in BALANCED state.
	PostGroup(ctx context.Context, tenantID, groupID, postedByUserID string, postedAt time.Time) (bool, error)

	// SaveReversalGroup persists the mirror group with its members and
	// balance changes, and flips the original group to REVERSED with the
	// reversal cross-link, all in one storage transaction. The status guard
	// on the original makes concurrent reversals mutually exclusive: exactly
	// one caller sees true.
	SaveReversalGroup(ctx context.Context, originalGroupID string, mirror domain.LedgerTransactionGroup, transactions []domain.LedgerTransaction, balanceChanges map[string]decimal.Decimal) (bool, error)
}

// GroupRepositoryFacade combines all group repository interfaces.
type GroupRepositoryFacade interface {
	GroupReader
	GroupWriter
}
