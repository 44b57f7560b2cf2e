package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// GroupReaderSvc defines read operations for transaction groups.
type GroupReaderSvc interface {
	GetGroupByID(ctx context.Context, tenantID, groupID, userID string) (*domain.LedgerTransactionGroup, error)
	ListGroups(ctx context.Context, tenantID, userID string, params dto.ListGroupsParams) (*dto.ListGroupsResponse, error)
}

// GroupWriterSvc defines write operations for transaction groups.
type GroupWriterSvc interface {
	// CreateGroup validates and persists a balanced multi-line entry
	// atomically; an unbalanced line set is rejected before any write.
	CreateGroup(ctx context.Context, tenantID string, req dto.CreateGroupRequest, userID string) (*domain.LedgerTransactionGroup, error)

	// PostGroup transitions a BALANCED group to POSTED, verifying its members.
	PostGroup(ctx context.Context, tenantID, groupID, userID string) (*domain.LedgerTransactionGroup, error)

	// ReverseGroup creates a mirror group with every line's side flipped and
	// marks the original REVERSED. Only POSTED, not-yet-reversed groups
	// qualify.
	ReverseGroup(ctx context.Context, tenantID, groupID, userID string) (*domain.LedgerTransactionGroup, error)
}

// GroupSvcFacade combines all group service interfaces.
type GroupSvcFacade interface {
	GroupReaderSvc
	GroupWriterSvc
}
