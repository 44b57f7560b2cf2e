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

// transactionService implements the TransactionSvcFacade interface. It is the
// posting engine: every ledger write that touches account balances passes
// through here or through the group service.
type transactionService struct {
	BaseService
	txnRepo         portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	tenantRepo      portsrepo.TenantReader
	currencyRepo    portsrepo.CurrencyReader
	exchangeRateSvc portssvc.ExchangeRateSvcFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	tenantRepo portsrepo.TenantReader,
	currencyRepo portsrepo.CurrencyReader,
	exchangeRateSvc portssvc.ExchangeRateSvcFacade,
	authorizer portssvc.TenantAuthorizerSvc,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:         txnRepo,
		accountRepo:     accountRepo,
		tenantRepo:      tenantRepo,
		currencyRepo:    currencyRepo,
		exchangeRateSvc: exchangeRateSvc,
	}
	svc.TenantAuthorizer = authorizer
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// checkPostingsAllowed rejects postings for tenants whose ledger has been
// halted by a failed consistency check.
func (s *transactionService) checkPostingsAllowed(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.PostingsLocked {
		return nil, fmt.Errorf("postings are halted for tenant %s pending investigation: %w", tenantID, apperrors.ErrConsistency)
	}
	return tenant, nil
}

// resolvePosting fills in the exchange rate and base amount for a posting.
// The rate defaults from the rate registry when the caller did not supply
// one; the base amount is rounded half-up to the base currency's minor unit
// exactly once, here.
func (s *transactionService) resolvePosting(ctx context.Context, tenant *domain.Tenant, currencyCode string, amount decimal.Decimal, explicitRate *decimal.Decimal, txnDate time.Time) (decimal.Decimal, decimal.Decimal, error) {
	baseCurrency := currencyCode
	if tenant.DefaultCurrencyCode != nil {
		baseCurrency = *tenant.DefaultCurrencyCode
	}

	rate := decimal.NewFromInt(1)
	if explicitRate != nil {
		rate = *explicitRate
	} else if currencyCode != baseCurrency {
		found, err := s.exchangeRateSvc.EffectiveRate(ctx, currencyCode, baseCurrency, txnDate)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		rate = found
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("exchange rate must be positive: %w", apperrors.ErrValidation)
	}

	precision := int32(2)
	if s.currencyRepo != nil {
		currency, err := s.currencyRepo.FindCurrencyByCode(ctx, baseCurrency)
		if err == nil {
			precision = currency.Precision
		}
	}

	return rate, accounting.ConvertToBase(amount, rate, precision), nil
}

// postingAccounts loads and validates the accounts a transaction posts to and
// returns their ledger groups keyed by account ID.
func (s *transactionService) postingAccounts(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.LedgerGroup, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	groups := make(map[string]domain.LedgerGroup, len(accountIDs))
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		if account.Archived {
			return nil, fmt.Errorf("account %s is archived: %w", id, apperrors.ErrConflict)
		}
		groups[id] = account.LedgerGroup
	}
	return groups, nil
}

func relatedTo(reqType, reqID *string) (*domain.RelatedToType, *string, error) {
	if reqType == nil && reqID == nil {
		return nil, nil, nil
	}
	if reqType == nil || reqID == nil {
		return nil, nil, fmt.Errorf("relatedTo type and id must be set together: %w", apperrors.ErrValidation)
	}
	t := domain.RelatedToType(*reqType)
	switch t {
	case domain.RelatedInvoice, domain.RelatedBill, domain.RelatedVoucher, domain.RelatedOther:
		return &t, reqID, nil
	}
	return nil, nil, fmt.Errorf("unknown relatedTo type %q: %w", *reqType, apperrors.ErrValidation)
}

func (s *transactionService) PostSingleEntry(ctx context.Context, tenantID string, req dto.PostSingleEntryRequest, userID string) (*domain.LedgerTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	tenant, err := s.checkPostingsAllowed(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	groups, err := s.postingAccounts(ctx, tenantID, []string{req.AccountID})
	if err != nil {
		return nil, err
	}

	rate, baseAmount, err := s.resolvePosting(ctx, tenant, req.CurrencyCode, req.Amount, req.ExchangeRate, req.TransactionDate)
	if err != nil {
		return nil, err
	}

	relType, relID, err := relatedTo(req.RelatedToType, req.RelatedToID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.LedgerTransaction{
		TransactionID:   uuid.NewString(),
		TenantID:        tenantID,
		EntryMode:       domain.SingleEntry,
		AccountID:       req.AccountID,
		Side:            domain.TransactionSide(req.Side),
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		ExchangeRate:    rate,
		BaseAmount:      baseAmount,
		TransactionDate: req.TransactionDate,
		RelatedToType:   relType,
		RelatedToID:     relID,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
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

	changes, err := accounting.BalanceChanges(txn, groups)
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save single-entry transaction",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Single-entry transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", req.AccountID),
		slog.String("side", req.Side),
		slog.String("amount", req.Amount.String()))
	return &txn, nil
}

func (s *transactionService) PostDoubleEntry(ctx context.Context, tenantID string, req dto.PostDoubleEntryRequest, userID string) (*domain.LedgerTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	tenant, err := s.checkPostingsAllowed(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.DebitAccountID == req.CreditAccountID {
		return nil, fmt.Errorf("debit and credit accounts must differ: %w", apperrors.ErrValidation)
	}

	groups, err := s.postingAccounts(ctx, tenantID, []string{req.DebitAccountID, req.CreditAccountID})
	if err != nil {
		return nil, err
	}

	rate, baseAmount, err := s.resolvePosting(ctx, tenant, req.CurrencyCode, req.Amount, req.ExchangeRate, req.TransactionDate)
	if err != nil {
		return nil, err
	}

	relType, relID, err := relatedTo(req.RelatedToType, req.RelatedToID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.LedgerTransaction{
		TransactionID:   uuid.NewString(),
		TenantID:        tenantID,
		EntryMode:       domain.DoubleEntry,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		ExchangeRate:    rate,
		BaseAmount:      baseAmount,
		TransactionDate: req.TransactionDate,
		RelatedToType:   relType,
		RelatedToID:     relID,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
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

	changes, err := accounting.BalanceChanges(txn, groups)
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save double-entry transaction",
			slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Double-entry transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("debit_account_id", req.DebitAccountID),
		slog.String("credit_account_id", req.CreditAccountID),
		slog.String("amount", req.Amount.String()))
	return &txn, nil
}

func (s *transactionService) ReverseTransaction(ctx context.Context, tenantID, transactionID, userID string) (*domain.LedgerTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	if _, err := s.checkPostingsAllowed(ctx, tenantID); err != nil {
		return nil, err
	}

	original, err := s.txnRepo.FindTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Archived {
		return nil, fmt.Errorf("transaction %s is already reversed: %w", transactionID, apperrors.ErrConflict)
	}
	if original.GroupID != nil {
		return nil, fmt.Errorf("transaction %s belongs to a group and must be reversed through group reversal: %w", transactionID, apperrors.ErrConflict)
	}

	groups, err := s.postingAccounts(ctx, tenantID, original.Accounts())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reversal := *original
	reversal.TransactionID = uuid.NewString()
	reversal.ReversalOfID = &original.TransactionID
	reversal.Verified = false
	reversal.Archived = false
	reversal.TransactionDate = now
	reversal.Notes = fmt.Sprintf("Reversal of %s", original.TransactionID)
	reversal.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	// Mirror the posting: single-entry flips its side, double-entry swaps its
	// legs. The amount and the stored base amount stay as posted, so the
	// reversal cancels the original exactly with no re-rounding.
	switch original.EntryMode {
	case domain.SingleEntry:
		reversal.Side = original.Side.Opposite()
	case domain.DoubleEntry:
		reversal.DebitAccountID = original.CreditAccountID
		reversal.CreditAccountID = original.DebitAccountID
	}

	changes, err := accounting.BalanceChanges(reversal, groups)
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveReversal(ctx, original.TransactionID, reversal, changes); err != nil {
		s.LogError(ctx, err, "Failed to save reversal",
			slog.String("original_id", original.TransactionID),
			slog.String("reversal_id", reversal.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.String("original_id", original.TransactionID),
		slog.String("reversal_id", reversal.TransactionID))
	return &reversal, nil
}

func (s *transactionService) VerifyTransaction(ctx context.Context, tenantID, transactionID, approverUserID string) error {
	if err := s.AuthorizeUser(ctx, approverUserID, tenantID, domain.RoleMember); err != nil {
		return err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		return err
	}
	if txn.Verified {
		return nil // Idempotent.
	}
	if txn.Archived {
		return fmt.Errorf("transaction %s is reversed and cannot be verified: %w", transactionID, apperrors.ErrConflict)
	}

	if err := s.txnRepo.MarkTransactionVerified(ctx, tenantID, transactionID, approverUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to verify transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction verified",
		slog.String("transaction_id", transactionID),
		slog.String("approver_id", approverUserID))
	return nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, tenantID, transactionID, userID string) (*domain.LedgerTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.txnRepo.FindTransactionByID(ctx, tenantID, transactionID)
}

func (s *transactionService) ListTransactionsByAccount(ctx context.Context, tenantID, accountID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	// Surface a not-found for dangling account IDs rather than an empty list.
	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByAccountID(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
