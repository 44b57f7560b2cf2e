package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService     portssvc.AccountSvcFacade
	transactionService portssvc.TransactionSvcFacade
	balanceService     portssvc.BalanceSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade, transactionService portssvc.TransactionSvcFacade, balanceService portssvc.BalanceSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:     accountService,
		transactionService: transactionService,
		balanceService:     balanceService,
	}
}

// registerAccountRoutes registers account routes under a tenant. Account
// transaction history and balance queries live here too since they are
// account-scoped.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, transactionService portssvc.TransactionSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newAccountHandler(accountService, transactionService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.POST("/defaults/:purpose", h.getOrCreateDefaultAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.archiveAccount)
		accounts.GET("/:accountID/transactions", h.listAccountTransactions)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a ledger account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List ledger accounts
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	resp, err := h.accountService.ListAccounts(c.Request.Context(), tenantID, userID, dto.ListAccountsParams{
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getOrCreateDefaultAccount godoc
// @Summary Resolve a default account by purpose
// @Description Returns the tenant's well-known account for the purpose (CASH, RECEIVABLE, PAYABLE, SALES, EXPENSE, SUSPENSE), creating it on first use.
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   purpose path string true "Default account purpose"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Unknown purpose"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/defaults/{purpose} [post]
func (h *accountHandler) getOrCreateDefaultAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	purpose := domain.DefaultAccountPurpose(c.Param("purpose"))

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetOrCreateDefaultAccount(c.Request.Context(), tenantID, purpose, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve default account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get a ledger account by ID
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID, accountID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update a ledger account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 409 {object} map[string]string "Account not editable"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), tenantID, accountID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// archiveAccount godoc
// @Summary Archive a ledger account
// @Description Soft-archives an account. System accounts with postings and accounts with active children cannot be archived.
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "Archived"
// @Failure 409 {object} map[string]string "Account cannot be archived"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{accountID} [delete]
func (h *accountHandler) archiveAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accountService.ArchiveAccount(c.Request.Context(), tenantID, accountID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to archive account")
		return
	}

	logger.Info("Account archived", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// listAccountTransactions godoc
// @Summary List transactions posting to an account
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{accountID}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	resp, err := h.transactionService.ListTransactionsByAccount(c.Request.Context(), tenantID, accountID, userID, dto.ListTransactionsParams{
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the signed balance as of a date, or the net movement over (from, to] when both bounds are given.
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance as of this date (defaults to now)"
// @Param   from query string false "Interval start (exclusive); requires to"
// @Param   to query string false "Interval end (inclusive)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if c.Query("from") != "" {
		from, okFrom := dateQueryParam(c, "from")
		to, okTo := dateQueryParam(c, "to")
		if !okFrom || !okTo {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from/to date"})
			return
		}
		balance, err := h.balanceService.BalanceBetween(c.Request.Context(), tenantID, accountID, from, to, userID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to compute balance")
			return
		}
		c.JSON(http.StatusOK, dto.BalanceResponse{
			AccountID: accountID,
			Balance:   balance,
			From:      from.Format(time.RFC3339),
			To:        to.Format(time.RFC3339),
		})
		return
	}

	asOf, okDate := dateQueryParam(c, "asOf")
	if !okDate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asOf date"})
		return
	}
	balance, err := h.balanceService.BalanceAsOf(c.Request.Context(), tenantID, accountID, asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
		AsOf:      asOf.Format(time.RFC3339),
	})
}
