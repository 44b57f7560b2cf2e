package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to ledger transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(transactionService portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: transactionService}
}

// registerTransactionRoutes registers transaction routes under a tenant.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := rg.Group("/transactions")
	{
		txns.POST("/single", h.postSingleEntry)
		txns.POST("/double", h.postDoubleEntry)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/reverse", h.reverseTransaction)
		txns.POST("/:transactionID/verify", h.verifyTransaction)
	}
}

// postSingleEntry godoc
// @Summary Record a single-entry posting
// @Description Posts one debit or credit to an account without a counter-leg. The balance guarantee rests with the caller.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction body dto.PostSingleEntryRequest true "Posting details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account archived or postings halted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/single [post]
func (h *transactionHandler) postSingleEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.PostSingleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostSingleEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.PostSingleEntry(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Single-entry transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// postDoubleEntry godoc
// @Summary Record a double-entry posting
// @Description Posts a balanced debit/credit pair as one transaction.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction body dto.PostDoubleEntryRequest true "Posting details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account archived or postings halted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/double [post]
func (h *transactionHandler) postDoubleEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.PostDoubleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostDoubleEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.PostDoubleEntry(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Double-entry transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	transactionID := c.Param("transactionID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), tenantID, transactionID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Creates a mirror transaction that cancels the original. Corrections are always reversals, never edits.
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Already reversed or part of a group"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transactionID}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	transactionID := c.Param("transactionID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.transactionService.ReverseTransaction(c.Request.Context(), tenantID, transactionID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse transaction")
		return
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}

// verifyTransaction godoc
// @Summary Mark a transaction verified
// @Description Flags the transaction as verified, freezing it against edits. Idempotent.
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "Verified"
// @Failure 409 {object} map[string]string "Transaction reversed"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transactionID}/verify [post]
func (h *transactionHandler) verifyTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	transactionID := c.Param("transactionID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.transactionService.VerifyTransaction(c.Request.Context(), tenantID, transactionID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to verify transaction")
		return
	}

	logger.Info("Transaction verified", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}
