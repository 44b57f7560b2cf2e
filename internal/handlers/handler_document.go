package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests for invoices and bills.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(documentService portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: documentService}
}

// registerDocumentRoutes registers billable document routes under a tenant.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	docs := rg.Group("/documents")
	{
		docs.POST("", h.createDocument)
		docs.GET("", h.listDocuments)
		docs.GET("/:documentID", h.getDocument)
		docs.DELETE("/:documentID", h.archiveDocument)
		docs.POST("/:documentID/payments", h.recordPayment)
	}
}

// createDocument godoc
// @Summary Create an invoice or bill
// @Description Creates a billable document. The total is the sum of line amounts; status is derived from payments on every read.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List invoices and bills
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   type query string false "Filter by type (INVOICE or BILL)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	params := dto.ListDocumentsParams{Limit: limit, NextToken: nextToken}
	if docType := c.Query("type"); docType != "" {
		params.DocumentType = &docType
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), tenantID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getDocument godoc
// @Summary Get a document with its payments
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	documentID := c.Param("documentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), tenantID, documentID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// archiveDocument godoc
// @Summary Archive a document
// @Description Soft-deletes the document. Recorded payments and their ledger transactions stay untouched.
// @Tags documents
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   documentID path string true "Document ID"
// @Success 204 "Archived"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{documentID} [delete]
func (h *documentHandler) archiveDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	documentID := c.Param("documentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.documentService.ArchiveDocument(c.Request.Context(), tenantID, documentID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to archive document")
		return
	}

	logger.Info("Document archived", slog.String("document_id", documentID))
	c.Status(http.StatusNoContent)
}

// recordPayment godoc
// @Summary Record a payment against a document
// @Description Adds a payment and posts the matching ledger transaction atomically. Overpayment is rejected.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   documentID path string true "Document ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Payment exceeds amount due"
// @Failure 409 {object} map[string]string "Document archived"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/documents/{documentID}/payments [post]
func (h *documentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	documentID := c.Param("documentID")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.RecordPayment(c.Request.Context(), tenantID, documentID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("document_id", documentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}
