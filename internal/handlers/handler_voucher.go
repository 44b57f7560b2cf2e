package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests for the voucher approval workflow.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(voucherService portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: voucherService}
}

// registerVoucherRoutes registers voucher routes under a tenant.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.PUT("/:voucherID", h.updateVoucher)
		vouchers.POST("/:voucherID/approve", h.approveVoucher)
		vouchers.POST("/:voucherID/reject", h.rejectVoucher)
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Creates a PENDING voucher together with its unverified double-entry transaction.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create voucher")
		return
	}

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Tags vouchers
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListVouchersResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	params := dto.ListVouchersParams{Limit: limit, NextToken: nextToken}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), tenantID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Tags vouchers
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/vouchers/{voucherID} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	voucherID := c.Param("voucherID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), tenantID, voucherID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// updateVoucher godoc
// @Summary Update a pending voucher
// @Description Edits voucher fields. Only PENDING vouchers may be edited.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   voucherID path string true "Voucher ID"
// @Param   voucher body dto.UpdateVoucherRequest true "Fields to update"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Voucher no longer pending"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/vouchers/{voucherID} [put]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	voucherID := c.Param("voucherID")

	var req dto.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), tenantID, voucherID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// approveVoucher godoc
// @Summary Approve a pending voucher
// @Description Transitions the voucher to APPROVED and verifies its transaction. Concurrent approvals cannot both succeed.
// @Tags vouchers
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Voucher no longer pending"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/vouchers/{voucherID}/approve [post]
func (h *voucherHandler) approveVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	voucherID := c.Param("voucherID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.ApproveVoucher(c.Request.Context(), tenantID, voucherID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve voucher")
		return
	}

	logger.Info("Voucher approved", slog.String("voucher_id", voucherID))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// rejectVoucher godoc
// @Summary Reject a pending voucher
// @Tags vouchers
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Voucher no longer pending"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/vouchers/{voucherID}/reject [post]
func (h *voucherHandler) rejectVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	voucherID := c.Param("voucherID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.RejectVoucher(c.Request.Context(), tenantID, voucherID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject voucher")
		return
	}

	logger.Info("Voucher rejected", slog.String("voucher_id", voucherID))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
