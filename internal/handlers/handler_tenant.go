package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantHandler handles HTTP requests related to tenants and their members.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: tenantService}
}

// registerTenantRoutes registers tenant management routes and nests every
// tenant-scoped resource under /tenants/:tenant_id.
func registerTenantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTenantHandler(services.TenantSvc)

	tenantsTopLevel := rg.Group("/tenants")
	{
		tenantsTopLevel.POST("", h.createTenant)
		tenantsTopLevel.GET("", h.listUserTenants)
	}

	tenantSpecific := rg.Group("/tenants/:tenant_id")
	{
		tenantSpecific.GET("", h.getTenant)
		tenantSpecific.PUT("", h.updateTenant)
		tenantSpecific.PUT("/postings-lock", h.setPostingsLock)

		tenantUsers := tenantSpecific.Group("/users")
		{
			tenantUsers.POST("", h.addUserToTenant)
			tenantUsers.DELETE("/:userID", h.removeUserFromTenant)
		}

		registerCategoryRoutes(tenantSpecific, services.CategorySvc)
		registerAccountRoutes(tenantSpecific, services.AccountSvc, services.TransactionSvc, services.BalanceSvc)
		registerTransactionRoutes(tenantSpecific, services.TransactionSvc)
		registerGroupRoutes(tenantSpecific, services.GroupSvc)
		registerVoucherRoutes(tenantSpecific, services.VoucherSvc)
		registerDocumentRoutes(tenantSpecific, services.DocumentSvc)
		registerReportingRoutes(tenantSpecific, services.BalanceSvc, services.ReportingSvc, services.DocumentSvc)
	}
}

// createTenant godoc
// @Summary Create a new tenant
// @Description Creates a tenant and assigns the creator as admin.
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create tenant")
		return
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listUserTenants godoc
// @Summary List tenants for the current user
// @Tags tenants
// @Produce  json
// @Success 200 {array} dto.TenantResponse
// @Security BearerAuth
// @Router /tenants [get]
func (h *tenantHandler) listUserTenants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenants, err := h.tenantService.ListTenantsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list tenants")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponses(tenants))
}

// getTenant godoc
// @Summary Get a tenant by ID
// @Tags tenants
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve tenant")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// updateTenant godoc
// @Summary Update tenant details
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   tenant body dto.UpdateTenantRequest true "Fields to update"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenant_id} [put]
func (h *tenantHandler) updateTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update tenant")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// setPostingsLock godoc
// @Summary Halt or resume posting for a tenant
// @Description Admin operation to flip the posting-halt flag, typically to clear a consistency halt after repair.
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   lock body object{locked=bool} true "Lock state"
// @Success 204 "Updated"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/postings-lock [put]
func (h *tenantHandler) setPostingsLock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tenantService.SetPostingsLocked(c.Request.Context(), tenantID, *req.Locked, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to update postings lock")
		return
	}

	logger.Info("Postings lock updated", slog.String("tenant_id", tenantID), slog.Bool("locked", *req.Locked))
	c.Status(http.StatusNoContent)
}

// addUserToTenant godoc
// @Summary Add a user to a tenant
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   membership body dto.AddUserToTenantRequest true "User and role"
// @Success 204 "Added"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "User already a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/users [post]
func (h *tenantHandler) addUserToTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.AddUserToTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUserToTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tenantService.AddUserToTenant(c.Request.Context(), tenantID, req, requestingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to add user to tenant")
		return
	}

	logger.Info("User added to tenant", slog.String("tenant_id", tenantID), slog.String("target_user_id", req.UserID))
	c.Status(http.StatusNoContent)
}

// removeUserFromTenant godoc
// @Summary Remove a user from a tenant
// @Tags tenants
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   userID path string true "User ID to remove"
// @Success 204 "Removed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/users/{userID} [delete]
func (h *tenantHandler) removeUserFromTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	targetUserID := c.Param("userID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tenantService.RemoveUserFromTenant(c.Request.Context(), tenantID, targetUserID, requestingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to remove user from tenant")
		return
	}

	logger.Info("User removed from tenant", slog.String("tenant_id", tenantID), slog.String("target_user_id", targetUserID))
	c.Status(http.StatusNoContent)
}
