package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// groupHandler handles HTTP requests related to transaction groups.
type groupHandler struct {
	groupService portssvc.GroupSvcFacade
}

func newGroupHandler(groupService portssvc.GroupSvcFacade) *groupHandler {
	return &groupHandler{groupService: groupService}
}

// registerGroupRoutes registers transaction group routes under a tenant.
func registerGroupRoutes(rg *gin.RouterGroup, groupService portssvc.GroupSvcFacade) {
	h := newGroupHandler(groupService)

	groups := rg.Group("/groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listGroups)
		groups.GET("/:groupID", h.getGroup)
		groups.POST("/:groupID/post", h.postGroup)
		groups.POST("/:groupID/reverse", h.reverseGroup)
	}
}

// createGroup godoc
// @Summary Create a balanced transaction group
// @Description Persists a multi-line journal entry atomically. An unbalanced line set is rejected before any write.
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid lines"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create group")
		return
	}

	logger.Info("Transaction group created", slog.String("group_id", group.GroupID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// listGroups godoc
// @Summary List transaction groups
// @Tags groups
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Param   includeReversals query bool false "Include mirror groups"
// @Param   includeTransactions query bool false "Load member transactions"
// @Success 200 {object} dto.ListGroupsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/groups [get]
func (h *groupHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, nextToken := paginationParams(c)
	resp, err := h.groupService.ListGroups(c.Request.Context(), tenantID, userID, dto.ListGroupsParams{
		Limit:               limit,
		NextToken:           nextToken,
		IncludeReversals:    c.Query("includeReversals") == "true",
		IncludeTransactions: c.Query("includeTransactions") == "true",
	})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list groups")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getGroup godoc
// @Summary Get a transaction group with its members
// @Tags groups
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   groupID path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/groups/{groupID} [get]
func (h *groupHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	groupID := c.Param("groupID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.groupService.GetGroupByID(c.Request.Context(), tenantID, groupID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve group")
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// postGroup godoc
// @Summary Post a balanced group
// @Description Transitions the group from BALANCED to POSTED and verifies its members. Only BALANCED groups qualify.
// @Tags groups
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   groupID path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 409 {object} map[string]string "Group not in BALANCED state"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/groups/{groupID}/post [post]
func (h *groupHandler) postGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	groupID := c.Param("groupID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.groupService.PostGroup(c.Request.Context(), tenantID, groupID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post group")
		return
	}

	logger.Info("Transaction group posted", slog.String("group_id", groupID))
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// reverseGroup godoc
// @Summary Reverse a posted group
// @Description Creates a mirror group with every line's side flipped and marks the original REVERSED.
// @Tags groups
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   groupID path string true "Group ID"
// @Success 201 {object} dto.GroupResponse
// @Failure 409 {object} map[string]string "Group not POSTED or already reversed"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/groups/{groupID}/reverse [post]
func (h *groupHandler) reverseGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	groupID := c.Param("groupID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mirror, err := h.groupService.ReverseGroup(c.Request.Context(), tenantID, groupID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse group")
		return
	}

	logger.Info("Transaction group reversed",
		slog.String("group_id", groupID),
		slog.String("mirror_group_id", mirror.GroupID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(mirror))
}
