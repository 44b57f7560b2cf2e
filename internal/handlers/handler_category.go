package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categoryHandler handles HTTP requests related to account categories.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func newCategoryHandler(categoryService portssvc.CategorySvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: categoryService}
}

// registerCategoryRoutes registers category routes under a tenant.
func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := newCategoryHandler(categoryService)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:categoryID", h.getCategory)
		categories.PUT("/:categoryID", h.updateCategory)
	}
}

// createCategory godoc
// @Summary Create an account category
// @Description Creates a category binding a name to a ledger group and thus a normal-balance side.
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid ledger group"
// @Failure 409 {object} map[string]string "Category name already exists"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create category")
		return
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List account categories
// @Tags categories
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list categories")
		return
	}

	out := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		out[i] = dto.ToCategoryResponse(&categories[i])
	}
	c.JSON(http.StatusOK, out)
}

// getCategory godoc
// @Summary Get an account category by ID
// @Tags categories
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   categoryID path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/categories/{categoryID} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	categoryID := c.Param("categoryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), tenantID, categoryID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// updateCategory godoc
// @Summary Update an account category
// @Description Updates a category. The ledger group is immutable once postings reference accounts of the category.
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   categoryID path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} dto.CategoryResponse
// @Failure 409 {object} map[string]string "Ledger group locked by existing postings"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/categories/{categoryID} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	categoryID := c.Param("categoryID")

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), tenantID, categoryID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}
