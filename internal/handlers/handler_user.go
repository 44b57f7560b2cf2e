package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(userService portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: userService}
}

// registerUserRoutes registers user specific routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/:userID", h.getUser)
		users.DELETE("/:userID", h.deactivateUser)
	}
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deactivateUser godoc
// @Summary Deactivate the calling user's account
// @Description Soft-deletes the user. Users can only deactivate themselves.
// @Tags users
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 204 "Deactivated"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /users/{userID} [delete]
func (h *userHandler) deactivateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetUserID := c.Param("userID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), targetUserID, requestingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate user")
		return
	}

	logger.Info("User deactivated", slog.String("user_id", targetUserID))
	c.Status(http.StatusNoContent)
}
