package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration and token issuance.
type authHandler struct {
	userService portssvc.UserSvcFacade
}

func newAuthHandler(userService portssvc.UserSvcFacade) *authHandler {
	return &authHandler{userService: userService}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.UserSvc)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
	}
}

// register godoc
// @Summary Register a new user
// @Description Creates a user account with username/password credentials.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   user body dto.RegisterUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Username already taken"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register user")
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in with username and password
// @Description Verifies credentials and returns a JWT access token.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to log in")
		return
	}

	logger.Info("User logged in", slog.String("user_id", resp.UserID))
	c.JSON(http.StatusOK, resp)
}

// refresh godoc
// @Summary Refresh an access token
// @Description Exchanges a valid refresh token for a new access token.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   token body object{refreshToken=string} true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Refresh", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		logger.Warn("Failed to refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
