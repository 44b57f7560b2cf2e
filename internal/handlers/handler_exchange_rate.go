package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(exchangeRateService portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: exchangeRateService}
}

// registerExchangeRateRoutes registers exchange rate specific routes.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("/effective", h.getEffectiveRate)
	}
}

// createExchangeRate godoc
// @Summary Register an exchange rate
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created",
		slog.String("from", rate.FromCurrencyCode), slog.String("to", rate.ToCurrencyCode))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// getEffectiveRate godoc
// @Summary Get the effective exchange rate for a currency pair
// @Description Returns the most recent rate effective on or before the given date.
// @Tags exchange-rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   on query string false "Effective date (RFC3339 or YYYY-MM-DD, defaults to now)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "No rate found"
// @Security BearerAuth
// @Router /exchange-rates/effective [get]
func (h *exchangeRateHandler) getEffectiveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}
	on, ok := dateQueryParam(c, "on")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid on date"})
		return
	}

	rate, err := h.exchangeRateService.EffectiveRate(c.Request.Context(), from, to, on)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "rate": rate})
}
