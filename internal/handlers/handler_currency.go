package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to the currency registry.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(currencyService portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: currencyService}
}

// registerCurrencyRoutes registers currency specific routes.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:currencyCode", h.getCurrency)
	}
}

// createCurrency godoc
// @Summary Register a currency
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Currency already exists"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	currency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created", slog.String("currency_code", currency.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list currencies")
		return
	}

	out := make([]dto.CurrencyResponse, len(currencies))
	for i := range currencies {
		out[i] = dto.ToCurrencyResponse(&currencies[i])
	}
	c.JSON(http.StatusOK, out)
}

// getCurrency godoc
// @Summary Get a currency by code
// @Tags currencies
// @Produce  json
// @Param   currencyCode path string true "ISO currency code"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not found"
// @Security BearerAuth
// @Router /currencies/{currencyCode} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("currencyCode")

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}
