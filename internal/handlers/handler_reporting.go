package handlers

import (
	"net/http"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for financial reports. All report
// endpoints are pure reads.
type reportingHandler struct {
	balanceService   portssvc.BalanceSvcFacade
	reportingService portssvc.ReportingSvcFacade
	documentService  portssvc.DocumentSvcFacade
}

func newReportingHandler(
	balanceService portssvc.BalanceSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
	documentService portssvc.DocumentSvcFacade,
) *reportingHandler {
	return &reportingHandler{
		balanceService:   balanceService,
		reportingService: reportingService,
		documentService:  documentService,
	}
}

// registerReportingRoutes registers report routes under a tenant.
func registerReportingRoutes(
	rg *gin.RouterGroup,
	balanceService portssvc.BalanceSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
	documentService portssvc.DocumentSvcFacade,
) {
	h := newReportingHandler(balanceService, reportingService, documentService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/profit-and-loss", h.profitAndLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/aging", h.aging)
	}
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Sums per-account net balances split by normal side. An unbalanced result halts further posting for the tenant.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   asOf query string false "Cut-off date (RFC 3339 or YYYY-MM-DD, defaults to now)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 409 {object} map[string]string "Ledger out of balance"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf, ok := dateQueryParam(c, "asOf")
	if !ok {
		return
	}

	report, err := h.balanceService.TrialBalance(c.Request.Context(), tenantID, asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// profitAndLoss godoc
// @Summary Profit and loss report
// @Description Nets income and expense accounts over the period (from, to], in the tenant's base currency.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   from query string true "Period start, exclusive (RFC 3339 or YYYY-MM-DD)"
// @Param   to query string false "Period end, inclusive (defaults to now)"
// @Success 200 {object} domain.PAndLReport
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/profit-and-loss [get]
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if c.Query("from") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'from' is required"})
		return
	}
	from, ok := dateQueryParam(c, "from")
	if !ok {
		return
	}
	to, ok := dateQueryParam(c, "to")
	if !ok {
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), tenantID, from, to, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build profit and loss report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet report
// @Description Nets asset, liability and equity accounts as of a date, in the tenant's base currency.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   asOf query string false "Cut-off date (RFC 3339 or YYYY-MM-DD, defaults to now)"
// @Success 200 {object} domain.BalanceSheetReport
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf, ok := dateQueryParam(c, "asOf")
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), tenantID, asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// aging godoc
// @Summary Receivables or payables aging report
// @Description Buckets open documents of one type by days past due as of a date.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   type query string true "Document type (INVOICE or BILL)"
// @Param   asOf query string false "Cut-off date (RFC 3339 or YYYY-MM-DD, defaults to now)"
// @Success 200 {object} domain.AgingReport
// @Failure 400 {object} map[string]string "Missing or invalid document type"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/aging [get]
func (h *reportingHandler) aging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	docType := domain.DocumentType(c.Query("type"))
	if docType != domain.DocInvoice && docType != domain.DocBill {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'type' must be INVOICE or BILL"})
		return
	}

	asOf, ok := dateQueryParam(c, "asOf")
	if !ok {
		return
	}

	report, err := h.documentService.AgingReport(c.Request.Context(), tenantID, docType, asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build aging report")
		return
	}
	c.JSON(http.StatusOK, report)
}
