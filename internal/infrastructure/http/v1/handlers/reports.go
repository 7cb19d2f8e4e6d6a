package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain/reports"
)

// ReportsHandler provides HTTP handlers for analytical reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBillingSummary handles GET /reports/billing-summary.
// Query params: dateFrom, dateTo (RFC3339), clientId.
func (h *ReportsHandler) GetBillingSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var filter reports.BillingSummaryFilter

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		t, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom format (RFC3339 expected)"))
			return
		}
		filter.DateFrom = &t
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		t, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo format (RFC3339 expected)"))
			return
		}
		filter.DateTo = &t
	}

	if clientID := c.Query("clientId"); clientID != "" {
		parsed, err := id.Parse(clientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId format"))
			return
		}
		filter.ClientID = &parsed
	}

	summary, err := h.service.GetBillingSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetReceivables handles GET /reports/receivables.
// Query params: minBalance (decimal), limit, offset.
func (h *ReportsHandler) GetReceivables(c *gin.Context) {
	ctx := c.Request.Context()

	filter := reports.ReceivablesFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if minBalance := c.Query("minBalance"); minBalance != "" {
		parsed, err := types.NewMoneyFromString(minBalance)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid minBalance format (decimal expected)"))
			return
		}
		filter.MinBalance = &parsed
	}

	result, err := h.service.GetReceivables(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
