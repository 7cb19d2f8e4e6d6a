package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/domain"
	"metpro/internal/domain/documents/invoice"
	"metpro/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler provides HTTP handlers for invoice documents.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ConvertQuote handles POST /quotes/:id/convert.
// The :id is the quote being converted, the response is the new invoice.
func (h *InvoiceHandler) ConvertQuote(c *gin.Context) {
	ctx := c.Request.Context()

	quoteID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.ConvertFromQuote(ctx, quoteID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromInvoice(doc))
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// GetByNumber handles GET /invoices/number/:number.
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.service.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// List handles GET /invoices with filtering and pagination.
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.parseListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromInvoice(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *InvoiceHandler) parseListFilter(c *gin.Context) (invoice.ListFilter, bool) {
	filter := invoice.ListFilter{
		ListFilter: domain.ListFilter{
			Search:  c.Query("search"),
			Limit:   h.ParseIntQuery(c, "limit", 50),
			Offset:  h.ParseIntQuery(c, "offset", 0),
			OrderBy: c.DefaultQuery("orderBy", "-date"),
		},
	}

	if clientID := c.Query("clientId"); clientID != "" {
		parsed, err := id.Parse(clientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId format"))
			return filter, false
		}
		filter.ClientID = &parsed
	}

	if quoteID := c.Query("quoteId"); quoteID != "" {
		parsed, err := id.Parse(quoteID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid quoteId format"))
			return filter, false
		}
		filter.QuoteID = &parsed
	}

	if status := c.Query("status"); status != "" {
		parsed, err := invoice.ParseStatus(status)
		if err != nil {
			h.Error(c, err)
			return filter, false
		}
		filter.Status = &parsed
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		t, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom format (RFC3339 expected)"))
			return filter, false
		}
		filter.DateFrom = &t
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		t, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo format (RFC3339 expected)"))
			return filter, false
		}
		filter.DateTo = &t
	}

	return filter, true
}

// UpdateStatus handles POST /invoices/:id/status.
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateStatus(ctx, docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// Delete handles DELETE /invoices/:id.
// Responds with whether the source quote was reverted to Approved.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	result, err := h.service.Delete(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteInvoiceResponse{
		Success:       true,
		QuoteReverted: result.QuoteReverted,
	})
}

// RecordPayment handles POST /invoices/:id/payments.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	paymentID, err := h.service.RecordPayment(ctx, docID, req.ToEntity())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, paymentID.String())
}

// GetPayments handles GET /invoices/:id/payments.
func (h *InvoiceHandler) GetPayments(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	payments, err := h.service.GetPayments(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = dto.FromPayment(p)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
