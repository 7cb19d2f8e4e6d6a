package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"metpro/internal/core/apperror"
	"metpro/internal/core/id"
	"metpro/internal/domain"
	"metpro/internal/domain/documents/quote"
	"metpro/internal/infrastructure/http/v1/dto"
)

// QuoteHandler provides HTTP handlers for quote documents.
type QuoteHandler struct {
	*BaseHandler
	service *quote.Service
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(base *BaseHandler, service *quote.Service) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if _, err := id.Parse(req.ClientID); err != nil {
		h.Error(c, apperror.NewValidation("invalid clientId format"))
		return
	}

	doc := req.ToEntity()

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromQuote(doc))
}

// Get handles GET /quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromQuote(doc))
}

// GetByNumber handles GET /quotes/number/:number.
func (h *QuoteHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.service.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuote(doc))
}

// List handles GET /quotes with filtering and pagination.
func (h *QuoteHandler) List(c *gin.Context) {
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

	// List rows carry no items; totals come from the persisted column.
	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromQuote(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *QuoteHandler) parseListFilter(c *gin.Context) (quote.ListFilter, bool) {
	filter := quote.ListFilter{
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

	if status := c.Query("status"); status != "" {
		parsed, err := quote.ParseStatus(status)
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

// Update handles PUT /quotes/:id - full replacement of a Draft quote.
func (h *QuoteHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuote(doc))
}

// UpdateStatus handles POST /quotes/:id/status.
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromQuote(doc))
}

// Delete handles DELETE /quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Duplicate handles POST /quotes/:id/duplicate.
func (h *QuoteHandler) Duplicate(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	copied, err := h.service.Duplicate(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromQuote(copied))
}
