package dto

import (
	"time"

	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain/billing"
	"metpro/internal/domain/documents/quote"
)

// --- Request DTOs ---

// QuoteItemRequest represents a line in create/update requests.
type QuoteItemRequest struct {
	ProductName   string      `json:"productName" binding:"required"`
	Quantity      types.Money `json:"quantity"`
	UnitPrice     types.Money `json:"unitPrice"`
	DiscountType  string      `json:"discountType,omitempty"`
	DiscountValue types.Money `json:"discountValue"`
}

// CreateQuoteRequest represents a request to create a quote.
type CreateQuoteRequest struct {
	ClientID        string                `json:"clientId" binding:"required"`
	ProjectName     *string               `json:"projectName,omitempty"`
	Date            *time.Time            `json:"date,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	PaymentTerms    *string               `json:"paymentTerms,omitempty"`
	ValidUntil      *time.Time            `json:"validUntil,omitempty"`
	IncludedCharges *billing.ChargePolicy `json:"includedCharges,omitempty"`
	Items           []QuoteItemRequest    `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts request to domain entity.
func (r *CreateQuoteRequest) ToEntity() *quote.Quote {
	clientID, _ := id.Parse(r.ClientID)

	doc := quote.NewQuote(clientID)
	doc.ProjectName = r.ProjectName
	doc.Notes = r.Notes
	doc.PaymentTerms = r.PaymentTerms
	doc.ValidUntil = r.ValidUntil
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.IncludedCharges != nil {
		doc.IncludedCharges = *r.IncludedCharges
	}

	doc.Items = make([]quote.QuoteItem, len(r.Items))
	for i, item := range r.Items {
		doc.Items[i] = item.toItem(i + 1)
	}

	return doc
}

func (r QuoteItemRequest) toItem(lineNo int) quote.QuoteItem {
	discountType := billing.DiscountType(r.DiscountType)
	if r.DiscountType == "" {
		discountType = billing.DiscountNone
	}
	return quote.QuoteItem{
		LineID:        id.New(),
		LineNo:        lineNo,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		DiscountType:  discountType,
		DiscountValue: r.DiscountValue,
	}
}

// UpdateQuoteRequest represents a request to update a Draft quote.
type UpdateQuoteRequest struct {
	ProjectName     *string               `json:"projectName,omitempty"`
	Date            *time.Time            `json:"date,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	PaymentTerms    *string               `json:"paymentTerms,omitempty"`
	ValidUntil      *time.Time            `json:"validUntil,omitempty"`
	IncludedCharges *billing.ChargePolicy `json:"includedCharges,omitempty"`
	Items           []QuoteItemRequest    `json:"items,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateQuoteRequest) ApplyTo(doc *quote.Quote) {
	if r.ProjectName != nil {
		doc.ProjectName = r.ProjectName
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}
	if r.PaymentTerms != nil {
		doc.PaymentTerms = r.PaymentTerms
	}
	if r.ValidUntil != nil {
		doc.ValidUntil = r.ValidUntil
	}
	if r.IncludedCharges != nil {
		doc.IncludedCharges = *r.IncludedCharges
	}

	if r.Items != nil {
		doc.Items = make([]quote.QuoteItem, len(r.Items))
		for i, item := range r.Items {
			doc.Items[i] = item.toItem(i + 1)
		}
	}
}

// UpdateStatusRequest carries the requested lifecycle status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Response DTOs ---

// QuoteItemResponse represents a line in API responses.
type QuoteItemResponse struct {
	LineID        string      `json:"lineId"`
	LineNo        int         `json:"lineNo"`
	ProductName   string      `json:"productName"`
	Quantity      types.Money `json:"quantity"`
	UnitPrice     types.Money `json:"unitPrice"`
	DiscountType  string      `json:"discountType"`
	DiscountValue types.Money `json:"discountValue"`
	LineTotal     types.Money `json:"lineTotal"`
}

// BreakdownResponse carries the full calculation pipeline, each figure
// rounded to 2dp for display.
type BreakdownResponse struct {
	ItemsTotal         types.Money `json:"itemsTotal"`
	TotalDiscounts     types.Money `json:"totalDiscounts"`
	ItemsAfterDiscount types.Money `json:"itemsAfterDiscount"`
	Supervision        types.Money `json:"supervision"`
	Admin              types.Money `json:"admin"`
	Insurance          types.Money `json:"insurance"`
	Transport          types.Money `json:"transport"`
	Contingency        types.Money `json:"contingency"`
	SubtotalGeneral    types.Money `json:"subtotalGeneral"`
	Tax                types.Money `json:"tax"`
	GrandTotal         types.Money `json:"grandTotal"`
}

// FromBreakdown converts a calculation result to the display DTO.
func FromBreakdown(b billing.CalculationResult) *BreakdownResponse {
	return &BreakdownResponse{
		ItemsTotal:         types.Round2(b.ItemsTotal),
		TotalDiscounts:     types.Round2(b.TotalDiscounts),
		ItemsAfterDiscount: types.Round2(b.ItemsAfterDiscount),
		Supervision:        types.Round2(b.Supervision),
		Admin:              types.Round2(b.Admin),
		Insurance:          types.Round2(b.Insurance),
		Transport:          types.Round2(b.Transport),
		Contingency:        types.Round2(b.Contingency),
		SubtotalGeneral:    types.Round2(b.SubtotalGeneral),
		Tax:                types.Round2(b.Tax),
		GrandTotal:         types.Round2(b.GrandTotal),
	}
}

// QuoteResponse represents a quote in API responses.
type QuoteResponse struct {
	ID              string               `json:"id"`
	Number          string               `json:"number"`
	Date            time.Time            `json:"date"`
	ClientID        string               `json:"clientId"`
	ProjectName     *string              `json:"projectName,omitempty"`
	Status          string               `json:"status"`
	Notes           string               `json:"notes,omitempty"`
	PaymentTerms    *string              `json:"paymentTerms,omitempty"`
	ValidUntil      *time.Time           `json:"validUntil,omitempty"`
	IncludedCharges billing.ChargePolicy `json:"includedCharges"`
	TotalAmount     types.Money          `json:"totalAmount"`
	Items           []QuoteItemResponse  `json:"items"`
	Breakdown       *BreakdownResponse   `json:"breakdown,omitempty"`
	Version         int                  `json:"version"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// FromQuote converts domain entity to response DTO.
// The breakdown is included only when items are loaded.
func FromQuote(doc *quote.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		ID:              doc.ID.String(),
		Number:          doc.Number,
		Date:            doc.Date,
		ClientID:        doc.ClientID.String(),
		ProjectName:     doc.ProjectName,
		Status:          string(doc.Status),
		Notes:           doc.Notes,
		PaymentTerms:    doc.PaymentTerms,
		ValidUntil:      doc.ValidUntil,
		IncludedCharges: doc.IncludedCharges,
		TotalAmount:     doc.TotalAmount,
		Version:         doc.Version,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}

	resp.Items = make([]QuoteItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = QuoteItemResponse{
			LineID:        item.LineID.String(),
			LineNo:        item.LineNo,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  string(item.DiscountType),
			DiscountValue: item.DiscountValue,
			LineTotal:     types.Round2(item.LineItem().Total()),
		}
	}

	if len(doc.Items) > 0 {
		resp.Breakdown = FromBreakdown(doc.Breakdown())
	}

	return resp
}
