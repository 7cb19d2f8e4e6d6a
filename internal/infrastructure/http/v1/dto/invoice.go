package dto

import (
	"time"

	"metpro/internal/core/types"
	"metpro/internal/domain/documents/invoice"
)

// --- Request DTOs ---

// CreatePaymentRequest represents a request to record a payment.
type CreatePaymentRequest struct {
	Amount      types.Money `json:"amount"`
	Method      string      `json:"method" binding:"required"`
	Notes       *string     `json:"notes,omitempty"`
	PaymentDate *time.Time  `json:"paymentDate,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreatePaymentRequest) ToEntity() *invoice.Payment {
	p := &invoice.Payment{
		Amount: r.Amount,
		Method: r.Method,
		Notes:  r.Notes,
	}
	if r.PaymentDate != nil {
		p.PaymentDate = *r.PaymentDate
	}
	return p
}

// --- Response DTOs ---

// InvoiceItemResponse represents a snapshotted line in API responses.
type InvoiceItemResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	ProductID   string      `json:"productId"`
	Description string      `json:"description"`
	Quantity    types.Money `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	Discount    types.Money `json:"discount"`
	Total       types.Money `json:"total"`
}

// InvoiceResponse represents an invoice in API responses.
// AmountDue is clamped at zero; Overpaid flags the clamp.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	Date         time.Time             `json:"date"`
	QuoteID      *string               `json:"quoteId,omitempty"`
	ClientID     string                `json:"clientId"`
	Status       string                `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	PaymentTerms *string               `json:"paymentTerms,omitempty"`
	ValidUntil   *time.Time            `json:"validUntil,omitempty"`
	TotalAmount  types.Money           `json:"totalAmount"`
	AmountPaid   types.Money           `json:"amountPaid"`
	AmountDue    types.Money           `json:"amountDue"`
	Overpaid     bool                  `json:"overpaid"`
	Items        []InvoiceItemResponse `json:"items"`
	Breakdown    *BreakdownResponse    `json:"breakdown,omitempty"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// FromInvoice converts domain entity to response DTO.
func FromInvoice(doc *invoice.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		Date:         doc.Date,
		ClientID:     doc.ClientID.String(),
		Status:       string(doc.Status),
		Notes:        doc.Notes,
		PaymentTerms: doc.PaymentTerms,
		ValidUntil:   doc.ValidUntil,
		TotalAmount:  doc.TotalAmount,
		AmountPaid:   doc.AmountPaid,
		AmountDue:    doc.DisplayAmountDue(),
		Overpaid:     doc.IsOverpaid(),
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	if doc.QuoteID != nil {
		s := doc.QuoteID.String()
		resp.QuoteID = &s
	}

	resp.Items = make([]InvoiceItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = InvoiceItemResponse{
			LineID:      item.LineID.String(),
			LineNo:      item.LineNo,
			ProductID:   item.ProductID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Total:       item.Total,
		}
	}

	if doc.Breakdown != nil {
		resp.Breakdown = FromBreakdown(*doc.Breakdown)
	}

	return resp
}

// PaymentResponse represents a recorded payment.
type PaymentResponse struct {
	ID          string      `json:"id"`
	InvoiceID   string      `json:"invoiceId"`
	Amount      types.Money `json:"amount"`
	Method      string      `json:"method"`
	Notes       *string     `json:"notes,omitempty"`
	PaymentDate time.Time   `json:"paymentDate"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// FromPayment converts domain entity to response DTO.
func FromPayment(p invoice.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		InvoiceID:   p.InvoiceID.String(),
		Amount:      p.Amount,
		Method:      p.Method,
		Notes:       p.Notes,
		PaymentDate: p.PaymentDate,
		CreatedAt:   p.CreatedAt,
	}
}

// DeleteInvoiceResponse reports the outcome of invoice deletion.
type DeleteInvoiceResponse struct {
	Success       bool `json:"success"`
	QuoteReverted bool `json:"quoteReverted"`
}
