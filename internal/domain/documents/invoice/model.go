// Package invoice provides the Invoice document and payment reconciliation.
// Invoices are born from approved quotes via conversion, then accumulate
// payments until their balance clears.
package invoice

import (
	"context"
	"time"

	"metpro/internal/core/apperror"
	"metpro/internal/core/entity"
	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain/billing"
)

// Invoice represents a bill issued to a client.
type Invoice struct {
	entity.Document

	// QuoteID references the originating quote (1:1, optional)
	QuoteID *id.ID `db:"quote_id" json:"quoteId,omitempty"`

	ClientID id.ID `db:"client_id" json:"clientId"`

	PaymentTerms *string    `db:"payment_terms" json:"paymentTerms,omitempty"`
	ValidUntil   *time.Time `db:"valid_until" json:"validUntil,omitempty"`

	// TotalAmount is the grand total at creation, rounded to 2dp
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// AmountPaid is always recomputed from the full payment history
	AmountPaid types.Money `db:"amount_paid" json:"amountPaid"`

	// AmountDue stores the true signed balance. Overpayment drives it
	// negative in storage; display clamping happens in the API layer.
	AmountDue types.Money `db:"amount_due" json:"amountDue"`

	Status Status `db:"status" json:"status"`

	// Table part: product-resolved snapshot written at conversion
	Items []InvoiceItem `db:"-" json:"items"`

	// Breakdown recomputed on read from the source quote, nil when the
	// quote no longer exists
	Breakdown *billing.CalculationResult `db:"-" json:"breakdown,omitempty"`
}

// InvoiceItem is a line snapshotted from the quote at conversion time,
// with the product name resolved to a durable product reference.
type InvoiceItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID       `db:"product_id" json:"productId"`
	Description string      `db:"description" json:"description"`
	Quantity    types.Money `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	Discount    types.Money `db:"discount" json:"discount"`
	Total       types.Money `db:"total" json:"total"`
}

// Payment is a recorded payment against an invoice.
// Immutable once recorded: there is no update path, only create.
type Payment struct {
	ID          id.ID       `db:"id" json:"id"`
	InvoiceID   id.ID       `db:"invoice_id" json:"invoiceId"`
	Amount      types.Money `db:"amount" json:"amount"`
	Method      string      `db:"method" json:"method"`
	Notes       *string     `db:"notes" json:"notes,omitempty"`
	PaymentDate time.Time   `db:"payment_date" json:"paymentDate"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// NewInvoice creates a Pending invoice.
func NewInvoice(clientID id.ID, total types.Money) *Invoice {
	return &Invoice{
		Document:    entity.NewDocument(),
		ClientID:    clientID,
		TotalAmount: total,
		AmountPaid:  types.Zero(),
		AmountDue:   total,
		Status:      StatusPending,
		Items:       make([]InvoiceItem, 0),
	}
}

// DisplayAmountDue clamps the balance at zero for presentation.
func (inv *Invoice) DisplayAmountDue() types.Money {
	if inv.AmountDue.IsNegative() {
		return types.Zero()
	}
	return inv.AmountDue
}

// IsOverpaid reports whether payments exceed the invoice total.
func (inv *Invoice) IsOverpaid() bool {
	return inv.AmountDue.IsNegative()
}

// Reconcile folds the full payment sum into the balance and derives status.
func (inv *Invoice) Reconcile(totalPaid types.Money) {
	inv.AmountPaid = totalPaid
	inv.AmountDue = inv.TotalAmount.Sub(totalPaid)
	inv.Status = DeriveFromBalance(inv.Status, !inv.AmountDue.IsPositive())
	inv.Touch()
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}

	if !validStatuses[inv.Status] {
		return apperror.NewValidation("invalid invoice status").
			WithDetail("field", "status").
			WithDetail("value", string(inv.Status))
	}

	return nil
}
