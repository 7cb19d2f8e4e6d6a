// Package quote provides the Quote document: a priced offer that moves
// through Draft, Sent, Approved and is eventually converted to an invoice.
package quote

import (
	"context"
	"time"

	"metpro/internal/core/apperror"
	"metpro/internal/core/entity"
	"metpro/internal/core/id"
	"metpro/internal/core/types"
	"metpro/internal/domain/billing"
)

// Quote represents a priced offer to a client.
type Quote struct {
	entity.Document

	// Client reference
	ClientID id.ID `db:"client_id" json:"clientId"`

	// ProjectName is an optional free-form project label
	ProjectName *string `db:"project_name" json:"projectName,omitempty"`

	Status Status `db:"status" json:"status"`

	// PaymentTerms carried over to the invoice at conversion
	PaymentTerms *string `db:"payment_terms" json:"paymentTerms,omitempty"`

	// ValidUntil is the offer expiry date
	ValidUntil *time.Time `db:"valid_until" json:"validUntil,omitempty"`

	// IncludedCharges is the charge policy applied on every recalculation
	IncludedCharges billing.ChargePolicy `db:"included_charges" json:"includedCharges"`

	// TotalAmount is the grand total snapshot at last save, rounded to 2dp
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: line items
	Items []QuoteItem `db:"-" json:"items"`
}

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductName   string               `db:"product_name" json:"productName"`
	Quantity      types.Money          `db:"quantity" json:"quantity"`
	UnitPrice     types.Money          `db:"unit_price" json:"unitPrice"`
	DiscountType  billing.DiscountType `db:"discount_type" json:"discountType"`
	DiscountValue types.Money          `db:"discount_value" json:"discountValue"`
}

// LineItem converts the row to the calculation engine's input type.
func (qi QuoteItem) LineItem() billing.LineItem {
	return billing.LineItem{
		ProductName:   qi.ProductName,
		Quantity:      qi.Quantity,
		UnitPrice:     qi.UnitPrice,
		DiscountType:  qi.DiscountType,
		DiscountValue: qi.DiscountValue,
	}
}

// NewQuote creates a new Draft quote.
func NewQuote(clientID id.ID) *Quote {
	return &Quote{
		Document:        entity.NewDocument(),
		ClientID:        clientID,
		Status:          StatusDraft,
		IncludedCharges: billing.DefaultChargePolicy(),
		Items:           make([]QuoteItem, 0),
	}
}

// LineItems converts all rows to calculation engine inputs.
func (q *Quote) LineItems() []billing.LineItem {
	items := make([]billing.LineItem, len(q.Items))
	for i, qi := range q.Items {
		items[i] = qi.LineItem()
	}
	return items
}

// Breakdown runs the calculation engine over current items and charges.
func (q *Quote) Breakdown() billing.CalculationResult {
	return billing.Compute(q.LineItems(), q.IncludedCharges)
}

// Recalculate refreshes TotalAmount from the breakdown.
// Only the persisted snapshot is rounded; the breakdown stays exact.
func (q *Quote) Recalculate() {
	q.TotalAmount = types.Round2(q.Breakdown().GrandTotal)
}

// IsEditable reports whether items and charges may still change.
func (q *Quote) IsEditable() bool {
	return q.Status == StatusDraft
}

// Validate implements entity.Validatable.
func (q *Quote) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(q.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}

	if len(q.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range q.Items {
		if item.ProductName == "" {
			return apperror.NewValidation("product name is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Quantity.IsNegative() {
			return apperror.NewValidation("quantity cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.DiscountValue.IsNegative() {
			return apperror.NewValidation("discount value cannot be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if !item.DiscountType.Valid() {
			return apperror.NewValidation("invalid discount type").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("value", string(item.DiscountType))
		}
		if item.DiscountType == billing.DiscountPercentage &&
			item.DiscountValue.GreaterThan(types.MustMoney("100")) {
			return apperror.NewValidation("percentage discount cannot exceed 100").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	if err := q.IncludedCharges.Validate(); err != nil {
		return apperror.NewValidation(err.Error()).
			WithDetail("field", "includedCharges")
	}

	return nil
}
