// Package billing holds the pricing primitives shared by quotes and
// invoices: line items with discounts, the additional charge policy, and
// the deterministic calculation pipeline that turns both into totals.
package billing

import (
	"github.com/shopspring/decimal"

	"metpro/internal/core/types"
)

// DiscountType identifies how a line item discount is interpreted.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether the discount type is one of the known values.
func (d DiscountType) Valid() bool {
	switch d {
	case DiscountNone, DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}

// LineItem is a single priced row of a quote.
type LineItem struct {
	ProductName   string       `json:"productName"`
	Quantity      types.Money  `json:"quantity"`
	UnitPrice     types.Money  `json:"unitPrice"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue types.Money  `json:"discountValue"`
}

// Subtotal returns quantity times unit price, before any discount.
func (li LineItem) Subtotal() types.Money {
	return li.Quantity.Mul(li.UnitPrice)
}

// Discount returns the monetary discount for this line.
// Percentage discounts apply to the line subtotal, fixed discounts are
// taken verbatim. An unrecognized type yields zero, never an error.
func (li LineItem) Discount() types.Money {
	switch li.DiscountType {
	case DiscountPercentage:
		return li.Subtotal().Mul(li.DiscountValue).Div(decimal.NewFromInt(100))
	case DiscountFixed:
		return li.DiscountValue
	default:
		return decimal.Zero
	}
}

// Total returns the line amount after discount.
func (li LineItem) Total() types.Money {
	return li.Subtotal().Sub(li.Discount())
}
