package billing

import (
	"github.com/shopspring/decimal"

	"metpro/internal/core/types"
)

// TaxRate is the ITBIS value-added tax applied to the post-charge subtotal.
// Domain constant, not configuration.
var TaxRate = decimal.NewFromFloat(0.18)

// CalculationResult is the full monetary breakdown of a document.
// Entirely derived: never persisted on its own, recomputed on every read.
type CalculationResult struct {
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

// Compute turns line items and a charge policy into a reconciled breakdown.
// Pure and deterministic: no I/O, no clamping, no intermediate rounding.
// Every charge is a percentage of items_after_discount, never of a running
// subtotal. Empty input yields an all-zero result, negative intermediates
// pass through unchanged; validation is the caller's job.
func Compute(items []LineItem, policy ChargePolicy) CalculationResult {
	itemsTotal := decimal.Zero
	totalDiscounts := decimal.Zero
	for _, li := range items {
		itemsTotal = itemsTotal.Add(li.Subtotal())
		totalDiscounts = totalDiscounts.Add(li.Discount())
	}

	afterDiscount := itemsTotal.Sub(totalDiscounts)

	supervision := policy.Supervision.Amount(afterDiscount)
	admin := policy.Admin.Amount(afterDiscount)
	insurance := policy.Insurance.Amount(afterDiscount)
	transport := policy.Transport.Amount(afterDiscount)
	contingency := policy.Contingency.Amount(afterDiscount)

	subtotalGeneral := afterDiscount.
		Add(supervision).
		Add(admin).
		Add(insurance).
		Add(transport).
		Add(contingency)

	tax := subtotalGeneral.Mul(TaxRate)
	grandTotal := subtotalGeneral.Add(tax)

	return CalculationResult{
		ItemsTotal:         itemsTotal,
		TotalDiscounts:     totalDiscounts,
		ItemsAfterDiscount: afterDiscount,
		Supervision:        supervision,
		Admin:              admin,
		Insurance:          insurance,
		Transport:          transport,
		Contingency:        contingency,
		SubtotalGeneral:    subtotalGeneral,
		Tax:                tax,
		GrandTotal:         grandTotal,
	}
}
