package billing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(qty, price string, dt DiscountType, dv string) LineItem {
	return LineItem{
		ProductName:   "test product",
		Quantity:      decimal.RequireFromString(qty),
		UnitPrice:     decimal.RequireFromString(price),
		DiscountType:  dt,
		DiscountValue: decimal.RequireFromString(dv),
	}
}

func assertEq(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestCompute_AllDefaultCharges(t *testing.T) {
	items := []LineItem{item("2", "100", DiscountNone, "0")}
	res := Compute(items, DefaultChargePolicy())

	assertEq(t, "items total", res.ItemsTotal, decimal.NewFromInt(200))
	assertEq(t, "total discounts", res.TotalDiscounts, decimal.Zero)
	assertEq(t, "items after discount", res.ItemsAfterDiscount, decimal.NewFromInt(200))
	assertEq(t, "supervision", res.Supervision, decimal.NewFromInt(20))
	assertEq(t, "admin", res.Admin, decimal.NewFromInt(8))
	assertEq(t, "insurance", res.Insurance, decimal.NewFromInt(2))
	assertEq(t, "transport", res.Transport, decimal.NewFromInt(6))
	assertEq(t, "contingency", res.Contingency, decimal.NewFromInt(6))
	assertEq(t, "subtotal general", res.SubtotalGeneral, decimal.NewFromInt(242))
	assertEq(t, "tax", res.Tax, decimal.RequireFromString("43.56"))
	assertEq(t, "grand total", res.GrandTotal, decimal.RequireFromString("285.56"))
}

func TestCompute_PercentageDiscount(t *testing.T) {
	items := []LineItem{item("2", "100", DiscountPercentage, "50")}
	res := Compute(items, DefaultChargePolicy())

	assertEq(t, "total discounts", res.TotalDiscounts, decimal.NewFromInt(100))
	assertEq(t, "items after discount", res.ItemsAfterDiscount, decimal.NewFromInt(100))
	assertEq(t, "subtotal general", res.SubtotalGeneral, decimal.NewFromInt(121))
	assertEq(t, "tax", res.Tax, decimal.RequireFromString("21.78"))
	assertEq(t, "grand total", res.GrandTotal, decimal.RequireFromString("142.78"))
}

func TestCompute_FixedDiscount(t *testing.T) {
	items := []LineItem{
		item("1", "500", DiscountFixed, "50"),
		item("3", "10", DiscountNone, "0"),
	}
	res := Compute(items, DefaultChargePolicy())

	assertEq(t, "items total", res.ItemsTotal, decimal.NewFromInt(530))
	assertEq(t, "total discounts", res.TotalDiscounts, decimal.NewFromInt(50))
	assertEq(t, "items after discount", res.ItemsAfterDiscount, decimal.NewFromInt(480))
}

func TestCompute_UnrecognizedDiscountType(t *testing.T) {
	items := []LineItem{item("2", "100", DiscountType("coupon"), "99")}
	res := Compute(items, DefaultChargePolicy())

	assertEq(t, "total discounts", res.TotalDiscounts, decimal.Zero)
	assertEq(t, "items after discount", res.ItemsAfterDiscount, decimal.NewFromInt(200))
}

func TestCompute_Deterministic(t *testing.T) {
	items := []LineItem{
		item("2.5", "99.99", DiscountPercentage, "12.5"),
		item("1", "1234.56", DiscountFixed, "34.56"),
	}
	policy := DefaultChargePolicy()
	policy.Transport.Enabled = false

	first := Compute(items, policy)
	second := Compute(items, policy)

	if first.GrandTotal.String() != second.GrandTotal.String() {
		t.Errorf("grand total drifted: %s vs %s", first.GrandTotal, second.GrandTotal)
	}
	if first.Tax.String() != second.Tax.String() {
		t.Errorf("tax drifted: %s vs %s", first.Tax, second.Tax)
	}
}

func TestCompute_ChargeIndependence(t *testing.T) {
	items := []LineItem{item("4", "250", DiscountNone, "0")}
	policy := ChargePolicy{} // everything disabled

	res := Compute(items, policy)

	assertEq(t, "supervision", res.Supervision, decimal.Zero)
	assertEq(t, "contingency", res.Contingency, decimal.Zero)
	if !res.SubtotalGeneral.Equal(res.ItemsAfterDiscount) {
		t.Errorf("subtotal general %s should equal items after discount %s with all charges off",
			res.SubtotalGeneral, res.ItemsAfterDiscount)
	}
}

func TestCompute_ChargesShareSameBase(t *testing.T) {
	// Every charge is a percentage of items_after_discount, not compounded.
	items := []LineItem{item("1", "1000", DiscountNone, "0")}
	res := Compute(items, DefaultChargePolicy())

	base := decimal.NewFromInt(1000)
	assertEq(t, "supervision", res.Supervision, base.Mul(DefaultSupervisionPct).Div(decimal.NewFromInt(100)))
	assertEq(t, "contingency", res.Contingency, base.Mul(DefaultContingencyPct).Div(decimal.NewFromInt(100)))
}

func TestCompute_TaxInvariant(t *testing.T) {
	items := []LineItem{
		item("3", "333.33", DiscountPercentage, "7"),
		item("2", "18.75", DiscountFixed, "1.11"),
	}
	res := Compute(items, DefaultChargePolicy())

	factor := decimal.NewFromInt(1).Add(TaxRate)
	assertEq(t, "grand total", res.GrandTotal, res.SubtotalGeneral.Mul(factor))
}

func TestCompute_EmptyItems(t *testing.T) {
	res := Compute(nil, DefaultChargePolicy())

	assertEq(t, "items total", res.ItemsTotal, decimal.Zero)
	assertEq(t, "subtotal general", res.SubtotalGeneral, decimal.Zero)
	assertEq(t, "grand total", res.GrandTotal, decimal.Zero)
}

func TestCompute_NegativeAfterDiscountPassesThrough(t *testing.T) {
	// Discounts exceeding the item total are not clamped by the engine.
	items := []LineItem{item("1", "100", DiscountFixed, "150")}
	res := Compute(items, DefaultChargePolicy())

	assertEq(t, "items after discount", res.ItemsAfterDiscount, decimal.NewFromInt(-50))
	if !res.GrandTotal.IsNegative() {
		t.Errorf("expected negative grand total, got %s", res.GrandTotal)
	}
}
