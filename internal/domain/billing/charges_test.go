package billing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func chargeEqual(a, b Charge) bool {
	return a.Enabled == b.Enabled && a.Percentage.Equal(b.Percentage)
}

func policyEqual(a, b ChargePolicy) bool {
	return chargeEqual(a.Supervision, b.Supervision) &&
		chargeEqual(a.Admin, b.Admin) &&
		chargeEqual(a.Insurance, b.Insurance) &&
		chargeEqual(a.Transport, b.Transport) &&
		chargeEqual(a.Contingency, b.Contingency)
}

func TestChargePolicy_UnmarshalDefaults(t *testing.T) {
	var policy ChargePolicy
	if err := json.Unmarshal([]byte(`{}`), &policy); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !policyEqual(policy, DefaultChargePolicy()) {
		t.Errorf("empty object should resolve to default policy, got %+v", policy)
	}
}

func TestChargePolicy_MissingKeyEqualsExplicitDefault(t *testing.T) {
	// A policy without supervision_percentage must compute identically to one
	// carrying the documented default explicitly.
	var implicit, explicit ChargePolicy
	if err := json.Unmarshal([]byte(`{"supervision": true}`), &implicit); err != nil {
		t.Fatalf("unmarshal implicit: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"supervision": true, "supervision_percentage": 10.0}`), &explicit); err != nil {
		t.Fatalf("unmarshal explicit: %v", err)
	}

	items := []LineItem{item("2", "100", DiscountNone, "0")}
	a := Compute(items, implicit)
	b := Compute(items, explicit)
	if !a.GrandTotal.Equal(b.GrandTotal) {
		t.Errorf("missing key produced %s, explicit default produced %s", a.GrandTotal, b.GrandTotal)
	}
}

func TestChargePolicy_ExplicitDisable(t *testing.T) {
	var policy ChargePolicy
	raw := `{"supervision": false, "transport": false, "transport_percentage": 8}`
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if policy.Supervision.Enabled {
		t.Error("supervision should be disabled")
	}
	if policy.Transport.Enabled {
		t.Error("transport should be disabled")
	}
	if !policy.Transport.Percentage.Equal(decimal.NewFromInt(8)) {
		t.Errorf("transport percentage = %s, want 8", policy.Transport.Percentage)
	}
	if !policy.Admin.Enabled || !policy.Admin.Percentage.Equal(DefaultAdminPct) {
		t.Errorf("admin should stay at default, got %+v", policy.Admin)
	}
}

func TestChargePolicy_MarshalRoundTrip(t *testing.T) {
	policy := DefaultChargePolicy()
	policy.Insurance.Enabled = false
	policy.Contingency.Percentage = decimal.RequireFromString("2.5")

	data, err := json.Marshal(policy)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored ChargePolicy
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if restored.Insurance.Enabled {
		t.Error("insurance disabled flag lost in round trip")
	}
	if !restored.Contingency.Percentage.Equal(policy.Contingency.Percentage) {
		t.Errorf("contingency percentage = %s, want %s",
			restored.Contingency.Percentage, policy.Contingency.Percentage)
	}
}

func TestChargePolicy_ScanNull(t *testing.T) {
	var policy ChargePolicy
	if err := policy.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !policyEqual(policy, DefaultChargePolicy()) {
		t.Errorf("NULL column should scan to default policy, got %+v", policy)
	}
}

func TestChargePolicy_Validate(t *testing.T) {
	policy := DefaultChargePolicy()
	if err := policy.Validate(); err != nil {
		t.Errorf("default policy should validate, got %v", err)
	}

	policy.Admin.Percentage = decimal.NewFromInt(150)
	if err := policy.Validate(); err == nil {
		t.Error("percentage above 100 should fail validation")
	}

	policy = DefaultChargePolicy()
	policy.Transport.Percentage = decimal.NewFromInt(-1)
	if err := policy.Validate(); err == nil {
		t.Error("negative percentage should fail validation")
	}
}
