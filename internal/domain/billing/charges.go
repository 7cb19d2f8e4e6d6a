package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"metpro/internal/core/types"
)

// Default charge percentages applied when a policy omits a key.
var (
	DefaultSupervisionPct = decimal.NewFromInt(10)
	DefaultAdminPct       = decimal.NewFromInt(4)
	DefaultInsurancePct   = decimal.NewFromInt(1)
	DefaultTransportPct   = decimal.NewFromInt(3)
	DefaultContingencyPct = decimal.NewFromInt(3)
)

// Charge is one additional charge toggle plus its percentage of the
// discounted items total.
type Charge struct {
	Enabled    bool        `json:"enabled"`
	Percentage types.Money `json:"percentage"`
}

// Amount returns the charge computed over the given base, zero when disabled.
func (c Charge) Amount(base types.Money) types.Money {
	if !c.Enabled {
		return decimal.Zero
	}
	return base.Mul(c.Percentage).Div(decimal.NewFromInt(100))
}

// ChargePolicy is the set of additional charges a quote carries.
// It is stored as a flat JSONB object with per-charge enabled flags and
// percentage keys; any key absent from the stored object resolves to its
// default, so policies written by older clients keep computing the same way.
type ChargePolicy struct {
	Supervision Charge
	Admin       Charge
	Insurance   Charge
	Transport   Charge
	Contingency Charge
}

// DefaultChargePolicy returns the policy applied when a quote specifies
// nothing: every charge enabled at its default percentage.
func DefaultChargePolicy() ChargePolicy {
	return ChargePolicy{
		Supervision: Charge{Enabled: true, Percentage: DefaultSupervisionPct},
		Admin:       Charge{Enabled: true, Percentage: DefaultAdminPct},
		Insurance:   Charge{Enabled: true, Percentage: DefaultInsurancePct},
		Transport:   Charge{Enabled: true, Percentage: DefaultTransportPct},
		Contingency: Charge{Enabled: true, Percentage: DefaultContingencyPct},
	}
}

// chargeWire is the flat JSON layout of a policy. Pointer fields let
// UnmarshalJSON distinguish absent keys from explicit false/zero.
type chargeWire struct {
	Supervision    *bool            `json:"supervision,omitempty"`
	SupervisionPct *decimal.Decimal `json:"supervision_percentage,omitempty"`
	Admin          *bool            `json:"admin,omitempty"`
	AdminPct       *decimal.Decimal `json:"admin_percentage,omitempty"`
	Insurance      *bool            `json:"insurance,omitempty"`
	InsurancePct   *decimal.Decimal `json:"insurance_percentage,omitempty"`
	Transport      *bool            `json:"transport,omitempty"`
	TransportPct   *decimal.Decimal `json:"transport_percentage,omitempty"`
	Contingency    *bool            `json:"contingency,omitempty"`
	ContingencyPct *decimal.Decimal `json:"contingency_percentage,omitempty"`
}

func overlayCharge(dst *Charge, enabled *bool, pct *decimal.Decimal) {
	if enabled != nil {
		dst.Enabled = *enabled
	}
	if pct != nil {
		dst.Percentage = *pct
	}
}

// UnmarshalJSON overlays the wire object onto the default policy.
func (p *ChargePolicy) UnmarshalJSON(data []byte) error {
	var w chargeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	policy := DefaultChargePolicy()
	overlayCharge(&policy.Supervision, w.Supervision, w.SupervisionPct)
	overlayCharge(&policy.Admin, w.Admin, w.AdminPct)
	overlayCharge(&policy.Insurance, w.Insurance, w.InsurancePct)
	overlayCharge(&policy.Transport, w.Transport, w.TransportPct)
	overlayCharge(&policy.Contingency, w.Contingency, w.ContingencyPct)

	*p = policy
	return nil
}

// MarshalJSON writes every key explicitly so the stored form is self-contained.
func (p ChargePolicy) MarshalJSON() ([]byte, error) {
	w := chargeWire{
		Supervision:    &p.Supervision.Enabled,
		SupervisionPct: &p.Supervision.Percentage,
		Admin:          &p.Admin.Enabled,
		AdminPct:       &p.Admin.Percentage,
		Insurance:      &p.Insurance.Enabled,
		InsurancePct:   &p.Insurance.Percentage,
		Transport:      &p.Transport.Enabled,
		TransportPct:   &p.Transport.Percentage,
		Contingency:    &p.Contingency.Enabled,
		ContingencyPct: &p.Contingency.Percentage,
	}
	return json.Marshal(w)
}

// Value implements driver.Valuer for the JSONB column.
func (p ChargePolicy) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for the JSONB column.
// NULL scans to the default policy.
func (p *ChargePolicy) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = DefaultChargePolicy()
		return nil
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported charge policy source type %T", src)
	}
}

// Validate checks every enabled percentage is within 0..100.
func (p ChargePolicy) Validate() error {
	hundred := decimal.NewFromInt(100)
	for name, c := range map[string]Charge{
		"supervision": p.Supervision,
		"admin":       p.Admin,
		"insurance":   p.Insurance,
		"transport":   p.Transport,
		"contingency": p.Contingency,
	} {
		if c.Percentage.IsNegative() || c.Percentage.GreaterThan(hundred) {
			return fmt.Errorf("%s percentage must be between 0 and 100", name)
		}
	}
	return nil
}
