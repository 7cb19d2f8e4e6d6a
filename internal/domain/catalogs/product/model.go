// Package product provides the Product catalog.
// Quote line items reference products by name; invoice conversion resolves
// those names to product rows and refuses to invoice phantom products.
package product

import (
	"context"

	"metpro/internal/core/apperror"
	"metpro/internal/core/entity"
	"metpro/internal/core/types"
)

// Product represents a sellable good or service.
type Product struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`

	// Unit of measure (e.g. "m2", "bag", "hour")
	Unit string `db:"unit" json:"unit"`

	// UnitPrice is the list price used to prefill quote items
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(name, unit string, unitPrice types.Money) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(name),
		Unit:      unit,
		UnitPrice: unitPrice,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	return nil
}
