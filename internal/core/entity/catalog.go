package entity

import (
	"context"

	"metpro/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Client, Product.
type Catalog struct {
	BaseCatalog

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Name:        name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
