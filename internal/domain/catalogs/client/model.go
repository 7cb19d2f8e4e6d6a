// Package client provides the Client catalog.
// Clients are the companies quotes and invoices are billed to.
package client

import (
	"context"
	"strings"

	"metpro/internal/core/apperror"
	"metpro/internal/core/entity"
)

// Client represents a billed company.
type Client struct {
	entity.Catalog

	// ContactName is the primary contact person
	ContactName *string `db:"contact_name" json:"contactName,omitempty"`

	// RNC is the national taxpayer registry number
	RNC *string `db:"rnc" json:"rnc,omitempty"`

	Email   *string `db:"email" json:"email,omitempty"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
	Address *string `db:"address" json:"address,omitempty"`
}

// NewClient creates a new Client with required fields.
func NewClient(name string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(name),
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != nil && *c.Email != "" && !strings.Contains(*c.Email, "@") {
		return apperror.NewValidation("invalid email address").
			WithDetail("field", "email")
	}

	return nil
}
