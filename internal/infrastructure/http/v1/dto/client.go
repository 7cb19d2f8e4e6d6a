package dto

import (
	"time"

	"metpro/internal/domain/catalogs/client"
)

// --- Request DTOs ---

// CreateClientRequest represents a request to create a client.
type CreateClientRequest struct {
	Name        string  `json:"name" binding:"required"`
	ContactName *string `json:"contactName,omitempty"`
	RNC         *string `json:"rnc,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateClientRequest) ToEntity() *client.Client {
	c := client.NewClient(r.Name)
	c.ContactName = r.ContactName
	c.RNC = r.RNC
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	return c
}

// UpdateClientRequest represents a request to update a client.
type UpdateClientRequest struct {
	Name        *string `json:"name,omitempty"`
	ContactName *string `json:"contactName,omitempty"`
	RNC         *string `json:"rnc,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateClientRequest) ApplyTo(c *client.Client) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.ContactName != nil {
		c.ContactName = r.ContactName
	}
	if r.RNC != nil {
		c.RNC = r.RNC
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Address != nil {
		c.Address = r.Address
	}
}

// --- Response DTOs ---

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contactName,omitempty"`
	RNC         *string   `json:"rnc,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromClient converts domain entity to response DTO.
func FromClient(c *client.Client) *ClientResponse {
	return &ClientResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		ContactName: c.ContactName,
		RNC:         c.RNC,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
