package dto

import (
	"time"

	"metpro/internal/core/types"
	"metpro/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description *string     `json:"description,omitempty"`
	Unit        string      `json:"unit" binding:"required"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// ToEntity converts request to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Name, r.Unit, r.UnitPrice)
	p.Description = r.Description
	return p
}

// UpdateProductRequest represents a request to update a product.
type UpdateProductRequest struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Unit        *string      `json:"unit,omitempty"`
	UnitPrice   *types.Money `json:"unitPrice,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
}

// --- Response DTOs ---

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Unit        string      `json:"unit"`
	UnitPrice   types.Money `json:"unitPrice"`
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FromProduct converts domain entity to response DTO.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
