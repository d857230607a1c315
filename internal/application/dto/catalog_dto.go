package dto

import (
	"time"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}

// UpdateProductRequest body para PATCH /api/products/:id (parcial).
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	UnitMeasure *string `json:"unit_measure,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ProductDTO representación HTTP de un producto.
type ProductDTO struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	UnitMeasure string    `json:"unit_measure,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductDTO convierte la entidad a su representación HTTP.
func NewProductDTO(p *entity.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		UnitMeasure: p.UnitMeasure,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// UpdateLocationRequest body para PATCH /api/locations/:id (parcial).
type UpdateLocationRequest struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// LocationDTO representación HTTP de una ubicación.
type LocationDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLocationDTO convierte la entidad a su representación HTTP.
func NewLocationDTO(l *entity.Location) LocationDTO {
	return LocationDTO{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
