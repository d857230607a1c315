package entity

import "time"

// Product representa un producto o SKU del catálogo (colaborador externo del núcleo
// de inventario; aquí solo se valida existencia y estado).
type Product struct {
	ID          string
	TenantID    string
	SKU         string // código único por tenant
	Name        string
	UnitMeasure string
	IsActive    bool
	IsDeleted   bool // soft delete: conserva historial
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Usable indica si el producto puede participar en movimientos de stock.
func (p *Product) Usable() bool {
	return p.IsActive && !p.IsDeleted
}
