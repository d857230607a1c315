package entity

import "time"

// Location representa una bodega, sucursal o punto de almacenamiento (multi-bodega).
type Location struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	IsActive  bool
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Usable indica si la ubicación puede recibir o entregar stock.
func (l *Location) Usable() bool {
	return l.IsActive && !l.IsDeleted
}
