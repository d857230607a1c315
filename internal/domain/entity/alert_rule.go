package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canales de notificación soportados por una regla de alerta.
const (
	AlertChannelTask  = "task"   // crea una tarea en el centro de notificaciones
	AlertChannelInApp = "in_app" // bandeja en tiempo real de la aplicación
)

// AlertRule umbral de stock bajo por tenant+producto, con ubicación opcional.
// LocationID vacío = la regla aplica a todas las ubicaciones del producto.
// A lo sumo una regla no eliminada por clave (tenant, producto, ubicación);
// el soft delete libera la clave conservando el historial.
// LastTriggeredAt lo muta únicamente el evaluador de alertas (cooldown por regla).
type AlertRule struct {
	ID              string
	TenantID        string
	ProductID       string
	LocationID      string
	MinQuantity     decimal.Decimal
	Channels        []string
	IsActive        bool
	IsDeleted       bool
	LastTriggeredAt *time.Time
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppliesTo indica si la regla cubre la ubicación dada (regla global o coincidencia exacta).
func (r *AlertRule) AppliesTo(locationID string) bool {
	return r.LocationID == "" || r.LocationID == locationID
}
