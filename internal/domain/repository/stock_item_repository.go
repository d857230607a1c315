package repository

import (
	"context"
	"time"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// StockItemFilter filtros para listar agregados de stock.
type StockItemFilter struct {
	LocationID   string
	ProductID    string
	LowStockOnly bool
	ActiveOnly   bool
}

// StockItemRepository puerto para el agregado de stock por tenant+producto+ubicación.
// GetByKeyForUpdate bloquea la fila (SELECT FOR UPDATE) y debe usarse dentro de una
// transacción; es la barrera contra lecturas-modificaciones concurrentes del mismo
// agregado.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByKey(ctx context.Context, tenantID, productID, locationID string) (*entity.StockItem, error)
	GetByKeyForUpdate(ctx context.Context, tenantID, productID, locationID string) (*entity.StockItem, error)
	// Update persiste cantidades, costos, bin y updated_at.
	Update(ctx context.Context, item *entity.StockItem) error
	// MarkLowStock enciende alerts.lowStock y sella alerts.lastAlertSent.
	MarkLowStock(ctx context.Context, id string, at time.Time) error
	// ClearLowStock apaga la bandera (reconocimiento manual del operador).
	ClearLowStock(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, tenantID string, f StockItemFilter, limit, offset int) ([]*entity.StockItem, int, error)
}
