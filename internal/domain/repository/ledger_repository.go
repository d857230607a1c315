package repository

import (
	"context"
	"time"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// LedgerFilter filtros para consultar el ledger (todos opcionales).
type LedgerFilter struct {
	Type       string
	ProductID  string
	LocationID string
	OrderID    string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// LedgerRepository puerto del log inmutable de movimientos. Las entradas nunca se
// actualizan ni borran; la única excepción es SetLinkedEntry, que puebla una sola vez
// la referencia cruzada entre las dos mitades de un traslado.
type LedgerRepository interface {
	Create(ctx context.Context, e *entity.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	SetLinkedEntry(ctx context.Context, id, linkedEntryID string) error
	// List devuelve entradas del tenant más recientes primero, con total para paginar.
	List(ctx context.Context, tenantID string, f LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, int, error)
	// ListReservationsByOrder devuelve las reservas registradas para una orden.
	ListReservationsByOrder(ctx context.Context, tenantID, orderID string) ([]*entity.LedgerEntry, error)
	// HasOutForOrder guarda de idempotencia: true si la orden ya descontó stock.
	HasOutForOrder(ctx context.Context, tenantID, orderID string) (bool, error)
}
