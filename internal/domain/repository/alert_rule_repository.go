package repository

import (
	"context"
	"time"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// AlertRuleFilter filtros para listar reglas. LocationID coincide con reglas de esa
// ubicación o reglas globales (sin ubicación).
type AlertRuleFilter struct {
	ProductID  string
	LocationID string
	ActiveOnly bool
}

// AlertRuleRepository puerto de persistencia de reglas de alerta de stock bajo.
type AlertRuleRepository interface {
	Create(ctx context.Context, rule *entity.AlertRule) error
	GetByID(ctx context.Context, id string) (*entity.AlertRule, error)
	// GetLiveByKey devuelve la regla no eliminada para la clave exacta
	// (tenant, producto, ubicación); ubicación vacía es su propia clave.
	GetLiveByKey(ctx context.Context, tenantID, productID, locationID string) (*entity.AlertRule, error)
	Update(ctx context.Context, rule *entity.AlertRule) error
	// SoftDelete marca is_deleted, apaga is_active y limpia last_triggered_at,
	// liberando la clave para una regla nueva.
	SoftDelete(ctx context.Context, id string) error
	// ListMatching reglas activas no eliminadas del producto cuya ubicación está
	// vacía o coincide con la dada (las que el evaluador debe considerar).
	ListMatching(ctx context.Context, tenantID, productID, locationID string) ([]*entity.AlertRule, error)
	List(ctx context.Context, tenantID string, f AlertRuleFilter, limit, offset int) ([]*entity.AlertRule, int, error)
	// TouchLastTriggered sella last_triggered_at; solo lo invoca el evaluador.
	TouchLastTriggered(ctx context.Context, id string, at time.Time) error
}
