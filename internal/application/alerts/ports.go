package alerts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockEvent evento estructurado que recibe el colaborador de notificaciones
// cuando una regla dispara (creación de tarea + canal in-app aguas abajo).
type LowStockEvent struct {
	TenantID     string          `json:"tenant_id"`
	RuleID       string          `json:"rule_id"`
	StockItemID  string          `json:"stock_item_id"`
	ProductID    string          `json:"product_id"`
	ProductSKU   string          `json:"product_sku"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id,omitempty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	Channels     []string        `json:"channels"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// Notifier puerto hacia el colaborador de notificaciones. El evaluador lo invoca;
// sus errores jamás llegan al llamador que originó la mutación de stock.
type Notifier interface {
	PublishLowStock(ctx context.Context, ev LowStockEvent) error
	// Publish emite un evento genérico en el canal pub/sub del tenant.
	Publish(ctx context.Context, tenantID, eventType string, payload any) error
}
