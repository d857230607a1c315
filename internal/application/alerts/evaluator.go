package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

// Evaluator compara un agregado de stock contra sus reglas y dispara notificaciones
// suprimidas por cooldown. El cooldown es por regla: una regla global y una regla de
// ubicación sobre el mismo agregado suprimen de forma independiente.
type Evaluator struct {
	stockRepo repository.StockItemRepository
	ruleRepo  repository.AlertRuleRepository
	notifier  Notifier
	cooldown  time.Duration
	log       *logger.Logger
}

// NewEvaluator construye el evaluador. cooldown es el tiempo mínimo entre dos
// disparos de la misma regla.
func NewEvaluator(
	stockRepo repository.StockItemRepository,
	ruleRepo repository.AlertRuleRepository,
	notifier Notifier,
	cooldown time.Duration,
	log *logger.Logger,
) *Evaluator {
	return &Evaluator{
		stockRepo: stockRepo,
		ruleRepo:  ruleRepo,
		notifier:  notifier,
		cooldown:  cooldown,
		log:       log,
	}
}

// Evaluate recarga el agregado, selecciona las reglas vigentes (globales o de su
// ubicación) y dispara las que cruzan umbral fuera de cooldown. Devuelve cuántas
// dispararon. Si alguna disparó, sella alerts.lowStock y alerts.lastAlertSent en el
// agregado; la bandera nunca se apaga aquí aunque el stock se recupere.
func (e *Evaluator) Evaluate(ctx context.Context, tenantID, stockItemID, actorID string) (int, error) {
	item, err := e.stockRepo.GetByID(ctx, stockItemID)
	if err != nil {
		return 0, fmt.Errorf("cargar stock item: %w", err)
	}
	if item == nil || item.TenantID != tenantID {
		return 0, domain.ErrNotFound
	}

	rules, err := e.ruleRepo.ListMatching(ctx, tenantID, item.ProductID, item.LocationID)
	if err != nil {
		return 0, fmt.Errorf("cargar reglas: %w", err)
	}

	now := time.Now()
	fired := 0
	for _, rule := range rules {
		if item.AvailableQuantity.GreaterThan(rule.MinQuantity) {
			continue
		}
		if rule.LastTriggeredAt != nil && now.Sub(*rule.LastTriggeredAt) < e.cooldown {
			continue
		}

		ev := LowStockEvent{
			TenantID:     tenantID,
			RuleID:       rule.ID,
			StockItemID:  item.ID,
			ProductID:    item.ProductID,
			ProductSKU:   item.ProductSKU,
			ProductName:  item.ProductName,
			LocationID:   item.LocationID,
			CurrentStock: item.AvailableQuantity,
			MinQuantity:  rule.MinQuantity,
			Channels:     rule.Channels,
			OccurredAt:   now,
		}
		if err := e.notifier.PublishLowStock(ctx, ev); err != nil {
			return fired, fmt.Errorf("notificar stock bajo (regla %s): %w", rule.ID, err)
		}
		if err := e.ruleRepo.TouchLastTriggered(ctx, rule.ID, now); err != nil {
			return fired, fmt.Errorf("sellar last_triggered_at (regla %s): %w", rule.ID, err)
		}
		fired++

		e.log.Info().
			Str("tenant_id", tenantID).
			Str("rule_id", rule.ID).
			Str("product_sku", item.ProductSKU).
			Str("available", item.AvailableQuantity.String()).
			Str("min_quantity", rule.MinQuantity.String()).
			Msg("alerta de stock bajo disparada")
	}

	if fired > 0 {
		if err := e.stockRepo.MarkLowStock(ctx, item.ID, now); err != nil {
			return fired, fmt.Errorf("marcar lowStock: %w", err)
		}
	}
	return fired, nil
}
