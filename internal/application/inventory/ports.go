package inventory

import (
	"context"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Es la garantía de atomicidad del motor de inventario: agregado y
// ledger se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// AlertDispatcher encola la evaluación de alertas tras una mutación exitosa.
// El encolado no bloquea ni devuelve error: la evaluación jamás afecta al llamador.
type AlertDispatcher interface {
	Enqueue(job alerts.Job)
}
