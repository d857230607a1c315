package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL. Las entradas son
// inmutables: solo INSERT, más la excepción puntual de SetLinkedEntry.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, tenant_id, stock_item_id, product_id, product_sku, location_id,
		type, quantity, unit_cost, total_cost, reason, reference, order_id,
		transfer_id, linked_entry_id, from_location_id, to_location_id,
		balance_total, balance_available, balance_reserved, balance_avg_cost,
		created_by, created_at`

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := row.Scan(
		&e.ID, &e.TenantID, &e.StockItemID, &e.ProductID, &e.ProductSKU, &e.LocationID,
		&e.Type, &e.Quantity, &e.UnitCost, &e.TotalCost, &e.Reason, &e.Reference, &e.OrderID,
		&e.TransferID, &e.LinkedEntryID, &e.FromLocationID, &e.ToLocationID,
		&e.BalanceAfter.TotalQuantity, &e.BalanceAfter.AvailableQuantity,
		&e.BalanceAfter.ReservedQuantity, &e.BalanceAfter.AverageCostPrice,
		&e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserta una entrada del ledger.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO inventory_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.StockItemID, e.ProductID, e.ProductSKU, e.LocationID,
		e.Type, e.Quantity, e.UnitCost, e.TotalCost, e.Reason, e.Reference, e.OrderID,
		e.TransferID, e.LinkedEntryID, e.FromLocationID, e.ToLocationID,
		e.BalanceAfter.TotalQuantity, e.BalanceAfter.AvailableQuantity,
		e.BalanceAfter.ReservedQuantity, e.BalanceAfter.AverageCostPrice,
		e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID devuelve la entrada o (nil, nil) si no existe.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM inventory_ledger WHERE id = $1`
	e, err := scanLedgerEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// SetLinkedEntry puebla la referencia a la otra mitad del traslado. Solo escribe si
// el campo sigue vacío; las entradas del ledger no se reescriben.
func (r *LedgerRepo) SetLinkedEntry(ctx context.Context, id, linkedEntryID string) error {
	query := `UPDATE inventory_ledger SET linked_entry_id = $2 WHERE id = $1 AND linked_entry_id = ''`
	_, err := r.q.Exec(ctx, query, id, linkedEntryID)
	if err != nil {
		return fmt.Errorf("set linked entry: %w", err)
	}
	return nil
}

// List devuelve entradas del tenant más recientes primero, con total para paginar.
func (r *LedgerRepo) List(ctx context.Context, tenantID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, int, error) {
	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	if f.OrderID != "" {
		args = append(args, f.OrderID)
		where += fmt.Sprintf(" AND order_id = $%d", len(args))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_ledger `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+ledgerColumns+` FROM inventory_ledger %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// ListReservationsByOrder devuelve las reservas registradas para una orden,
// en orden de creación.
func (r *LedgerRepo) ListReservationsByOrder(ctx context.Context, tenantID, orderID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + ` FROM inventory_ledger
		WHERE tenant_id = $1 AND order_id = $2 AND type = $3
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, orderID, entity.MovementTypeRESERVATION)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HasOutForOrder indica si la orden ya tiene salidas registradas (guarda de idempotencia).
func (r *LedgerRepo) HasOutForOrder(ctx context.Context, tenantID, orderID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM inventory_ledger
			WHERE tenant_id = $1 AND order_id = $2 AND type = $3
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, tenantID, orderID, entity.MovementTypeOUT).Scan(&exists); err != nil {
		return false, fmt.Errorf("check out movements for order: %w", err)
	}
	return exists, nil
}
