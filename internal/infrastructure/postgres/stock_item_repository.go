package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, tenant_id, product_id, product_sku, product_name, location_id, bin,
		total_quantity, available_quantity, reserved_quantity, average_cost_price, last_cost_price,
		is_active, low_stock, last_alert_sent, created_by, created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(
		&s.ID, &s.TenantID, &s.ProductID, &s.ProductSKU, &s.ProductName, &s.LocationID, &s.Bin,
		&s.TotalQuantity, &s.AvailableQuantity, &s.ReservedQuantity, &s.AverageCostPrice, &s.LastCostPrice,
		&s.IsActive, &s.Alerts.LowStock, &s.Alerts.LastAlertSent, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta el agregado. Clave tenant+producto+ubicación duplicada devuelve ErrConflict.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.TenantID, item.ProductID, item.ProductSKU, item.ProductName, item.LocationID, item.Bin,
		item.TotalQuantity, item.AvailableQuantity, item.ReservedQuantity, item.AverageCostPrice, item.LastCostPrice,
		item.IsActive, item.Alerts.LowStock, item.Alerts.LastAlertSent, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// GetByID devuelve el agregado o (nil, nil) si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	s, err := scanStockItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return s, nil
}

// GetByKey devuelve el agregado por tenant+producto+ubicación o (nil, nil).
func (r *StockItemRepo) GetByKey(ctx context.Context, tenantID, productID, locationID string) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + ` FROM stock_items
		WHERE tenant_id = $1 AND product_id = $2 AND location_id = $3`
	s, err := scanStockItem(r.q.QueryRow(ctx, query, tenantID, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item by key: %w", err)
	}
	return s, nil
}

// GetByKeyForUpdate obtiene el agregado y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *StockItemRepo) GetByKeyForUpdate(ctx context.Context, tenantID, productID, locationID string) (*entity.StockItem, error) {
	query := `
		SELECT ` + stockItemColumns + ` FROM stock_items
		WHERE tenant_id = $1 AND product_id = $2 AND location_id = $3
		FOR UPDATE`
	s, err := scanStockItem(r.q.QueryRow(ctx, query, tenantID, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return s, nil
}

// Update persiste cantidades, costos, bin y updated_at del agregado.
func (r *StockItemRepo) Update(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET total_quantity = $2, available_quantity = $3, reserved_quantity = $4,
		    average_cost_price = $5, last_cost_price = $6, bin = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.TotalQuantity, item.AvailableQuantity, item.ReservedQuantity,
		item.AverageCostPrice, item.LastCostPrice, item.Bin, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// MarkLowStock enciende la bandera de stock bajo y sella el momento del aviso.
func (r *StockItemRepo) MarkLowStock(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE stock_items SET low_stock = true, last_alert_sent = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark low stock: %w", err)
	}
	return nil
}

// ClearLowStock apaga la bandera de stock bajo (reconocimiento del operador).
func (r *StockItemRepo) ClearLowStock(ctx context.Context, id string) error {
	query := `UPDATE stock_items SET low_stock = false, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear low stock: %w", err)
	}
	return nil
}

// Deactivate desactiva el agregado; el historial del ledger se conserva intacto.
func (r *StockItemRepo) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE stock_items SET is_active = false, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate stock item: %w", err)
	}
	return nil
}

// List devuelve agregados del tenant con filtros opcionales y total para paginar.
func (r *StockItemRepo) List(ctx context.Context, tenantID string, f repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, int, error) {
	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	if f.LowStockOnly {
		where += " AND low_stock"
	}
	if f.ActiveOnly {
		where += " AND is_active"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_items `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock items: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+stockItemColumns+` FROM stock_items %s
		ORDER BY product_sku, location_id
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var items []*entity.StockItem
	for rows.Next() {
		s, err := scanStockItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
