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

var _ repository.AlertRuleRepository = (*AlertRuleRepo)(nil)

// AlertRuleRepo implementación de AlertRuleRepository sobre PostgreSQL. El índice
// único parcial (tenant, producto, ubicación) WHERE NOT is_deleted garantiza a lo
// sumo una regla viva por clave.
type AlertRuleRepo struct {
	q Querier
}

// NewAlertRuleRepository construye el adaptador de reglas. Pasar pool o tx (Querier).
func NewAlertRuleRepository(q Querier) *AlertRuleRepo {
	return &AlertRuleRepo{q: q}
}

const alertRuleColumns = `id, tenant_id, product_id, location_id, min_quantity, channels,
		is_active, is_deleted, last_triggered_at, created_by, created_at, updated_at`

func scanAlertRule(row pgx.Row) (*entity.AlertRule, error) {
	var r entity.AlertRule
	err := row.Scan(
		&r.ID, &r.TenantID, &r.ProductID, &r.LocationID, &r.MinQuantity, &r.Channels,
		&r.IsActive, &r.IsDeleted, &r.LastTriggeredAt, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta una regla. Clave viva duplicada devuelve ErrConflict.
func (r *AlertRuleRepo) Create(ctx context.Context, rule *entity.AlertRule) error {
	query := `
		INSERT INTO alert_rules (` + alertRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		rule.ID, rule.TenantID, rule.ProductID, rule.LocationID, rule.MinQuantity, rule.Channels,
		rule.IsActive, rule.IsDeleted, rule.LastTriggeredAt, rule.CreatedBy, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert alert rule: %w", err)
	}
	return nil
}

// GetByID devuelve la regla o (nil, nil) si no existe.
func (r *AlertRuleRepo) GetByID(ctx context.Context, id string) (*entity.AlertRule, error) {
	query := `SELECT ` + alertRuleColumns + ` FROM alert_rules WHERE id = $1`
	rule, err := scanAlertRule(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert rule: %w", err)
	}
	return rule, nil
}

// GetLiveByKey devuelve la regla no eliminada para la clave exacta o (nil, nil).
func (r *AlertRuleRepo) GetLiveByKey(ctx context.Context, tenantID, productID, locationID string) (*entity.AlertRule, error) {
	query := `
		SELECT ` + alertRuleColumns + ` FROM alert_rules
		WHERE tenant_id = $1 AND product_id = $2 AND location_id = $3 AND NOT is_deleted`
	rule, err := scanAlertRule(r.q.QueryRow(ctx, query, tenantID, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert rule by key: %w", err)
	}
	return rule, nil
}

// Update persiste umbral, canales, ubicación y estado de la regla.
func (r *AlertRuleRepo) Update(ctx context.Context, rule *entity.AlertRule) error {
	query := `
		UPDATE alert_rules
		SET min_quantity = $2, channels = $3, location_id = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		rule.ID, rule.MinQuantity, rule.Channels, rule.LocationID, rule.IsActive, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update alert rule: %w", err)
	}
	return nil
}

// SoftDelete marca is_deleted, apaga is_active y limpia last_triggered_at,
// liberando la clave para una regla nueva.
func (r *AlertRuleRepo) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE alert_rules
		SET is_deleted = true, is_active = false, last_triggered_at = NULL, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete alert rule: %w", err)
	}
	return nil
}

// ListMatching devuelve las reglas activas no eliminadas del producto cuya ubicación
// está vacía (global) o coincide con la dada.
func (r *AlertRuleRepo) ListMatching(ctx context.Context, tenantID, productID, locationID string) ([]*entity.AlertRule, error) {
	query := `
		SELECT ` + alertRuleColumns + ` FROM alert_rules
		WHERE tenant_id = $1 AND product_id = $2
		  AND (location_id = '' OR location_id = $3)
		  AND is_active AND NOT is_deleted
		ORDER BY location_id`
	rows, err := r.q.Query(ctx, query, tenantID, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list matching alert rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.AlertRule
	for rows.Next() {
		rule, err := scanAlertRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// List devuelve reglas del tenant con filtros opcionales y total para paginar.
// El filtro LocationID incluye las reglas globales del producto.
func (r *AlertRuleRepo) List(ctx context.Context, tenantID string, f repository.AlertRuleFilter, limit, offset int) ([]*entity.AlertRule, int, error) {
	where := `WHERE tenant_id = $1 AND NOT is_deleted`
	args := []any{tenantID}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where += fmt.Sprintf(" AND (location_id = '' OR location_id = $%d)", len(args))
	}
	if f.ActiveOnly {
		where += " AND is_active"
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM alert_rules `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alert rules: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+alertRuleColumns+` FROM alert_rules %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alert rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.AlertRule
	for rows.Next() {
		rule, err := scanAlertRule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan alert rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, total, rows.Err()
}

// TouchLastTriggered sella last_triggered_at tras emitir una alerta.
func (r *AlertRuleRepo) TouchLastTriggered(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE alert_rules SET last_triggered_at = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("touch last triggered: %w", err)
	}
	return nil
}
