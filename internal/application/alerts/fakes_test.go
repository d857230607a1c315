package alerts_test

import (
	"context"
	"errors"
	"time"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el evaluador y el CRUD de reglas.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	items map[string]*entity.StockItem
}

func newFakeStockRepo(items ...*entity.StockItem) *fakeStockRepo {
	r := &fakeStockRepo{items: make(map[string]*entity.StockItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeStockRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeStockRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (r *fakeStockRepo) GetByKey(_ context.Context, tenantID, productID, locationID string) (*entity.StockItem, error) {
	for _, item := range r.items {
		if item.TenantID == tenantID && item.ProductID == productID && item.LocationID == locationID {
			return item, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) GetByKeyForUpdate(ctx context.Context, tenantID, productID, locationID string) (*entity.StockItem, error) {
	return r.GetByKey(ctx, tenantID, productID, locationID)
}

func (r *fakeStockRepo) Update(_ context.Context, item *entity.StockItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeStockRepo) MarkLowStock(_ context.Context, id string, at time.Time) error {
	if item, ok := r.items[id]; ok {
		item.Alerts.LowStock = true
		item.Alerts.LastAlertSent = &at
	}
	return nil
}

func (r *fakeStockRepo) ClearLowStock(_ context.Context, id string) error {
	if item, ok := r.items[id]; ok {
		item.Alerts.LowStock = false
	}
	return nil
}

func (r *fakeStockRepo) Deactivate(_ context.Context, id string) error {
	if item, ok := r.items[id]; ok {
		item.IsActive = false
	}
	return nil
}

func (r *fakeStockRepo) List(_ context.Context, tenantID string, _ repository.StockItemFilter, _, _ int) ([]*entity.StockItem, int, error) {
	var out []*entity.StockItem
	for _, item := range r.items {
		if item.TenantID == tenantID {
			out = append(out, item)
		}
	}
	return out, len(out), nil
}

type fakeRuleRepo struct {
	rules     map[string]*entity.AlertRule
	lastLimit int
}

func newFakeRuleRepo(rules ...*entity.AlertRule) *fakeRuleRepo {
	r := &fakeRuleRepo{rules: make(map[string]*entity.AlertRule)}
	for _, rule := range rules {
		r.rules[rule.ID] = rule
	}
	return r
}

func (r *fakeRuleRepo) Create(_ context.Context, rule *entity.AlertRule) error {
	r.rules[rule.ID] = rule
	return nil
}

func (r *fakeRuleRepo) GetByID(_ context.Context, id string) (*entity.AlertRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, nil
	}
	return rule, nil
}

func (r *fakeRuleRepo) GetLiveByKey(_ context.Context, tenantID, productID, locationID string) (*entity.AlertRule, error) {
	for _, rule := range r.rules {
		if rule.TenantID == tenantID && rule.ProductID == productID &&
			rule.LocationID == locationID && !rule.IsDeleted {
			return rule, nil
		}
	}
	return nil, nil
}

func (r *fakeRuleRepo) Update(_ context.Context, rule *entity.AlertRule) error {
	r.rules[rule.ID] = rule
	return nil
}

func (r *fakeRuleRepo) SoftDelete(_ context.Context, id string) error {
	if rule, ok := r.rules[id]; ok {
		rule.IsDeleted = true
		rule.IsActive = false
		rule.LastTriggeredAt = nil
	}
	return nil
}

func (r *fakeRuleRepo) ListMatching(_ context.Context, tenantID, productID, locationID string) ([]*entity.AlertRule, error) {
	var out []*entity.AlertRule
	for _, rule := range r.rules {
		if rule.TenantID != tenantID || rule.ProductID != productID {
			continue
		}
		if !rule.IsActive || rule.IsDeleted {
			continue
		}
		if rule.AppliesTo(locationID) {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) List(_ context.Context, tenantID string, f repository.AlertRuleFilter, limit, _ int) ([]*entity.AlertRule, int, error) {
	r.lastLimit = limit
	var out []*entity.AlertRule
	for _, rule := range r.rules {
		if rule.TenantID != tenantID || rule.IsDeleted {
			continue
		}
		if f.ProductID != "" && rule.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && rule.LocationID != "" && rule.LocationID != f.LocationID {
			continue
		}
		if f.ActiveOnly && !rule.IsActive {
			continue
		}
		out = append(out, rule)
	}
	return out, len(out), nil
}

func (r *fakeRuleRepo) TouchLastTriggered(_ context.Context, id string, at time.Time) error {
	if rule, ok := r.rules[id]; ok {
		t := at
		rule.LastTriggeredAt = &t
	}
	return nil
}

// fakeNotifier captura eventos; failures hace fallar las primeras N publicaciones.
type fakeNotifier struct {
	events   []alerts.LowStockEvent
	failures int
	calls    int
}

func (n *fakeNotifier) PublishLowStock(_ context.Context, ev alerts.LowStockEvent) error {
	n.calls++
	if n.calls <= n.failures {
		return errors.New("broker no disponible")
	}
	n.events = append(n.events, ev)
	return nil
}

func (n *fakeNotifier) Publish(_ context.Context, _, _ string, _ any) error {
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku && !p.IsDeleted {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id string) error {
	if p, ok := r.products[id]; ok {
		p.IsDeleted = true
	}
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, tenantID string, _, _ int) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.TenantID == tenantID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func newFakeLocationRepo(locations ...*entity.Location) *fakeLocationRepo {
	r := &fakeLocationRepo{locations: make(map[string]*entity.Location)}
	for _, l := range locations {
		r.locations[l.ID] = l
	}
	return r
}

func (r *fakeLocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, nil
	}
	return l, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, l *entity.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *fakeLocationRepo) SoftDelete(_ context.Context, id string) error {
	if l, ok := r.locations[id]; ok {
		l.IsDeleted = true
	}
	return nil
}

func (r *fakeLocationRepo) List(_ context.Context, tenantID string, _, _ int) ([]*entity.Location, int, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		if l.TenantID == tenantID && !l.IsDeleted {
			out = append(out, l)
		}
	}
	return out, len(out), nil
}
