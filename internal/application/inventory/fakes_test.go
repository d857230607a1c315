package inventory_test

import (
	"context"
	"time"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. GetByKeyForUpdate devuelve copias y Update escribe de vuelta,
// igual que un repositorio real: las mutaciones de una transacción revertida no
// deben filtrarse al estado compartido.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	items     map[string]*entity.StockItem // por ID
	lastLimit int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[string]*entity.StockItem)}
}

func cloneStockItem(s *entity.StockItem) *entity.StockItem {
	c := *s
	if s.Alerts.LastAlertSent != nil {
		t := *s.Alerts.LastAlertSent
		c.Alerts.LastAlertSent = &t
	}
	return &c
}

func (r *fakeStockRepo) snapshot() map[string]*entity.StockItem {
	snap := make(map[string]*entity.StockItem, len(r.items))
	for id, item := range r.items {
		snap[id] = cloneStockItem(item)
	}
	return snap
}

func (r *fakeStockRepo) restore(snap map[string]*entity.StockItem) {
	r.items = snap
}

func (r *fakeStockRepo) findByKey(tenantID, productID, locationID string) *entity.StockItem {
	for _, item := range r.items {
		if item.TenantID == tenantID && item.ProductID == productID && item.LocationID == locationID {
			return item
		}
	}
	return nil
}

func (r *fakeStockRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.items[item.ID] = cloneStockItem(item)
	return nil
}

func (r *fakeStockRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneStockItem(item), nil
}

func (r *fakeStockRepo) GetByKey(_ context.Context, tenantID, productID, locationID string) (*entity.StockItem, error) {
	item := r.findByKey(tenantID, productID, locationID)
	if item == nil {
		return nil, nil
	}
	return cloneStockItem(item), nil
}

func (r *fakeStockRepo) GetByKeyForUpdate(ctx context.Context, tenantID, productID, locationID string) (*entity.StockItem, error) {
	return r.GetByKey(ctx, tenantID, productID, locationID)
}

func (r *fakeStockRepo) Update(_ context.Context, item *entity.StockItem) error {
	r.items[item.ID] = cloneStockItem(item)
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

func (r *fakeStockRepo) List(_ context.Context, tenantID string, f repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, int, error) {
	r.lastLimit = limit
	var out []*entity.StockItem
	for _, item := range r.items {
		if item.TenantID != tenantID {
			continue
		}
		if f.ProductID != "" && item.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && item.LocationID != f.LocationID {
			continue
		}
		if f.LowStockOnly && !item.Alerts.LowStock {
			continue
		}
		if f.ActiveOnly && !item.IsActive {
			continue
		}
		out = append(out, cloneStockItem(item))
	}
	return out, len(out), nil
}

type fakeLedgerRepo struct {
	entries   []*entity.LedgerEntry
	lastLimit int
}

func cloneEntry(e *entity.LedgerEntry) *entity.LedgerEntry {
	c := *e
	return &c
}

func (r *fakeLedgerRepo) snapshot() []*entity.LedgerEntry {
	snap := make([]*entity.LedgerEntry, len(r.entries))
	for i, e := range r.entries {
		snap[i] = cloneEntry(e)
	}
	return snap
}

func (r *fakeLedgerRepo) restore(snap []*entity.LedgerEntry) {
	r.entries = snap
}

func (r *fakeLedgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	r.entries = append(r.entries, cloneEntry(e))
	return nil
}

func (r *fakeLedgerRepo) GetByID(_ context.Context, id string) (*entity.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return cloneEntry(e), nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) SetLinkedEntry(_ context.Context, id, linkedEntryID string) error {
	for _, e := range r.entries {
		if e.ID == id && e.LinkedEntryID == "" {
			e.LinkedEntryID = linkedEntryID
		}
	}
	return nil
}

func (r *fakeLedgerRepo) List(_ context.Context, tenantID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, int, error) {
	r.lastLimit = limit
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.TenantID != tenantID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.OrderID != "" && e.OrderID != f.OrderID {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	return out, len(out), nil
}

func (r *fakeLedgerRepo) ListReservationsByOrder(_ context.Context, tenantID, orderID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.OrderID == orderID && e.Type == entity.MovementTypeRESERVATION {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) HasOutForOrder(_ context.Context, tenantID, orderID string) (bool, error) {
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.OrderID == orderID && e.Type == entity.MovementTypeOUT {
			return true, nil
		}
	}
	return false, nil
}

// fakeTxRunner emula la atomicidad: si el callback falla, revierte los fakes al
// estado previo.
type fakeTxRunner struct {
	stock  *fakeStockRepo
	ledger *fakeLedgerRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.StockItemRepository, repository.LedgerRepository) error) error {
	stockSnap := r.stock.snapshot()
	ledgerSnap := r.ledger.snapshot()
	if err := fn(r.stock, r.ledger); err != nil {
		r.stock.restore(stockSnap)
		r.ledger.restore(ledgerSnap)
		return err
	}
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
		p.IsActive = false
	}
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, int, error) {
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
		l.IsActive = false
	}
	return nil
}

func (r *fakeLocationRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Location, int, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		if l.TenantID == tenantID && !l.IsDeleted {
			out = append(out, l)
		}
	}
	return out, len(out), nil
}

// fakeDispatcher captura los jobs encolados tras cada mutación.
type fakeDispatcher struct {
	jobs []alerts.Job
}

func (d *fakeDispatcher) Enqueue(job alerts.Job) {
	d.jobs = append(d.jobs, job)
}
