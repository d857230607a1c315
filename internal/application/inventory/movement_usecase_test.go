package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkubik/inventory-core/internal/application/inventory"
	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

const (
	testTenant   = "tenant-1"
	testActor    = "user-1"
	testProduct  = "prod-1"
	testLocation = "loc-1"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// testEnv arma el caso de uso con fakes y un producto/ubicación activos.
type testEnv struct {
	uc         *inventory.MovementUseCase
	stock      *fakeStockRepo
	ledger     *fakeLedgerRepo
	dispatcher *fakeDispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stock := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	products := newFakeProductRepo(&entity.Product{
		ID: testProduct, TenantID: testTenant, SKU: "SKU-001", Name: "Tornillo", IsActive: true,
	})
	locations := newFakeLocationRepo(
		&entity.Location{ID: testLocation, TenantID: testTenant, Name: "Bodega Central", IsActive: true},
		&entity.Location{ID: "loc-2", TenantID: testTenant, Name: "Sucursal Norte", IsActive: true},
	)
	dispatcher := &fakeDispatcher{}
	uc := inventory.NewMovementUseCase(
		&fakeTxRunner{stock: stock, ledger: ledger},
		products, locations, stock, ledger, dispatcher, logger.Nop(),
	)
	return &testEnv{uc: uc, stock: stock, ledger: ledger, dispatcher: dispatcher}
}

// seedStock crea un agregado directamente en el fake con saldos dados.
func (env *testEnv) seedStock(t *testing.T, available, reserved, avgCost string) *entity.StockItem {
	t.Helper()
	item := &entity.StockItem{
		ID:                "stock-1",
		TenantID:          testTenant,
		ProductID:         testProduct,
		ProductSKU:        "SKU-001",
		ProductName:       "Tornillo",
		LocationID:        testLocation,
		TotalQuantity:     dec(available).Add(dec(reserved)),
		AvailableQuantity: dec(available),
		ReservedQuantity:  dec(reserved),
		AverageCostPrice:  dec(avgCost),
		LastCostPrice:     dec(avgCost),
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	require.NoError(t, env.stock.Create(context.Background(), item))
	return item
}

func TestCreateStockItem(t *testing.T) {
	env := newTestEnv(t)

	item, err := env.uc.CreateStockItem(context.Background(), inventory.CreateStockItemInput{
		TenantID:        testTenant,
		ActorID:         testActor,
		ProductID:       testProduct,
		LocationID:      testLocation,
		InitialQuantity: dec("10"),
		InitialCost:     dec("2.50"),
	})
	require.NoError(t, err)
	assert.True(t, item.TotalQuantity.Equal(dec("10")))
	assert.True(t, item.AvailableQuantity.Equal(dec("10")))
	assert.True(t, item.ReservedQuantity.IsZero())
	assert.True(t, item.Consistent())
	assert.Equal(t, "SKU-001", item.ProductSKU)

	// El saldo inicial queda auditado como entrada IN.
	require.Len(t, env.ledger.entries, 1)
	entry := env.ledger.entries[0]
	assert.Equal(t, entity.MovementTypeIN, entry.Type)
	assert.True(t, entry.Quantity.Equal(dec("10")))
	assert.Equal(t, "Inventario inicial", entry.Reason)
	assert.True(t, entry.BalanceAfter.TotalQuantity.Equal(dec("10")))
}

func TestCreateStockItemDuplicado(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "5", "0", "1")

	_, err := env.uc.CreateStockItem(context.Background(), inventory.CreateStockItemInput{
		TenantID:   testTenant,
		ActorID:    testActor,
		ProductID:  testProduct,
		LocationID: testLocation,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateMovementEntradaRecalculaCostoPromedio(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "10")

	// 10 uds a $10 + 5 uds a $16 => promedio $12
	entry, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeIN,
		Quantity:     dec("5"),
		UnitCost:     dec("16"),
		EnforceStock: true,
	})
	require.NoError(t, err)
	assert.True(t, entry.Quantity.Equal(dec("5")))
	assert.True(t, entry.BalanceAfter.AverageCostPrice.Equal(dec("12")),
		"promedio esperado 12, obtenido %s", entry.BalanceAfter.AverageCostPrice)
	assert.True(t, entry.BalanceAfter.TotalQuantity.Equal(dec("15")))

	item := env.stock.findByKey(testTenant, testProduct, testLocation)
	assert.True(t, item.AverageCostPrice.Equal(dec("12")))
	assert.True(t, item.LastCostPrice.Equal(dec("16")))
	assert.True(t, item.Consistent())
}

func TestCreateMovementSalida(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "2", "7")

	entry, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeOUT,
		Quantity:     dec("4"),
		EnforceStock: true,
	})
	require.NoError(t, err)

	// La salida queda en negativo al costo promedio vigente.
	assert.True(t, entry.Quantity.Equal(dec("-4")))
	assert.True(t, entry.UnitCost.Equal(dec("7")))
	assert.True(t, entry.BalanceAfter.AvailableQuantity.Equal(dec("6")))
	assert.True(t, entry.BalanceAfter.ReservedQuantity.Equal(dec("2")))

	item := env.stock.findByKey(testTenant, testProduct, testLocation)
	assert.True(t, item.Consistent())

	// La mutación exitosa encola la evaluación de alertas.
	require.Len(t, env.dispatcher.jobs, 1)
	assert.Equal(t, item.ID, env.dispatcher.jobs[0].StockItemID)
}

func TestCreateMovementSalidaSinStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "3", "0", "5")

	_, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeOUT,
		Quantity:     dec("5"),
		EnforceStock: true,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback: ni el agregado ni el ledger cambian, y nada se encola.
	item := env.stock.findByKey(testTenant, testProduct, testLocation)
	assert.True(t, item.AvailableQuantity.Equal(dec("3")))
	assert.Empty(t, env.ledger.entries)
	assert.Empty(t, env.dispatcher.jobs)
}

func TestCreateMovementSalidaSinExigirStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "3", "0", "5")

	// enforceStock=false permite dejar el saldo en negativo (reversa compensatoria).
	entry, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeOUT,
		Quantity:     dec("5"),
		EnforceStock: false,
	})
	require.NoError(t, err)
	assert.True(t, entry.BalanceAfter.AvailableQuantity.Equal(dec("-2")))

	item := env.stock.findByKey(testTenant, testProduct, testLocation)
	assert.True(t, item.Consistent())
}

func TestCreateMovementAjuste(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	cases := []struct {
		name          string
		delta         string
		wantAvailable string
	}{
		{"sobrante", "3", "13"},
		{"merma", "-4", "9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
				TenantID:     testTenant,
				ActorID:      testActor,
				ProductID:    testProduct,
				LocationID:   testLocation,
				Type:         entity.MovementTypeADJUSTMENT,
				Quantity:     dec(tc.delta),
				EnforceStock: true,
			})
			require.NoError(t, err)
			assert.True(t, entry.Quantity.Equal(dec(tc.delta)))
			assert.True(t, entry.BalanceAfter.AvailableQuantity.Equal(dec(tc.wantAvailable)))
		})
	}
}

func TestCreateMovementAjusteCero(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	_, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:   testTenant,
		ActorID:    testActor,
		ProductID:  testProduct,
		LocationID: testLocation,
		Type:       entity.MovementTypeADJUSTMENT,
		Quantity:   decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateMovementAjusteConNuevoCosto(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	newCost := dec("8")
	entry, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeADJUSTMENT,
		Quantity:     dec("1"),
		EnforceStock: true,
		Opts:         inventory.MovementOptions{NewCost: &newCost},
	})
	require.NoError(t, err)
	assert.True(t, entry.BalanceAfter.AverageCostPrice.Equal(dec("8")))
}

func TestCreateMovementRechazaTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	_, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:   testTenant,
		ActorID:    testActor,
		ProductID:  testProduct,
		LocationID: testLocation,
		Type:       entity.MovementTypeTRANSFER,
		Quantity:   dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateMovementAgregadoInexistente(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeIN,
		Quantity:     dec("1"),
		UnitCost:     dec("1"),
		EnforceStock: true,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveYRelease(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	entry, err := env.uc.Reserve(context.Background(), inventory.ReserveInput{
		TenantID:   testTenant,
		ActorID:    testActor,
		ProductID:  testProduct,
		LocationID: testLocation,
		Quantity:   dec("4"),
		OrderID:    "order-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeRESERVATION, entry.Type)
	assert.True(t, entry.Quantity.Equal(dec("-4")))
	assert.Equal(t, "order-1", entry.OrderID)

	item := env.stock.findByKey(testTenant, testProduct, testLocation)
	assert.True(t, item.AvailableQuantity.Equal(dec("6")))
	assert.True(t, item.ReservedQuantity.Equal(dec("4")))
	assert.True(t, item.Consistent())

	released, err := env.uc.Release(context.Background(), inventory.ReleaseInput{
		TenantID: testTenant,
		ActorID:  testActor,
		OrderID:  "order-1",
	})
	require.NoError(t, err)
	require.Len(t, released, 1)
	assert.Equal(t, entity.MovementTypeRELEASE, released[0].Type)
	assert.True(t, released[0].Quantity.Equal(dec("4")))

	item = env.stock.findByKey(testTenant, testProduct, testLocation)
	assert.True(t, item.AvailableQuantity.Equal(dec("10")))
	assert.True(t, item.ReservedQuantity.IsZero())
	assert.True(t, item.Consistent())
}

func TestReserveSinDisponible(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "3", "0", "5")

	_, err := env.uc.Reserve(context.Background(), inventory.ReserveInput{
		TenantID:   testTenant,
		ActorID:    testActor,
		ProductID:  testProduct,
		LocationID: testLocation,
		Quantity:   dec("5"),
		OrderID:    "order-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReleaseOrdenSinReservas(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	_, err := env.uc.Release(context.Background(), inventory.ReleaseInput{
		TenantID: testTenant,
		ActorID:  testActor,
		OrderID:  "order-inexistente",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHasOutMovementsForOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "10", "0", "5")

	has, err := env.uc.HasOutMovementsForOrder(context.Background(), testTenant, "order-1")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeOUT,
		Quantity:     dec("2"),
		EnforceStock: true,
		Opts:         inventory.MovementOptions{OrderID: "order-1"},
	})
	require.NoError(t, err)

	has, err = env.uc.HasOutMovementsForOrder(context.Background(), testTenant, "order-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestListMovementsAcotaLimite(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.uc.ListMovements(context.Background(), testTenant, repository.LedgerFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, inventory.DefaultPageLimit, env.ledger.lastLimit)

	_, _, err = env.uc.ListMovements(context.Background(), testTenant, repository.LedgerFilter{}, 9999, 0)
	require.NoError(t, err)
	assert.Equal(t, inventory.MaxPageLimit, env.ledger.lastLimit)
}

func TestAcknowledgeLowStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedStock(t, "1", "0", "5")
	now := time.Now()
	require.NoError(t, env.stock.MarkLowStock(context.Background(), item.ID, now))

	require.NoError(t, env.uc.AcknowledgeLowStock(context.Background(), testTenant, item.ID))

	got, err := env.stock.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, got.Alerts.LowStock)
	// El sello del último aviso se conserva como historial.
	assert.NotNil(t, got.Alerts.LastAlertSent)
}

func TestDeactivateStockItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedStock(t, "5", "0", "5")

	require.NoError(t, env.uc.DeactivateStockItem(context.Background(), testTenant, item.ID))

	// Un agregado inactivo rechaza movimientos nuevos.
	_, err := env.uc.CreateMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ProductID:    testProduct,
		LocationID:   testLocation,
		Type:         entity.MovementTypeIN,
		Quantity:     dec("1"),
		UnitCost:     dec("1"),
		EnforceStock: true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetStockItemDeOtroTenant(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedStock(t, "5", "0", "5")

	_, err := env.uc.GetStockItem(context.Background(), "otro-tenant", item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
