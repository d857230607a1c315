package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	domaininv "github.com/smartkubik/inventory-core/internal/domain/inventory"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

// Tamaño de página para listados de movimientos.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 200
)

// MovementUseCase servicio de movimientos: valida la solicitud, bloquea el agregado,
// aplica el delta, escribe el agregado y la entrada de ledger en una transacción y
// encola la evaluación de alertas como paso desacoplado.
type MovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.StockItemRepository
	ledgerRepo   repository.LedgerRepository
	dispatcher   AlertDispatcher
	log          *logger.Logger
}

// NewMovementUseCase construye el caso de uso. stockRepo y ledgerRepo se usan solo
// para lecturas fuera de transacción; las escrituras pasan por txRunner.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.StockItemRepository,
	ledgerRepo repository.LedgerRepository,
	dispatcher AlertDispatcher,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		ledgerRepo:   ledgerRepo,
		dispatcher:   dispatcher,
		log:          log,
	}
}

// MovementOptions campos opcionales de un movimiento.
type MovementOptions struct {
	Reason    string
	Reference string
	OrderID   string
	Bin       string           // reubicación fina del agregado
	NewCost   *decimal.Decimal // solo ADJUSTMENT: fija el costo promedio
}

// MovementInput entrada para CreateMovement.
// Convención de signos: Quantity es magnitud estrictamente positiva para IN y OUT;
// para ADJUSTMENT es el delta neto firmado (positivo = sobrante, negativo = merma)
// y no puede ser cero. TRANSFER no se acepta aquí: pasa por el orquestador de
// traslados, que escribe el par enlazado.
type MovementInput struct {
	TenantID     string
	ActorID      string
	ProductID    string
	LocationID   string
	Type         string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal // obligatorio en IN; >= 0
	EnforceStock bool            // false permite saldo negativo (reversas compensatorias)
	Opts         MovementOptions
}

// CreateStockItemInput entrada para la creación explícita de un agregado.
type CreateStockItemInput struct {
	TenantID        string
	ActorID         string
	ProductID       string
	LocationID      string
	Bin             string
	InitialQuantity decimal.Decimal
	InitialCost     decimal.Decimal
}

// ReserveInput reserva de stock disponible para una orden.
type ReserveInput struct {
	TenantID   string
	ActorID    string
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	OrderID    string
}

// ReleaseInput liberación de las reservas de una orden. ProductIDs opcional limita
// qué productos liberar.
type ReleaseInput struct {
	TenantID   string
	ActorID    string
	OrderID    string
	ProductIDs []string
}

// CreateStockItem crea el agregado para (producto, ubicación) con saldo inicial
// opcional; un saldo inicial positivo queda registrado como entrada IN en el ledger.
// Conflict si la clave ya tiene agregado.
func (uc *MovementUseCase) CreateStockItem(ctx context.Context, input CreateStockItemInput) (*entity.StockItem, error) {
	if input.InitialQuantity.IsNegative() || input.InitialCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.checkProduct(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, input.TenantID, input.LocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.StockItem{
		ID:                uuid.New().String(),
		TenantID:          input.TenantID,
		ProductID:         input.ProductID,
		ProductSKU:        product.SKU,
		ProductName:       product.Name,
		LocationID:        input.LocationID,
		Bin:               input.Bin,
		TotalQuantity:     input.InitialQuantity,
		AvailableQuantity: input.InitialQuantity,
		ReservedQuantity:  decimal.Zero,
		AverageCostPrice:  input.InitialCost,
		LastCostPrice:     input.InitialCost,
		IsActive:          true,
		CreatedBy:         input.ActorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository, ledgerRepo repository.LedgerRepository) error {
		existing, err := stockRepo.GetByKey(ctx, input.TenantID, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}
		if err := stockRepo.Create(ctx, item); err != nil {
			return err
		}
		if input.InitialQuantity.IsPositive() {
			entry := uc.newEntry(item, entity.MovementTypeIN, input.InitialQuantity, input.InitialCost, input.ActorID, now)
			entry.Reason = "Inventario inicial"
			return ledgerRepo.Create(ctx, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateMovement registra un movimiento IN/OUT/ADJUSTMENT sobre un agregado
// existente. Orden de efectos dentro de la transacción: bloqueo de fila, cantidades
// del agregado (y bin si viene), entrada de ledger con balanceAfter exacto. La
// evaluación de alertas se encola después del commit y su fallo nunca se propaga.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, input MovementInput) (*entity.LedgerEntry, error) {
	if err := validateMovementInput(input); err != nil {
		return nil, err
	}
	if _, err := uc.checkProduct(ctx, input.TenantID, input.ProductID); err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, input.TenantID, input.LocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var entry *entity.LedgerEntry
	var stockItemID string

	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository, ledgerRepo repository.LedgerRepository) error {
		item, err := stockRepo.GetByKeyForUpdate(ctx, input.TenantID, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.IsActive {
			return domain.ErrInvalidState
		}

		delta, unitCost := applyDelta(item, input)
		if input.EnforceStock && delta.IsNegative() && item.AvailableQuantity.IsNegative() {
			return domain.ErrInsufficientStock
		}

		if input.Opts.Bin != "" {
			item.Bin = input.Opts.Bin
		}
		item.UpdatedAt = now
		if err := stockRepo.Update(ctx, item); err != nil {
			return err
		}

		entry = uc.newEntry(item, input.Type, delta, unitCost, input.ActorID, now)
		entry.Reason = input.Opts.Reason
		entry.Reference = input.Opts.Reference
		entry.OrderID = input.Opts.OrderID
		stockItemID = item.ID
		return ledgerRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Enqueue(alertJob(input.TenantID, stockItemID, input.ActorID))
	return entry, nil
}

// Reserve mueve cantidad de disponible a reservado para una orden. Siempre se
// exige saldo: una reserva jamás deja el disponible en negativo.
func (uc *MovementUseCase) Reserve(ctx context.Context, input ReserveInput) (*entity.LedgerEntry, error) {
	if !input.Quantity.IsPositive() || input.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.checkProduct(ctx, input.TenantID, input.ProductID); err != nil {
		return nil, err
	}
	if err := uc.checkLocation(ctx, input.TenantID, input.LocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	var entry *entity.LedgerEntry
	var stockItemID string

	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository, ledgerRepo repository.LedgerRepository) error {
		item, err := stockRepo.GetByKeyForUpdate(ctx, input.TenantID, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.IsActive {
			return domain.ErrInvalidState
		}
		if item.AvailableQuantity.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}

		item.AvailableQuantity = item.AvailableQuantity.Sub(input.Quantity)
		item.ReservedQuantity = item.ReservedQuantity.Add(input.Quantity)
		item.UpdatedAt = now
		if err := stockRepo.Update(ctx, item); err != nil {
			return err
		}

		entry = uc.newEntry(item, entity.MovementTypeRESERVATION, input.Quantity.Neg(), item.AverageCostPrice, input.ActorID, now)
		entry.Reason = "Reserva para orden"
		entry.Reference = input.OrderID
		entry.OrderID = input.OrderID
		stockItemID = item.ID
		return ledgerRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Enqueue(alertJob(input.TenantID, stockItemID, input.ActorID))
	return entry, nil
}

// Release revierte las reservas de una orden reproduciendo sus entradas RESERVATION.
// NotFound si la orden no tiene reservas registradas.
func (uc *MovementUseCase) Release(ctx context.Context, input ReleaseInput) ([]*entity.LedgerEntry, error) {
	if input.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var released []*entity.LedgerEntry

	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository, ledgerRepo repository.LedgerRepository) error {
		reservations, err := ledgerRepo.ListReservationsByOrder(ctx, input.TenantID, input.OrderID)
		if err != nil {
			return err
		}
		if len(reservations) == 0 {
			return domain.ErrNotFound
		}

		wanted := make(map[string]bool, len(input.ProductIDs))
		for _, id := range input.ProductIDs {
			wanted[id] = true
		}

		for _, reservation := range reservations {
			if len(wanted) > 0 && !wanted[reservation.ProductID] {
				continue
			}
			item, err := stockRepo.GetByKeyForUpdate(ctx, input.TenantID, reservation.ProductID, reservation.LocationID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			qty := reservation.Quantity.Neg() // la reserva quedó registrada en negativo
			item.AvailableQuantity = item.AvailableQuantity.Add(qty)
			item.ReservedQuantity = item.ReservedQuantity.Sub(qty)
			item.UpdatedAt = now
			if err := stockRepo.Update(ctx, item); err != nil {
				return err
			}

			entry := uc.newEntry(item, entity.MovementTypeRELEASE, qty, reservation.UnitCost, input.ActorID, now)
			entry.Reason = "Liberación de reserva"
			entry.Reference = input.OrderID
			entry.OrderID = input.OrderID
			if err := ledgerRepo.Create(ctx, entry); err != nil {
				return err
			}
			released = append(released, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// ListMovements consulta el ledger del tenant, más recientes primero. El límite se
// acota a MaxPageLimit.
func (uc *MovementUseCase) ListMovements(ctx context.Context, tenantID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.ledgerRepo.List(ctx, tenantID, f, limit, offset)
}

// HasOutMovementsForOrder guarda de idempotencia para el flujo de órdenes: evita
// descontar stock dos veces por la misma orden.
func (uc *MovementUseCase) HasOutMovementsForOrder(ctx context.Context, tenantID, orderID string) (bool, error) {
	if orderID == "" {
		return false, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.HasOutForOrder(ctx, tenantID, orderID)
}

// GetStockItem devuelve un agregado del tenant.
func (uc *MovementUseCase) GetStockItem(ctx context.Context, tenantID, id string) (*entity.StockItem, error) {
	item, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListStockItems listado paginado de agregados (filtro por ubicación, producto o
// solo-stock-bajo).
func (uc *MovementUseCase) ListStockItems(ctx context.Context, tenantID string, f repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.stockRepo.List(ctx, tenantID, f, limit, offset)
}

// AcknowledgeLowStock apaga la bandera de stock bajo. Es la única vía: el evaluador
// solo la enciende y la recuperación de stock no la toca.
func (uc *MovementUseCase) AcknowledgeLowStock(ctx context.Context, tenantID, id string) error {
	item, err := uc.GetStockItem(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return uc.stockRepo.ClearLowStock(ctx, item.ID)
}

// DeactivateStockItem desactiva el agregado; los agregados nunca se eliminan.
func (uc *MovementUseCase) DeactivateStockItem(ctx context.Context, tenantID, id string) error {
	item, err := uc.GetStockItem(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return uc.stockRepo.Deactivate(ctx, item.ID)
}

// applyDelta muta las cantidades y costos del agregado según el tipo de movimiento
// y devuelve el delta firmado aplicado junto al costo unitario a registrar.
func applyDelta(item *entity.StockItem, input MovementInput) (decimal.Decimal, decimal.Decimal) {
	switch input.Type {
	case entity.MovementTypeIN:
		item.AverageCostPrice = domaininv.WeightedAverageCost(
			item.TotalQuantity, item.AverageCostPrice, input.Quantity, input.UnitCost,
		)
		item.LastCostPrice = input.UnitCost
		item.TotalQuantity = item.TotalQuantity.Add(input.Quantity)
		item.AvailableQuantity = item.AvailableQuantity.Add(input.Quantity)
		return input.Quantity, input.UnitCost

	case entity.MovementTypeOUT:
		// Las salidas se registran al costo promedio vigente.
		item.TotalQuantity = item.TotalQuantity.Sub(input.Quantity)
		item.AvailableQuantity = item.AvailableQuantity.Sub(input.Quantity)
		return input.Quantity.Neg(), item.AverageCostPrice

	default: // ADJUSTMENT: delta neto firmado
		item.TotalQuantity = item.TotalQuantity.Add(input.Quantity)
		item.AvailableQuantity = item.AvailableQuantity.Add(input.Quantity)
		if input.Opts.NewCost != nil {
			item.AverageCostPrice = *input.Opts.NewCost
		}
		return input.Quantity, item.AverageCostPrice
	}
}

// newEntry arma una entrada de ledger con la foto de saldos posterior al movimiento.
func (uc *MovementUseCase) newEntry(item *entity.StockItem, movType string, quantity, unitCost decimal.Decimal, actorID string, now time.Time) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:           uuid.New().String(),
		TenantID:     item.TenantID,
		StockItemID:  item.ID,
		ProductID:    item.ProductID,
		ProductSKU:   item.ProductSKU,
		LocationID:   item.LocationID,
		Type:         movType,
		Quantity:     quantity,
		UnitCost:     unitCost,
		TotalCost:    quantity.Mul(unitCost),
		BalanceAfter: item.Balance(),
		CreatedBy:    actorID,
		CreatedAt:    now,
	}
}

func (uc *MovementUseCase) checkProduct(ctx context.Context, tenantID, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("consultar producto: %w", err)
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if !product.Usable() {
		return nil, domain.ErrInvalidState
	}
	return product, nil
}

func (uc *MovementUseCase) checkLocation(ctx context.Context, tenantID, locationID string) error {
	if locationID == "" {
		return domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return fmt.Errorf("consultar ubicación: %w", err)
	}
	if location == nil || location.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if !location.Usable() {
		return domain.ErrInvalidState
	}
	return nil
}

func validateMovementInput(input MovementInput) error {
	if input.ProductID == "" || input.LocationID == "" {
		return domain.ErrInvalidInput
	}
	if input.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !input.Quantity.IsPositive() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if input.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	default:
		// TRANSFER y tipos desconocidos no entran por aquí.
		return domain.ErrInvalidInput
	}
	return nil
}

func alertJob(tenantID, stockItemID, actorID string) alerts.Job {
	return alerts.Job{TenantID: tenantID, StockItemID: stockItemID, ActorID: actorID}
}
