package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartkubik/inventory-core/internal/domain"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
	domaininv "github.com/smartkubik/inventory-core/internal/domain/inventory"
	"github.com/smartkubik/inventory-core/internal/domain/repository"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

// TransferUseCase orquesta traslados entre ubicaciones como un par de entradas
// TRANSFER enlazadas bajo un mismo transferId. Todo el traslado (descuento en
// origen, abono en destino, ambas entradas y sus referencias cruzadas) corre en UNA
// transacción: nunca se observa un traslado a medias.
type TransferUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	dispatcher   AlertDispatcher
	log          *logger.Logger
}

// NewTransferUseCase construye el orquestador.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	dispatcher AlertDispatcher,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		dispatcher:   dispatcher,
		log:          log,
	}
}

// TransferInput entrada para CreateTransfer.
type TransferInput struct {
	TenantID       string
	ActorID        string
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	Reason         string
	Reference      string
}

// TransferResult par de entradas resultante.
type TransferResult struct {
	TransferID string
	OutEntry   *entity.LedgerEntry
	InEntry    *entity.LedgerEntry
}

// CreateTransfer mueve Quantity del agregado origen al destino. El chequeo de
// disponibilidad NO es anulable, a diferencia de los movimientos simples. Si el
// destino no tiene agregado se crea con saldos en cero heredando costo y metadatos
// del origen. La suma de TotalQuantity de ambos agregados es invariante.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.ProductID == "" || input.FromLocationID == "" || input.ToLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromLocationID == input.ToLocationID || !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.checkProduct(ctx, input.TenantID, input.ProductID); err != nil {
		return nil, err
	}
	for _, locationID := range []string{input.FromLocationID, input.ToLocationID} {
		if err := uc.checkLocation(ctx, input.TenantID, locationID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	transferID := uuid.New().String()
	result := &TransferResult{TransferID: transferID}
	var sourceID, destID string

	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository, ledgerRepo repository.LedgerRepository) error {
		// Bloqueo en orden estable de ubicación para que dos traslados cruzados
		// sobre el mismo producto no se bloqueen mutuamente.
		first, second := input.FromLocationID, input.ToLocationID
		if second < first {
			first, second = second, first
		}
		var source, dest *entity.StockItem
		for _, locationID := range []string{first, second} {
			item, err := stockRepo.GetByKeyForUpdate(ctx, input.TenantID, input.ProductID, locationID)
			if err != nil {
				return err
			}
			switch locationID {
			case input.FromLocationID:
				source = item
			default:
				dest = item
			}
		}

		if source == nil {
			return domain.ErrNotFound
		}
		if !source.IsActive {
			return domain.ErrInvalidState
		}
		if source.AvailableQuantity.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}

		if dest == nil {
			dest = &entity.StockItem{
				ID:                uuid.New().String(),
				TenantID:          input.TenantID,
				ProductID:         input.ProductID,
				ProductSKU:        source.ProductSKU,
				ProductName:       source.ProductName,
				LocationID:        input.ToLocationID,
				Bin:               source.Bin,
				TotalQuantity:     decimal.Zero,
				AvailableQuantity: decimal.Zero,
				ReservedQuantity:  decimal.Zero,
				AverageCostPrice:  source.AverageCostPrice,
				LastCostPrice:     source.LastCostPrice,
				IsActive:          true,
				CreatedBy:         input.ActorID,
				CreatedAt:         now,
			}
			if err := stockRepo.Create(ctx, dest); err != nil {
				return err
			}
		} else if !dest.IsActive {
			return domain.ErrInvalidState
		}

		unitCost := source.AverageCostPrice

		source.TotalQuantity = source.TotalQuantity.Sub(input.Quantity)
		source.AvailableQuantity = source.AvailableQuantity.Sub(input.Quantity)
		source.UpdatedAt = now

		dest.AverageCostPrice = domaininv.WeightedAverageCost(
			dest.TotalQuantity, dest.AverageCostPrice, input.Quantity, unitCost,
		)
		dest.LastCostPrice = unitCost
		dest.TotalQuantity = dest.TotalQuantity.Add(input.Quantity)
		dest.AvailableQuantity = dest.AvailableQuantity.Add(input.Quantity)
		dest.UpdatedAt = now

		if err := stockRepo.Update(ctx, source); err != nil {
			return err
		}
		if err := stockRepo.Update(ctx, dest); err != nil {
			return err
		}

		outEntry := uc.transferEntry(source, input, transferID, input.Quantity.Neg(), unitCost, now)
		inEntry := uc.transferEntry(dest, input, transferID, input.Quantity, unitCost, now)
		if err := ledgerRepo.Create(ctx, outEntry); err != nil {
			return err
		}
		if err := ledgerRepo.Create(ctx, inEntry); err != nil {
			return err
		}

		// Referencias cruzadas: única mutación permitida sobre una entrada ya escrita.
		if err := ledgerRepo.SetLinkedEntry(ctx, outEntry.ID, inEntry.ID); err != nil {
			return err
		}
		if err := ledgerRepo.SetLinkedEntry(ctx, inEntry.ID, outEntry.ID); err != nil {
			return err
		}
		outEntry.LinkedEntryID = inEntry.ID
		inEntry.LinkedEntryID = outEntry.ID

		result.OutEntry = outEntry
		result.InEntry = inEntry
		sourceID, destID = source.ID, dest.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Evaluación independiente por agregado: el fallo de una no afecta la otra.
	uc.dispatcher.Enqueue(alertJob(input.TenantID, sourceID, input.ActorID))
	uc.dispatcher.Enqueue(alertJob(input.TenantID, destID, input.ActorID))

	uc.log.Info().
		Str("tenant_id", input.TenantID).
		Str("transfer_id", transferID).
		Str("product_id", input.ProductID).
		Str("from", input.FromLocationID).
		Str("to", input.ToLocationID).
		Str("quantity", input.Quantity.String()).
		Msg("traslado registrado")
	return result, nil
}

func (uc *TransferUseCase) transferEntry(item *entity.StockItem, input TransferInput, transferID string, quantity, unitCost decimal.Decimal, now time.Time) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:             uuid.New().String(),
		TenantID:       item.TenantID,
		StockItemID:    item.ID,
		ProductID:      item.ProductID,
		ProductSKU:     item.ProductSKU,
		LocationID:     item.LocationID,
		Type:           entity.MovementTypeTRANSFER,
		Quantity:       quantity,
		UnitCost:       unitCost,
		TotalCost:      quantity.Mul(unitCost),
		Reason:         input.Reason,
		Reference:      input.Reference,
		TransferID:     transferID,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		BalanceAfter:   item.Balance(),
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}
}

func (uc *TransferUseCase) checkProduct(ctx context.Context, tenantID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if !product.Usable() {
		return nil, domain.ErrInvalidState
	}
	return product, nil
}

func (uc *TransferUseCase) checkLocation(ctx context.Context, tenantID, locationID string) error {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if location == nil || location.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if !location.Usable() {
		return domain.ErrInvalidState
	}
	return nil
}
