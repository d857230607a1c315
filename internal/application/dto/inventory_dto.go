package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartkubik/inventory-core/internal/domain/entity"
)

// CreateStockItemRequest body para POST /api/stock-items.
type CreateStockItemRequest struct {
	ProductID       string          `json:"product_id"`
	LocationID      string          `json:"location_id"`
	Bin             string          `json:"bin,omitempty"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	InitialCost     decimal.Decimal `json:"initial_cost"`
}

// CreateMovementRequest body para POST /api/inventory/movements.
// type: IN, OUT o ADJUSTMENT. En ADJUSTMENT quantity es el delta neto firmado.
// enforce_stock por defecto true; false permite saldo negativo (reversas).
type CreateMovementRequest struct {
	ProductID    string           `json:"product_id"`
	LocationID   string           `json:"location_id"`
	Type         string           `json:"type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	EnforceStock *bool            `json:"enforce_stock,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	OrderID      string           `json:"order_id,omitempty"`
	Bin          string           `json:"bin,omitempty"`
	NewCost      *decimal.Decimal `json:"new_cost,omitempty"`
}

// CreateTransferRequest body para POST /api/inventory/transfers.
type CreateTransferRequest struct {
	ProductID      string          `json:"product_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// ReserveRequest body para POST /api/inventory/reservations.
type ReserveRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderID    string          `json:"order_id"`
}

// ReleaseRequest body para POST /api/inventory/releases.
type ReleaseRequest struct {
	OrderID    string   `json:"order_id"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

// MovementListRequest query params para GET /api/inventory/movements.
type MovementListRequest struct {
	PageRequest
	Type       string `query:"type"`
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	OrderID    string `query:"order_id"`
	DateFrom   string `query:"date_from"` // RFC 3339
	DateTo     string `query:"date_to"`
}

// BalanceDTO foto de saldos posterior a un movimiento.
type BalanceDTO struct {
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AverageCostPrice  decimal.Decimal `json:"average_cost_price"`
}

// LedgerEntryDTO representación HTTP de una entrada del ledger.
type LedgerEntryDTO struct {
	ID             string          `json:"id"`
	StockItemID    string          `json:"stock_item_id"`
	ProductID      string          `json:"product_id"`
	ProductSKU     string          `json:"product_sku"`
	LocationID     string          `json:"location_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Reason         string          `json:"reason,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	OrderID        string          `json:"order_id,omitempty"`
	TransferID     string          `json:"transfer_id,omitempty"`
	LinkedEntryID  string          `json:"linked_entry_id,omitempty"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	BalanceAfter   BalanceDTO      `json:"balance_after"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewLedgerEntryDTO convierte la entidad a su representación HTTP.
func NewLedgerEntryDTO(e *entity.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:             e.ID,
		StockItemID:    e.StockItemID,
		ProductID:      e.ProductID,
		ProductSKU:     e.ProductSKU,
		LocationID:     e.LocationID,
		Type:           e.Type,
		Quantity:       e.Quantity,
		UnitCost:       e.UnitCost,
		TotalCost:      e.TotalCost,
		Reason:         e.Reason,
		Reference:      e.Reference,
		OrderID:        e.OrderID,
		TransferID:     e.TransferID,
		LinkedEntryID:  e.LinkedEntryID,
		FromLocationID: e.FromLocationID,
		ToLocationID:   e.ToLocationID,
		BalanceAfter: BalanceDTO{
			TotalQuantity:     e.BalanceAfter.TotalQuantity,
			AvailableQuantity: e.BalanceAfter.AvailableQuantity,
			ReservedQuantity:  e.BalanceAfter.ReservedQuantity,
			AverageCostPrice:  e.BalanceAfter.AverageCostPrice,
		},
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
}

// StockItemDTO representación HTTP del agregado de stock.
type StockItemDTO struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductSKU        string          `json:"product_sku"`
	ProductName       string          `json:"product_name"`
	LocationID        string          `json:"location_id"`
	Bin               string          `json:"bin,omitempty"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AverageCostPrice  decimal.Decimal `json:"average_cost_price"`
	LastCostPrice     decimal.Decimal `json:"last_cost_price"`
	IsActive          bool            `json:"is_active"`
	LowStock          bool            `json:"low_stock"`
	LastAlertSent     *time.Time      `json:"last_alert_sent,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewStockItemDTO convierte la entidad a su representación HTTP.
func NewStockItemDTO(s *entity.StockItem) StockItemDTO {
	return StockItemDTO{
		ID:                s.ID,
		ProductID:         s.ProductID,
		ProductSKU:        s.ProductSKU,
		ProductName:       s.ProductName,
		LocationID:        s.LocationID,
		Bin:               s.Bin,
		TotalQuantity:     s.TotalQuantity,
		AvailableQuantity: s.AvailableQuantity,
		ReservedQuantity:  s.ReservedQuantity,
		AverageCostPrice:  s.AverageCostPrice,
		LastCostPrice:     s.LastCostPrice,
		IsActive:          s.IsActive,
		LowStock:          s.Alerts.LowStock,
		LastAlertSent:     s.Alerts.LastAlertSent,
		UpdatedAt:         s.UpdatedAt,
	}
}
