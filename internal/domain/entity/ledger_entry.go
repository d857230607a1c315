package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de inventario.
const (
	MovementTypeIN          = "IN"          // entrada
	MovementTypeOUT         = "OUT"         // salida
	MovementTypeADJUSTMENT  = "ADJUSTMENT"  // ajuste con delta firmado
	MovementTypeTRANSFER    = "TRANSFER"    // traslado entre ubicaciones (par enlazado)
	MovementTypeRESERVATION = "RESERVATION" // disponible -> reservado (por orden)
	MovementTypeRELEASE     = "RELEASE"     // reservado -> disponible (por orden)
)

// Balance foto de saldos del agregado inmediatamente después de aplicar un movimiento.
type Balance struct {
	TotalQuantity     decimal.Decimal
	AvailableQuantity decimal.Decimal
	ReservedQuantity  decimal.Decimal
	AverageCostPrice  decimal.Decimal
}

// LedgerEntry registro inmutable de un evento que afecta stock (pista de auditoría).
// Quantity lleva el signo del delta aplicado al saldo correspondiente: entradas
// positivas, salidas negativas, ajustes con su signo neto.
// Una vez escrito solo admite una mutación: poblar LinkedEntryID con su pareja
// de traslado.
type LedgerEntry struct {
	ID          string
	TenantID    string
	StockItemID string
	ProductID   string
	ProductSKU  string
	LocationID  string
	Type        string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	Reason      string
	Reference   string
	OrderID     string // guarda de idempotencia para el flujo de órdenes

	// Solo traslados.
	TransferID     string
	LinkedEntryID  string
	FromLocationID string
	ToLocationID   string

	BalanceAfter Balance

	CreatedBy string
	CreatedAt time.Time
}
