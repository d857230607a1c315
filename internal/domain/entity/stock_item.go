package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertFlags estado de alertas del stock. LowStock es de solo-marcado: el evaluador
// lo enciende y únicamente el reconocimiento manual lo apaga.
type AlertFlags struct {
	LowStock      bool
	LastAlertSent *time.Time
}

// StockItem representa el stock actual de un producto en una ubicación
// (agregado denormalizado por tenant+producto+ubicación).
// Invariante: TotalQuantity == AvailableQuantity + ReservedQuantity.
// Solo lo muta el servicio de movimientos; nunca se elimina, se desactiva.
type StockItem struct {
	ID          string
	TenantID    string
	ProductID   string
	ProductSKU  string
	ProductName string
	LocationID  string
	Bin         string // ubicación fina dentro de la bodega (pasillo/estante)

	TotalQuantity     decimal.Decimal
	AvailableQuantity decimal.Decimal
	ReservedQuantity  decimal.Decimal
	AverageCostPrice  decimal.Decimal // promedio ponderado, recalculado en entradas
	LastCostPrice     decimal.Decimal

	IsActive bool
	Alerts   AlertFlags

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance devuelve la foto de saldos para registrar como balanceAfter en el ledger.
func (s *StockItem) Balance() Balance {
	return Balance{
		TotalQuantity:     s.TotalQuantity,
		AvailableQuantity: s.AvailableQuantity,
		ReservedQuantity:  s.ReservedQuantity,
		AverageCostPrice:  s.AverageCostPrice,
	}
}

// Consistent verifica el invariante total = disponible + reservado.
func (s *StockItem) Consistent() bool {
	return s.TotalQuantity.Equal(s.AvailableQuantity.Add(s.ReservedQuantity))
}
