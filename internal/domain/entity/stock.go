package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance saldo actual de un producto en una bodega (agregado de bins).
// Se crea perezosamente con el primer movimiento y nunca se borra, solo se
// deja en cero. Invariante: Quantity >= 0.
type StockBalance struct {
	ProductID        string
	WarehouseID      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// Available cantidad disponible (total - reservada). La gestión de reservas
// queda fuera del motor; aquí es contexto de solo lectura.
func (s *StockBalance) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// BinStockBalance saldo a nivel de ubicación (bin) dentro de una bodega.
// StockBalance sigue siendo el agregado por bodega.
type BinStockBalance struct {
	ProductID        string
	WarehouseID      string
	BinID            string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}
