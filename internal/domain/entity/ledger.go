package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de stock.
const (
	LedgerReceipt     = "receipt"
	LedgerDelivery    = "delivery"
	LedgerTransferOut = "transfer_out"
	LedgerTransferIn  = "transfer_in"
	LedgerAdjustment  = "adjustment"
	LedgerReturn      = "return"
)

// LedgerEntry asiento inmutable del libro de stock. Cada mutación de saldo
// produce exactamente un asiento por movimiento lógico (los traslados
// producen dos: transfer_out y transfer_in). Invariante de conciliación:
// la suma de Quantity por (producto, bodega) en orden de creación es igual
// al StockBalance.Quantity vigente.
type LedgerEntry struct {
	ID              string
	ProductID       string
	WarehouseID     string
	BinID           string // opcional
	TransactionType string
	DocumentNumber  string
	Quantity        decimal.Decimal // delta con signo
	BalanceAfter    decimal.Decimal // saldo de la bodega después de aplicar
	Reference       string
	CreatedBy       string
	CreatedAt       time.Time
}
