package documents

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento emitidos tras una completación exitosa.
const (
	EventReceiptCompleted    = "receipt_completed"
	EventDeliveryCompleted   = "delivery_completed"
	EventTransferCompleted   = "transfer_completed"
	EventAdjustmentCompleted = "adjustment_completed"
	EventReturnCompleted     = "return_completed"
	EventCycleCountCompleted = "cycle_count_completed"
	EventStockChange         = "stock_change"
)

// ItemDelta movimiento neto de una línea, en unidades de stock.
type ItemDelta struct {
	ProductID     string          `json:"product_id"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	BinID         string          `json:"bin_id,omitempty"`
}

// CompletedEvent payload emitido una vez por documento completado.
type CompletedEvent struct {
	DocumentNumber string      `json:"document_number"`
	WarehouseID    string      `json:"warehouse_id"`
	Items          []ItemDelta `json:"items"`
	CompletedAt    time.Time   `json:"completed_at"`
}

// StockChangeEvent variante genérica con la fuente del cambio.
type StockChangeEvent struct {
	CompletedEvent
	Source string `json:"source"`
}
