package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o SKU del catálogo. StockUnit es la unidad canónica de
// inventario; PurchaseUnit es opcional y ConversionFactor indica cuántas
// unidades de stock equivalen a una unidad de compra.
type Product struct {
	ID               string
	SKU              string // único
	Name             string
	Description      string
	Barcode          string
	StockUnit        string
	PurchaseUnit     string
	ConversionFactor decimal.Decimal // default 1
	DefaultBinID     string          // bin de put-away preferido, opcional
	ReorderLevel     decimal.Decimal
	ReorderQuantity  decimal.Decimal
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectiveConversionFactor factor a aplicar a cantidades en unidad de compra.
func (p *Product) EffectiveConversionFactor() decimal.Decimal {
	if p.ConversionFactor.IsZero() {
		return decimal.NewFromInt(1)
	}
	return p.ConversionFactor
}
