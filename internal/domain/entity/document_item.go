package entity

import "github.com/shopspring/decimal"

// Unidad de medida de una línea: unidad de stock o unidad de compra.
const (
	UnitStock    = "stock"
	UnitPurchase = "purchase"
)

// DocumentItem línea de un documento. Los campos extra aplican según el tipo:
// CurrentQuantity en ajustes, Expected/CountedQuantity en conteos cíclicos,
// UnitPrice en recepciones.
type DocumentItem struct {
	ID         string
	DocumentID string
	ProductID  string
	BinID      string // ubicación opcional (put-away / picking / destino)

	Quantity      decimal.Decimal
	UnitOfMeasure string // stock | purchase

	CurrentQuantity  decimal.Decimal  // ajustes: cantidad actual, puede ser 0
	ExpectedQuantity decimal.Decimal  // conteos: cantidad esperada
	CountedQuantity  *decimal.Decimal // conteos: cantidad contada, nil = sin contar

	UnitPrice *decimal.Decimal
	Reason    string
}

// StockQuantity convierte la cantidad de la línea a unidades de stock usando
// el factor de conversión del producto (unidades de stock por unidad de compra).
func (i DocumentItem) StockQuantity(conversionFactor decimal.Decimal) decimal.Decimal {
	if i.UnitOfMeasure != UnitPurchase {
		return i.Quantity
	}
	factor := conversionFactor
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}
	return i.Quantity.Mul(factor)
}

// Variance diferencia contado - esperado en una línea de conteo cíclico.
// Una línea sin contar tiene varianza cero.
func (i DocumentItem) Variance() decimal.Decimal {
	if i.CountedQuantity == nil {
		return decimal.Zero
	}
	return i.CountedQuantity.Sub(i.ExpectedQuantity)
}
