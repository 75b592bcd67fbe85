package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU              string          `json:"sku" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description,omitempty"`
	Barcode          string          `json:"barcode,omitempty"`
	StockUnit        string          `json:"stock_unit,omitempty"`
	PurchaseUnit     string          `json:"purchase_unit,omitempty"`
	ConversionFactor decimal.Decimal `json:"conversion_factor,omitempty"` // unidades de stock por unidad de compra
	DefaultBinID     string          `json:"default_bin_id,omitempty"`
	ReorderLevel     decimal.Decimal `json:"reorder_level,omitempty"`
	ReorderQuantity  decimal.Decimal `json:"reorder_quantity,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Punteros: solo se
// actualiza lo presente.
type UpdateProductRequest struct {
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Barcode          *string          `json:"barcode,omitempty"`
	StockUnit        *string          `json:"stock_unit,omitempty"`
	PurchaseUnit     *string          `json:"purchase_unit,omitempty"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor,omitempty"`
	DefaultBinID     *string          `json:"default_bin_id,omitempty"`
	ReorderLevel     *decimal.Decimal `json:"reorder_level,omitempty"`
	ReorderQuantity  *decimal.Decimal `json:"reorder_quantity,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Barcode          string          `json:"barcode,omitempty"`
	StockUnit        string          `json:"stock_unit"`
	PurchaseUnit     string          `json:"purchase_unit,omitempty"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	DefaultBinID     string          `json:"default_bin_id,omitempty"`
	ReorderLevel     decimal.Decimal `json:"reorder_level"`
	ReorderQuantity  decimal.Decimal `json:"reorder_quantity"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToProductResponse mapea el producto para HTTP.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Description:      p.Description,
		Barcode:          p.Barcode,
		StockUnit:        p.StockUnit,
		PurchaseUnit:     p.PurchaseUnit,
		ConversionFactor: p.EffectiveConversionFactor(),
		DefaultBinID:     p.DefaultBinID,
		ReorderLevel:     p.ReorderLevel,
		ReorderQuantity:  p.ReorderQuantity,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
