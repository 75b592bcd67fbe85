package dto

import (
	"time"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address,omitempty"`
	IsQuarantine bool   `json:"is_quarantine,omitempty"`
}

// UpdateWarehouseRequest body para PUT /api/warehouses/:id.
type UpdateWarehouseRequest struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	IsQuarantine *bool   `json:"is_quarantine,omitempty"`
}

// WarehouseResponse bodega en respuestas.
type WarehouseResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsQuarantine bool      `json:"is_quarantine"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToWarehouseResponse mapea la bodega para HTTP.
func ToWarehouseResponse(w *entity.Warehouse) *WarehouseResponse {
	if w == nil {
		return nil
	}
	return &WarehouseResponse{
		ID:           w.ID,
		Code:         w.Code,
		Name:         w.Name,
		Address:      w.Address,
		IsActive:     w.IsActive,
		IsQuarantine: w.IsQuarantine,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// CreateBinRequest body para POST /api/warehouses/:id/bins.
type CreateBinRequest struct {
	Code        string `json:"code" validate:"required"`
	Description string `json:"description,omitempty"`
}

// BinResponse ubicación en respuestas.
type BinResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToBinResponse mapea la ubicación para HTTP.
func ToBinResponse(b *entity.BinLocation) *BinResponse {
	if b == nil {
		return nil
	}
	return &BinResponse{
		ID:          b.ID,
		WarehouseID: b.WarehouseID,
		Code:        b.Code,
		Description: b.Description,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
	}
}
