package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// CreatePolicyRequest body para POST /api/policies. Threshold nulo significa
// "siempre requiere aprobación"; WarehouseID vacío, política global.
type CreatePolicyRequest struct {
	DocumentKind           string           `json:"document_kind" validate:"required"`
	WarehouseID            string           `json:"warehouse_id,omitempty"`
	ThresholdTotalQuantity *decimal.Decimal `json:"threshold_total_quantity,omitempty"`
}

// UpdatePolicyRequest body para PUT /api/policies/:id.
type UpdatePolicyRequest struct {
	ThresholdTotalQuantity *decimal.Decimal `json:"threshold_total_quantity,omitempty"`
	ClearThreshold         bool             `json:"clear_threshold,omitempty"`
	IsActive               *bool            `json:"is_active,omitempty"`
}

// PolicyResponse política en respuestas.
type PolicyResponse struct {
	ID                     string           `json:"id"`
	DocumentKind           string           `json:"document_kind"`
	WarehouseID            string           `json:"warehouse_id,omitempty"`
	ThresholdTotalQuantity *decimal.Decimal `json:"threshold_total_quantity,omitempty"`
	IsActive               bool             `json:"is_active"`
	CreatedAt              time.Time        `json:"created_at"`
}

// ToPolicyResponse mapea la política para HTTP.
func ToPolicyResponse(p *entity.ApprovalPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}
	return &PolicyResponse{
		ID:                     p.ID,
		DocumentKind:           string(p.DocumentKind),
		WarehouseID:            p.WarehouseID,
		ThresholdTotalQuantity: p.ThresholdTotalQuantity,
		IsActive:               p.IsActive,
		CreatedAt:              p.CreatedAt,
	}
}
