package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// DocumentItemRequest línea de un documento a crear.
type DocumentItemRequest struct {
	ProductID        string           `json:"product_id"`
	BinID            string           `json:"bin_id,omitempty"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitOfMeasure    string           `json:"unit_of_measure,omitempty"` // stock | purchase
	CurrentQuantity  decimal.Decimal  `json:"current_quantity,omitempty"`
	ExpectedQuantity decimal.Decimal  `json:"expected_quantity,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Kind        string `json:"kind"`
	WarehouseID string `json:"warehouse_id"`
	Notes       string `json:"notes,omitempty"`

	Supplier          string `json:"supplier,omitempty"`
	SupplierReference string `json:"supplier_reference,omitempty"`

	Customer          string `json:"customer,omitempty"`
	CustomerReference string `json:"customer_reference,omitempty"`
	ShippingAddress   string `json:"shipping_address,omitempty"`

	ToWarehouseID string `json:"to_warehouse_id,omitempty"`

	Reason         string `json:"reason,omitempty"`
	AdjustmentType string `json:"adjustment_type,omitempty"` // increase | decrease | set

	DeliveryID  string `json:"delivery_id,omitempty"`
	Disposition string `json:"disposition,omitempty"` // restock | repair | scrap

	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	CountMethod   string     `json:"count_method,omitempty"` // full | partial | abc

	Items []DocumentItemRequest `json:"items"`
}

// SetStatusRequest body para PATCH /api/documents/:id/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// ApproveRequest body para POST /api/documents/:id/approve.
type ApproveRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CountRequest cantidad contada de una línea de conteo cíclico.
type CountRequest struct {
	ItemID          string          `json:"item_id"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// UpdateCountsRequest body para POST /api/documents/:id/counts.
type UpdateCountsRequest struct {
	Counts []CountRequest `json:"counts"`
}

// DocumentItemResponse línea en respuestas.
type DocumentItemResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	BinID            string           `json:"bin_id,omitempty"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitOfMeasure    string           `json:"unit_of_measure"`
	CurrentQuantity  decimal.Decimal  `json:"current_quantity,omitempty"`
	ExpectedQuantity decimal.Decimal  `json:"expected_quantity,omitempty"`
	CountedQuantity  *decimal.Decimal `json:"counted_quantity,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}

// DocumentResponse representación HTTP de un documento.
type DocumentResponse struct {
	ID               string     `json:"id"`
	Number           string     `json:"number"`
	Kind             string     `json:"kind"`
	Status           string     `json:"status"`
	WarehouseID      string     `json:"warehouse_id"`
	CreatedBy        string     `json:"created_by"`
	Notes            string     `json:"notes,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	Supplier          string `json:"supplier,omitempty"`
	SupplierReference string `json:"supplier_reference,omitempty"`
	Customer          string `json:"customer,omitempty"`
	CustomerReference string `json:"customer_reference,omitempty"`
	ShippingAddress   string `json:"shipping_address,omitempty"`
	ToWarehouseID     string `json:"to_warehouse_id,omitempty"`
	Reason            string `json:"reason,omitempty"`
	AdjustmentType    string `json:"adjustment_type,omitempty"`
	DeliveryID        string `json:"delivery_id,omitempty"`
	Disposition       string `json:"disposition,omitempty"`

	ScheduledDate         *time.Time `json:"scheduled_date,omitempty"`
	CountMethod           string     `json:"count_method,omitempty"`
	GeneratedAdjustmentID string     `json:"generated_adjustment_id,omitempty"`

	Items []DocumentItemResponse `json:"items"`
}

// ToDocumentResponse aplana el documento (payload del kind incluido) para HTTP.
func ToDocumentResponse(d *entity.Document) *DocumentResponse {
	if d == nil {
		return nil
	}
	resp := &DocumentResponse{
		ID:               d.ID,
		Number:           d.Number,
		Kind:             string(d.Kind),
		Status:           string(d.Status),
		WarehouseID:      d.WarehouseID,
		CreatedBy:        d.CreatedBy,
		Notes:            d.Notes,
		RequiresApproval: d.RequiresApproval,
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		CompletedAt:      d.CompletedAt,
	}
	if d.Receipt != nil {
		resp.Supplier = d.Receipt.Supplier
		resp.SupplierReference = d.Receipt.SupplierReference
	}
	if d.Delivery != nil {
		resp.Customer = d.Delivery.Customer
		resp.CustomerReference = d.Delivery.CustomerReference
		resp.ShippingAddress = d.Delivery.ShippingAddress
	}
	if d.Transfer != nil {
		resp.ToWarehouseID = d.Transfer.ToWarehouseID
	}
	if d.Adjustment != nil {
		resp.Reason = d.Adjustment.Reason
		resp.AdjustmentType = d.Adjustment.AdjustmentType
	}
	if d.Return != nil {
		resp.DeliveryID = d.Return.DeliveryID
		resp.Reason = d.Return.Reason
		resp.Disposition = d.Return.Disposition
	}
	if d.CycleCount != nil {
		resp.ScheduledDate = d.CycleCount.ScheduledDate
		resp.CountMethod = d.CycleCount.Method
		resp.GeneratedAdjustmentID = d.CycleCount.GeneratedAdjustmentID
	}
	resp.Items = make([]DocumentItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		resp.Items = append(resp.Items, DocumentItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			BinID:            item.BinID,
			Quantity:         item.Quantity,
			UnitOfMeasure:    item.UnitOfMeasure,
			CurrentQuantity:  item.CurrentQuantity,
			ExpectedQuantity: item.ExpectedQuantity,
			CountedQuantity:  item.CountedQuantity,
			UnitPrice:        item.UnitPrice,
			Reason:           item.Reason,
		})
	}
	return resp
}
