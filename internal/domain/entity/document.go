package entity

import (
	"time"
)

// DocumentKind tipo de documento de inventario.
type DocumentKind string

const (
	KindReceipt    DocumentKind = "receipt"
	KindDelivery   DocumentKind = "delivery"
	KindTransfer   DocumentKind = "transfer"
	KindAdjustment DocumentKind = "adjustment"
	KindReturn     DocumentKind = "return"
	KindCycleCount DocumentKind = "cycle_count"
)

// NumberPrefix devuelve el prefijo del consecutivo para el tipo (REC-000001, ...).
func (k DocumentKind) NumberPrefix() string {
	switch k {
	case KindReceipt:
		return "REC"
	case KindDelivery:
		return "DEL"
	case KindTransfer:
		return "TRF"
	case KindAdjustment:
		return "ADJ"
	case KindReturn:
		return "RET"
	case KindCycleCount:
		return "CC"
	}
	return "DOC"
}

// Valid indica si el kind es uno de los seis soportados.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindReceipt, KindDelivery, KindTransfer, KindAdjustment, KindReturn, KindCycleCount:
		return true
	}
	return false
}

// DocumentStatus estado del flujo draft → waiting → ready → done / canceled.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "draft"
	StatusWaiting  DocumentStatus = "waiting"
	StatusReady    DocumentStatus = "ready"
	StatusDone     DocumentStatus = "done"
	StatusCanceled DocumentStatus = "canceled"
)

// Terminal indica si el estado no admite más transiciones.
func (s DocumentStatus) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Tipos de ajuste de stock.
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
	AdjustmentSet      = "set"
)

// Disposiciones de devolución.
const (
	DispositionRestock = "restock"
	DispositionRepair  = "repair"
	DispositionScrap   = "scrap"
)

// Métodos de conteo cíclico.
const (
	CountMethodFull    = "full"
	CountMethodPartial = "partial"
	CountMethodABC     = "abc"
)

// ReceiptData campos propios de una recepción.
type ReceiptData struct {
	Supplier          string
	SupplierReference string
}

// DeliveryData campos propios de una entrega.
type DeliveryData struct {
	Customer          string
	CustomerReference string
	ShippingAddress   string
}

// TransferData campos propios de un traslado entre bodegas.
type TransferData struct {
	ToWarehouseID string
}

// AdjustmentData campos propios de un ajuste de stock.
type AdjustmentData struct {
	Reason         string
	AdjustmentType string // increase, decrease, set
}

// ReturnData campos propios de una devolución de cliente (RMA).
type ReturnData struct {
	DeliveryID  string // documento de entrega asociado, opcional
	Reason      string
	Disposition string // restock, repair, scrap
}

// CycleCountData campos propios de una tarea de conteo cíclico.
type CycleCountData struct {
	ScheduledDate *time.Time
	Method        string // full, partial, abc
	// GeneratedAdjustmentID referencia al ajuste generado al cerrar con varianzas.
	GeneratedAdjustmentID string
}

// Document documento de inventario. Un solo struct para los seis tipos:
// el Kind discrimina y el payload correspondiente viene poblado; el resto nil.
type Document struct {
	ID          string
	Number      string // consecutivo legible, único (REC-000001)
	Kind        DocumentKind
	Status      DocumentStatus
	WarehouseID string
	CreatedBy   string
	Notes       string

	// Flujo de aprobación. ApprovedBy y ApprovedAt van juntos: ambos o ninguno.
	RequiresApproval bool
	ApprovedBy       string
	ApprovedAt       *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time // seteado si y solo si Status == done

	Receipt    *ReceiptData
	Delivery   *DeliveryData
	Transfer   *TransferData
	Adjustment *AdjustmentData
	Return     *ReturnData
	CycleCount *CycleCountData

	Items []DocumentItem
}

// IsApproved indica si el documento fue aprobado.
func (d *Document) IsApproved() bool {
	return d.ApprovedBy != "" && d.ApprovedAt != nil
}

// CanComplete indica si el gate de aprobación permite completar.
func (d *Document) CanComplete() bool {
	if !d.RequiresApproval {
		return true
	}
	return d.IsApproved()
}
