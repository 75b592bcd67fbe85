package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalPolicy política configurable que decide cuándo un documento
// requiere aprobación. WarehouseID vacío = política global. Threshold nil =
// siempre requiere aprobación al hacer match; si no, requiere cuando el
// total calculado >= threshold.
type ApprovalPolicy struct {
	ID                     string
	DocumentKind           DocumentKind
	WarehouseID            string
	ThresholdTotalQuantity *decimal.Decimal
	IsActive               bool
	CreatedAt              time.Time
}

// Approval registro de aprobación. Único por (DocumentKind, DocumentID);
// un segundo intento de aprobación se rechaza.
type Approval struct {
	ID           string
	DocumentKind DocumentKind
	DocumentID   string
	ApproverID   string
	ApprovedAt   time.Time
	Notes        string
}
