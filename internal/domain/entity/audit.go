package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables sobre documentos.
const (
	AuditActionValidation   = "validation"
	AuditActionApproval     = "approval"
	AuditActionStatusChange = "status_change"
	AuditActionAccessChange = "access_change"
)

// AuditEntry registro narrativo de una acción crítica, independiente del
// libro numérico de stock. Before/After guardan snapshots JSON (ej. estado).
type AuditEntry struct {
	ID           string
	DocumentKind DocumentKind
	DocumentID   string
	Action       string
	WarehouseID  string // opcional, habilita revisión de auditoría por bodega
	UserID       string
	Message      string
	Before       json.RawMessage
	After        json.RawMessage
	CreatedAt    time.Time
}
