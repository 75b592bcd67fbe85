package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// AuditFilter filtros para el listado de auditoría.
type AuditFilter struct {
	DocumentKind entity.DocumentKind
	DocumentID   string
	Action       string
	UserID       string
	WarehouseIDs []string
	Limit        int
	Offset       int
}

// AuditRepository puerto del log de auditoría (append-only).
type AuditRepository interface {
	Append(entry *entity.AuditEntry) error
	List(filter AuditFilter) ([]*entity.AuditEntry, error)
}
