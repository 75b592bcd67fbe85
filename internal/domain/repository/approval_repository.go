package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// ApprovalRepository puerto de registros de aprobación. Create debe fallar
// con domain.ErrDuplicateApproval si ya existe un registro para
// (DocumentKind, DocumentID).
type ApprovalRepository interface {
	Create(approval *entity.Approval) error
	GetByDocument(kind entity.DocumentKind, documentID string) (*entity.Approval, error)
	ListByDocument(kind entity.DocumentKind, documentID string) ([]*entity.Approval, error)
}

// PolicyRepository puerto de políticas de aprobación.
type PolicyRepository interface {
	Create(policy *entity.ApprovalPolicy) error
	GetByID(id string) (*entity.ApprovalPolicy, error)
	Update(policy *entity.ApprovalPolicy) error
	// ListActive políticas activas para un kind, específicas de la bodega o
	// globales (WarehouseID vacío), las específicas primero.
	ListActive(kind entity.DocumentKind, warehouseID string) ([]*entity.ApprovalPolicy, error)
	List(limit, offset int) ([]*entity.ApprovalPolicy, error)
	Delete(id string) error
}
