package documents

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD. El motor los
// recibe completos porque una completación toca documentos, saldos, libro,
// aprobaciones y auditoría dentro del mismo límite transaccional.
type TxRepos struct {
	Documents  repository.DocumentRepository
	Stock      repository.StockRepository
	BinStock   repository.BinStockRepository
	Ledger     repository.LedgerRepository
	Approvals  repository.ApprovalRepository
	Audit      repository.AuditRepository
	Sequences  repository.SequenceRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Bins       repository.BinRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor: los
// asientos del libro y las escrituras de saldo de un documento se confirman
// juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// EventEmitter canal lateral post-completación (webhooks, notificaciones,
// dashboards). La emisión es best-effort: un fallo se registra y nunca
// aborta la transacción ni la auditoría.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload any)
}
