package stock

import (
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre saldos, libro de stock y
// auditoría, con el scoping de bodegas del actor aplicado.
type QueryUseCase struct {
	stockRepo  repository.StockRepository
	ledgerRepo repository.LedgerRepository
	auditRepo  repository.AuditRepository
	scoping    rbac.ScopingPolicy
}

// NewQueryUseCase construye las consultas de stock.
func NewQueryUseCase(stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository, auditRepo repository.AuditRepository, scoping rbac.ScopingPolicy) *QueryUseCase {
	return &QueryUseCase{stockRepo: stockRepo, ledgerRepo: ledgerRepo, auditRepo: auditRepo, scoping: scoping}
}

// GetBalance saldo de un producto en una bodega. Sin fila devuelve el saldo
// en cero en lugar de not found.
func (uc *QueryUseCase) GetBalance(actor *entity.User, productID, warehouseID string) (*entity.StockBalance, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapProductsRead) {
		return nil, domain.ErrForbidden
	}
	if !uc.scoping.CanAccessWarehouse(actor, warehouseID) {
		return nil, domain.ErrForbidden
	}
	balance, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		balance = &entity.StockBalance{ProductID: productID, WarehouseID: warehouseID}
	}
	return balance, nil
}

// ListBalances saldos en las bodegas visibles para el actor.
func (uc *QueryUseCase) ListBalances(actor *entity.User, warehouseIDs []string, limit, offset int) ([]*entity.StockBalance, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapProductsRead) {
		return nil, domain.ErrForbidden
	}
	scoped := uc.scoping.FilterWarehouses(actor, warehouseIDs)
	if scoped != nil && len(scoped) == 0 {
		return []*entity.StockBalance{}, nil
	}
	return uc.stockRepo.ListByWarehouses(scoped, limit, offset)
}

// ListLedger asientos del libro de stock dentro del alcance del actor.
func (uc *QueryUseCase) ListLedger(actor *entity.User, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsRead) {
		return nil, domain.ErrForbidden
	}
	filter.WarehouseIDs = uc.scoping.FilterWarehouses(actor, filter.WarehouseIDs)
	if filter.WarehouseIDs != nil && len(filter.WarehouseIDs) == 0 {
		return []*entity.LedgerEntry{}, nil
	}
	return uc.ledgerRepo.List(filter)
}

// ListAudit registros de auditoría; requiere audit.read.
func (uc *QueryUseCase) ListAudit(actor *entity.User, filter repository.AuditFilter) ([]*entity.AuditEntry, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapAuditRead) {
		return nil, domain.ErrForbidden
	}
	filter.WarehouseIDs = uc.scoping.FilterWarehouses(actor, filter.WarehouseIDs)
	if filter.WarehouseIDs != nil && len(filter.WarehouseIDs) == 0 {
		return []*entity.AuditEntry{}, nil
	}
	return uc.auditRepo.List(filter)
}
