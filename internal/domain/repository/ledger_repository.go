package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// LedgerFilter filtros para el listado del libro de stock.
type LedgerFilter struct {
	ProductID       string
	WarehouseIDs    []string
	TransactionType string
	DocumentNumber  string
	Limit           int
	Offset          int
}

// LedgerRepository puerto append-only del libro de stock. No hay Update ni
// Delete: los asientos son inmutables.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	List(filter LedgerFilter) ([]*entity.LedgerEntry, error)
}
