package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// StockRepository puerto para consultar/actualizar saldos por bodega+producto.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) durante la transacción del
// documento: la secuencia leer-verificar-escribir de un saldo debe ejecutar
// serializada para evitar sobre-compromiso de stock entre completaciones
// concurrentes.
type StockRepository interface {
	Get(productID, warehouseID string) (*entity.StockBalance, error)
	GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	ListByWarehouses(warehouseIDs []string, limit, offset int) ([]*entity.StockBalance, error)
}

// BinStockRepository puerto para saldos a nivel de ubicación (bin).
type BinStockRepository interface {
	Get(productID, warehouseID, binID string) (*entity.BinStockBalance, error)
	GetForUpdate(productID, warehouseID, binID string) (*entity.BinStockBalance, error)
	Upsert(balance *entity.BinStockBalance) error
}
