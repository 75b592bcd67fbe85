package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// WarehouseRepository puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	List(limit, offset int) ([]*entity.Warehouse, error)
	// GetQuarantine devuelve la bodega de cuarentena activa, o nil si no hay.
	GetQuarantine() (*entity.Warehouse, error)
	Delete(id string) error
}

// BinRepository puerto de persistencia para ubicaciones (bins).
type BinRepository interface {
	Create(bin *entity.BinLocation) error
	GetByID(id string) (*entity.BinLocation, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.BinLocation, error)
	Delete(id string) error
}
