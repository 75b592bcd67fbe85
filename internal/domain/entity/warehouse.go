package entity

import "time"

// Warehouse bodega o sucursal donde se almacena inventario.
// IsQuarantine marca la bodega de cuarentena hacia la que se enrutan las
// devoluciones de cliente cuando está activa.
type Warehouse struct {
	ID           string
	Code         string // único
	Name         string
	Address      string
	IsActive     bool
	IsQuarantine bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BinLocation ubicación física (estante/bin) dentro de una bodega, ej. A1-01.
// Code es único por bodega.
type BinLocation struct {
	ID          string
	WarehouseID string
	Code        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
