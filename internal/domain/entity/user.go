package entity

import "time"

// Roles de usuario. admin no tiene restricción de bodegas.
const (
	RoleAdmin            = "admin"
	RoleInventoryManager = "inventory_manager"
	RoleWarehouseStaff   = "warehouse_staff"
)

// User usuario autenticable de la plataforma.
// AllowedWarehouseIDs es la lista blanca de bodegas para roles no-admin.
type User struct {
	ID                  string
	Email               string // único
	PasswordHash        string
	Name                string
	Role                string
	Status              string // active | disabled
	AllowedWarehouseIDs []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
