package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// UserRepository puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	// SetAllowedWarehouses reemplaza la lista blanca de bodegas del usuario.
	SetAllowedWarehouses(userID string, warehouseIDs []string) error
	List(limit, offset int) ([]*entity.User, error)
}
