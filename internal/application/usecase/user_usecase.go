package usecase

import (
	"github.com/tu-usuario/stockmaster-api/internal/application/auth"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// UserUseCase administración de usuarios: listado, rol y membresías de bodega.
type UserUseCase struct {
	repo          repository.UserRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, warehouseRepo repository.WarehouseRepository) *UserUseCase {
	return &UserUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return auth.ToUserResponse(user), nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(limit, offset int) ([]*dto.UserResponse, error) {
	users, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// SetRole cambia el rol de un usuario.
func (uc *UserUseCase) SetRole(id, role string) (*dto.UserResponse, error) {
	switch role {
	case entity.RoleAdmin, entity.RoleInventoryManager, entity.RoleWarehouseStaff:
	default:
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	user.Role = role
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// SetAllowedWarehouses reemplaza la lista blanca de bodegas del usuario.
// Cada bodega debe existir.
func (uc *UserUseCase) SetAllowedWarehouses(id string, warehouseIDs []string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	for _, warehouseID := range warehouseIDs {
		warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
	}
	if err := uc.repo.SetAllowedWarehouses(id, warehouseIDs); err != nil {
		return nil, err
	}
	user.AllowedWarehouseIDs = warehouseIDs
	return auth.ToUserResponse(user), nil
}
