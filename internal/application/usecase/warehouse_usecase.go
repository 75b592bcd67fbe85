package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas y sus ubicaciones (bins).
type WarehouseUseCase struct {
	repo    repository.WarehouseRepository
	binRepo repository.BinRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, binRepo repository.BinRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, binRepo: binRepo}
}

// Create crea una bodega activa.
func (uc *WarehouseUseCase) Create(in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		Address:      in.Address,
		IsActive:     true,
		IsQuarantine: in.IsQuarantine,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega; solo los campos presentes.
func (uc *WarehouseUseCase) Update(id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	if in.IsActive != nil {
		warehouse.IsActive = *in.IsActive
	}
	if in.IsQuarantine != nil {
		warehouse.IsQuarantine = *in.IsQuarantine
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// List lista bodegas paginadas.
func (uc *WarehouseUseCase) List(limit, offset int) ([]*dto.WarehouseResponse, error) {
	warehouses, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, dto.ToWarehouseResponse(w))
	}
	return out, nil
}

// Delete elimina una bodega.
func (uc *WarehouseUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// CreateBin crea una ubicación dentro de la bodega.
func (uc *WarehouseUseCase) CreateBin(warehouseID string, in dto.CreateBinRequest) (*dto.BinResponse, error) {
	warehouse, err := uc.repo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	bin := &entity.BinLocation{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Code:        in.Code,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := uc.binRepo.Create(bin); err != nil {
		return nil, err
	}
	return dto.ToBinResponse(bin), nil
}

// ListBins lista las ubicaciones de una bodega.
func (uc *WarehouseUseCase) ListBins(warehouseID string, limit, offset int) ([]*dto.BinResponse, error) {
	bins, err := uc.binRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BinResponse, 0, len(bins))
	for _, b := range bins {
		out = append(out, dto.ToBinResponse(b))
	}
	return out, nil
}
