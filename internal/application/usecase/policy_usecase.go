package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// PolicyUseCase administración de políticas de aprobación. Los cambios no
// son retroactivos: el gate de un documento se estampa al crearlo.
type PolicyUseCase struct {
	repo          repository.PolicyRepository
	warehouseRepo repository.WarehouseRepository
}

// NewPolicyUseCase construye el caso de uso.
func NewPolicyUseCase(repo repository.PolicyRepository, warehouseRepo repository.WarehouseRepository) *PolicyUseCase {
	return &PolicyUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// Create crea una política activa.
func (uc *PolicyUseCase) Create(in dto.CreatePolicyRequest) (*dto.PolicyResponse, error) {
	kind := entity.DocumentKind(in.DocumentKind)
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.ThresholdTotalQuantity != nil && in.ThresholdTotalQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID != "" {
		warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
	}
	policy := &entity.ApprovalPolicy{
		ID:                     uuid.New().String(),
		DocumentKind:           kind,
		WarehouseID:            in.WarehouseID,
		ThresholdTotalQuantity: in.ThresholdTotalQuantity,
		IsActive:               true,
		CreatedAt:              time.Now(),
	}
	if err := uc.repo.Create(policy); err != nil {
		return nil, err
	}
	return dto.ToPolicyResponse(policy), nil
}

// Update actualiza umbral y estado. ClearThreshold pasa la política a
// "siempre requiere".
func (uc *PolicyUseCase) Update(id string, in dto.UpdatePolicyRequest) (*dto.PolicyResponse, error) {
	policy, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, nil
	}
	if in.ClearThreshold {
		policy.ThresholdTotalQuantity = nil
	} else if in.ThresholdTotalQuantity != nil {
		if in.ThresholdTotalQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		policy.ThresholdTotalQuantity = in.ThresholdTotalQuantity
	}
	if in.IsActive != nil {
		policy.IsActive = *in.IsActive
	}
	if err := uc.repo.Update(policy); err != nil {
		return nil, err
	}
	return dto.ToPolicyResponse(policy), nil
}

// List lista políticas paginadas.
func (uc *PolicyUseCase) List(limit, offset int) ([]*dto.PolicyResponse, error) {
	policies, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, dto.ToPolicyResponse(p))
	}
	return out, nil
}

// Delete elimina una política.
func (uc *PolicyUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}
