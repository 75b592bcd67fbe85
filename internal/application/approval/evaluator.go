package approval

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// Evaluator función pura sobre las políticas activas: decide si un documento
// requiere aprobación dado su tipo, bodega y magnitud total. Se evalúa una
// sola vez, al crear el documento; cambios de política posteriores no son
// retroactivos.
type Evaluator struct {
	policyRepo repository.PolicyRepository
}

// NewEvaluator construye el evaluador.
func NewEvaluator(policyRepo repository.PolicyRepository) *Evaluator {
	return &Evaluator{policyRepo: policyRepo}
}

// RequiresApproval aplica el orden de precedencia: políticas específicas de
// la bodega primero, luego globales. Threshold nil => siempre requiere;
// si no, requiere cuando total >= threshold (el primer match gana). Un fallo
// al consultar políticas es un error duro: nunca se traga silenciosamente.
func (e *Evaluator) RequiresApproval(_ context.Context, kind entity.DocumentKind, warehouseID string, total decimal.Decimal) (bool, error) {
	if warehouseID == "" {
		return false, nil
	}
	policies, err := e.policyRepo.ListActive(kind, warehouseID)
	if err != nil {
		return false, domain.NewDocumentError(domain.ErrPolicyEvaluation, fmt.Sprintf("listar políticas de %s: %v", kind, err))
	}
	for _, policy := range policies {
		if policy.WarehouseID != "" && policy.WarehouseID != warehouseID {
			continue
		}
		if policy.ThresholdTotalQuantity == nil {
			return true, nil
		}
		if total.GreaterThanOrEqual(*policy.ThresholdTotalQuantity) {
			return true, nil
		}
	}
	return false, nil
}
