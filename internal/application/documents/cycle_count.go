package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
)

// CountInput cantidad contada para una línea del conteo cíclico.
type CountInput struct {
	ItemID          string
	CountedQuantity decimal.Decimal
}

// UpdateCounts registra las cantidades contadas de un conteo cíclico en
// estado ready, antes de completarlo.
func (uc *WorkflowUseCase) UpdateCounts(ctx context.Context, actor *entity.User, id string, counts []CountInput) (*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsDraft) {
		return nil, domain.ErrForbidden
	}
	doc, err := uc.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != entity.KindCycleCount {
		return nil, domain.ErrInvalidInput
	}
	if doc.Status != entity.StatusReady {
		return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition,
			fmt.Sprintf("%s debe estar en estado ready para registrar conteos", doc.Number))
	}

	byItem := make(map[string]decimal.Decimal, len(counts))
	for _, c := range counts {
		if c.CountedQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		byItem[c.ItemID] = c.CountedQuantity
	}

	updated := make([]entity.DocumentItem, 0, len(counts))
	for i := range doc.Items {
		counted, ok := byItem[doc.Items[i].ID]
		if !ok {
			continue
		}
		doc.Items[i].CountedQuantity = &counted
		updated = append(updated, doc.Items[i])
		delete(byItem, doc.Items[i].ID)
	}
	if len(byItem) > 0 {
		return nil, domain.ErrNotFound
	}
	if len(updated) == 0 {
		return doc, nil
	}

	if err := uc.documentRepo.UpdateItemCounts(doc.ID, updated); err != nil {
		return nil, err
	}
	doc.UpdatedAt = time.Now()
	return doc, nil
}

// CompleteCycleCount cierra un conteo cíclico: compara lo contado contra el
// saldo vivo y, si hay varianzas, sintetiza un ajuste tipo set que se
// completa por la vía normal de ajustes dentro de la misma transacción. El
// conteo queda en done con la referencia al ajuste generado. Sin varianzas
// no se genera ajuste y el conteo igualmente cierra.
func (uc *WorkflowUseCase) CompleteCycleCount(ctx context.Context, actor *entity.User, id string) (*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsValidate) {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}

	var task *entity.Document
	var adjustment *entity.Document
	var deltas []ItemDelta
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		doc, err := r.Documents.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Kind != entity.KindCycleCount {
			return domain.ErrInvalidInput
		}
		if doc.Status != entity.StatusReady {
			return domain.NewDocumentError(domain.ErrInvalidStateTransition,
				fmt.Sprintf("%s debe estar en estado ready, está en %s", doc.Number, doc.Status))
		}

		now := time.Now()
		adjItems, err := uc.varianceItems(r, doc)
		if err != nil {
			return err
		}

		if len(adjItems) > 0 {
			seq, err := r.Sequences.Next(entity.KindAdjustment)
			if err != nil {
				return fmt.Errorf("asignar consecutivo del ajuste: %w", err)
			}
			adjustment = &entity.Document{
				ID:          uuid.New().String(),
				Number:      fmt.Sprintf("%s-%06d", entity.KindAdjustment.NumberPrefix(), seq),
				Kind:        entity.KindAdjustment,
				Status:      entity.StatusReady,
				WarehouseID: doc.WarehouseID,
				CreatedBy:   actor.ID,
				Notes:       fmt.Sprintf("Generado por conteo cíclico %s", doc.Number),
				CreatedAt:   now,
				UpdatedAt:   now,
				Adjustment: &entity.AdjustmentData{
					Reason:         fmt.Sprintf("Varianza de conteo cíclico %s", doc.Number),
					AdjustmentType: entity.AdjustmentSet,
				},
				Items: adjItems,
			}
			if err := r.Documents.Create(adjustment); err != nil {
				return err
			}
			deltas, err = uc.completeInTx(r, adjustment, actor, now)
			if err != nil {
				return err
			}
			doc.CycleCount.GeneratedAdjustmentID = adjustment.ID
		}

		doc.Status = entity.StatusDone
		doc.CompletedAt = &now
		doc.UpdatedAt = now
		if err := r.Documents.Update(doc); err != nil {
			return err
		}
		if err := r.Audit.Append(uc.auditEntry(doc, entity.AuditActionValidation, actor.ID,
			"conteo cíclico completado", entity.StatusReady, entity.StatusDone, now)); err != nil {
			return err
		}
		task = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.emitter != nil && task.CompletedAt != nil {
		uc.emitter.Emit(ctx, EventCycleCountCompleted, CompletedEvent{
			DocumentNumber: task.Number,
			WarehouseID:    task.WarehouseID,
			Items:          deltas,
			CompletedAt:    *task.CompletedAt,
		})
		if adjustment != nil {
			uc.emitCompletion(ctx, adjustment, deltas)
		}
	}
	return task, nil
}

// varianceItems arma las líneas del ajuste set: una por línea contada cuya
// cantidad difiere del saldo vivo al momento de cerrar. CurrentQuantity usa
// el saldo vivo; si no hay fila de saldo se cae a la cantidad esperada.
func (uc *WorkflowUseCase) varianceItems(r TxRepos, doc *entity.Document) ([]entity.DocumentItem, error) {
	items := make([]entity.DocumentItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		if item.CountedQuantity == nil {
			// Línea sin contar: no se ajusta.
			continue
		}
		counted := *item.CountedQuantity
		balance, err := r.Stock.Get(item.ProductID, doc.WarehouseID)
		if err != nil {
			return nil, err
		}
		current := item.ExpectedQuantity
		if balance != nil {
			current = balance.Quantity
		}
		if counted.Equal(current) {
			continue
		}
		items = append(items, entity.DocumentItem{
			ID:              uuid.New().String(),
			ProductID:       item.ProductID,
			BinID:           item.BinID,
			Quantity:        counted,
			UnitOfMeasure:   entity.UnitStock,
			CurrentQuantity: current,
			Reason:          fmt.Sprintf("Conteo %s: esperado %s, contado %s", doc.Number, item.ExpectedQuantity, counted),
		})
	}
	return items, nil
}
