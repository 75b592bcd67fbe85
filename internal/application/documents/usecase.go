package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// ApprovalEvaluator contrato mínimo que el motor necesita para estampar
// requires_approval al crear. Lo implementa *approval.Evaluator.
type ApprovalEvaluator interface {
	RequiresApproval(ctx context.Context, kind entity.DocumentKind, warehouseID string, total decimal.Decimal) (bool, error)
}

// WorkflowUseCase motor de documentos de inventario: creación con consecutivo
// atómico y gate de aprobación, transiciones de estado, aprobación única y
// validate_and_complete transaccional con efectos de stock por tipo.
type WorkflowUseCase struct {
	txRunner      TxRunner
	documentRepo  repository.DocumentRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	binRepo       repository.BinRepository
	evaluator     ApprovalEvaluator
	emitter       EventEmitter
	scoping       rbac.ScopingPolicy
}

// NewWorkflowUseCase construye el motor.
func NewWorkflowUseCase(
	txRunner TxRunner,
	documentRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	binRepo repository.BinRepository,
	evaluator ApprovalEvaluator,
	emitter EventEmitter,
	scoping rbac.ScopingPolicy,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner:      txRunner,
		documentRepo:  documentRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		binRepo:       binRepo,
		evaluator:     evaluator,
		emitter:       emitter,
		scoping:       scoping,
	}
}

// ItemInput línea de entrada para crear un documento.
type ItemInput struct {
	ProductID        string
	BinID            string
	Quantity         decimal.Decimal
	UnitOfMeasure    string
	CurrentQuantity  decimal.Decimal
	ExpectedQuantity decimal.Decimal
	UnitPrice        *decimal.Decimal
	Reason           string
}

// CreateDocumentInput entrada para crear un documento de cualquiera de los
// seis tipos. El payload correspondiente al Kind debe venir poblado.
type CreateDocumentInput struct {
	Kind        entity.DocumentKind
	WarehouseID string
	Notes       string

	Receipt    *entity.ReceiptData
	Delivery   *entity.DeliveryData
	Transfer   *entity.TransferData
	Adjustment *entity.AdjustmentData
	Return     *entity.ReturnData
	CycleCount *entity.CycleCountData

	Items []ItemInput
}

// Create valida la entrada, resuelve bins por defecto, asigna el consecutivo
// de forma atómica y estampa requires_approval según las políticas vigentes.
// Un fallo del evaluador de políticas aborta la creación (error duro).
func (uc *WorkflowUseCase) Create(ctx context.Context, actor *entity.User, in CreateDocumentInput) (*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsDraft) {
		return nil, domain.ErrForbidden
	}
	if !in.Kind.Valid() || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !uc.scoping.CanAccessWarehouse(actor, in.WarehouseID) {
		return nil, domain.ErrForbidden
	}

	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.validatePayload(in); err != nil {
		return nil, err
	}

	products, err := uc.loadProducts(in.Items)
	if err != nil {
		return nil, err
	}

	items := make([]entity.DocumentItem, 0, len(in.Items))
	for _, line := range in.Items {
		item, err := uc.buildItem(in, line, products[line.ProductID])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	now := time.Now()
	doc := &entity.Document{
		ID:          uuid.New().String(),
		Kind:        in.Kind,
		Status:      entity.StatusDraft,
		WarehouseID: in.WarehouseID,
		CreatedBy:   actor.ID,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		Receipt:     in.Receipt,
		Delivery:    in.Delivery,
		Transfer:    in.Transfer,
		Adjustment:  in.Adjustment,
		Return:      in.Return,
		CycleCount:  in.CycleCount,
		Items:       items,
	}

	// Los conteos cíclicos no pasan por políticas: el ajuste que generan se
	// completa de inmediato. Los demás tipos estampan el gate al crear y no
	// lo re-evalúan al completar.
	if in.Kind != entity.KindCycleCount {
		total := uc.totalQuantity(doc, products)
		required, err := uc.evaluator.RequiresApproval(ctx, in.Kind, in.WarehouseID, total)
		if err != nil {
			return nil, err
		}
		doc.RequiresApproval = required
	}

	// Consecutivo y alta en la misma transacción: el allocator incrementa la
	// fila del prefijo de forma serializable, sin last_id+1.
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		seq, err := r.Sequences.Next(in.Kind)
		if err != nil {
			return fmt.Errorf("asignar consecutivo: %w", err)
		}
		doc.Number = fmt.Sprintf("%s-%06d", in.Kind.NumberPrefix(), seq)
		return r.Documents.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID obtiene un documento aplicando el scoping de bodegas del actor.
func (uc *WorkflowUseCase) GetByID(_ context.Context, actor *entity.User, id string) (*entity.Document, error) {
	doc, err := uc.documentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if !uc.scoping.CanAccessDocument(actor, doc) {
		// Documento fuera de alcance se oculta, no se revela su existencia.
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List lista documentos intersectando las bodegas pedidas con la lista
// blanca del actor.
func (uc *WorkflowUseCase) List(_ context.Context, actor *entity.User, filter repository.DocumentFilter) ([]*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsRead) {
		return nil, domain.ErrForbidden
	}
	filter.WarehouseIDs = uc.scoping.FilterWarehouses(actor, filter.WarehouseIDs)
	if filter.WarehouseIDs != nil && len(filter.WarehouseIDs) == 0 {
		return []*entity.Document{}, nil
	}
	return uc.documentRepo.List(filter)
}

// SetStatus aplica transiciones hacia adelante (draft→waiting→ready) y la
// cancelación desde cualquier estado no terminal. La cancelación nunca
// revierte efectos de stock: solo ready→done muta inventario.
func (uc *WorkflowUseCase) SetStatus(ctx context.Context, actor *entity.User, id string, target entity.DocumentStatus) (*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsDraft) {
		return nil, domain.ErrForbidden
	}
	doc, err := uc.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !validStatusChange(doc.Status, target) {
		return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition,
			fmt.Sprintf("%s → %s", doc.Status, target))
	}

	previous := doc.Status
	now := time.Now()
	doc.Status = target
	doc.UpdatedAt = now

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Documents.Update(doc); err != nil {
			return err
		}
		return r.Audit.Append(uc.auditEntry(doc, entity.AuditActionStatusChange, actor.ID,
			"cambio de estado", previous, doc.Status, now))
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// validStatusChange transiciones permitidas fuera de validate_and_complete.
// done solo se alcanza completando; canceled desde cualquier no terminal.
func validStatusChange(from, to entity.DocumentStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case entity.StatusCanceled:
		return true
	case entity.StatusWaiting:
		return from == entity.StatusDraft
	case entity.StatusReady:
		return from == entity.StatusDraft || from == entity.StatusWaiting
	}
	return false
}

// Approve aprueba el documento una única vez. Requiere la capacidad
// ops.approve además de la membresía de bodega; un segundo intento retorna
// ErrDuplicateApproval.
func (uc *WorkflowUseCase) Approve(ctx context.Context, actor *entity.User, id, notes string) (*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsApprove) {
		return nil, domain.ErrForbidden
	}
	doc, err := uc.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if doc.IsApproved() {
		return nil, domain.NewDocumentError(domain.ErrDuplicateApproval, doc.Number)
	}

	now := time.Now()
	doc.ApprovedBy = actor.ID
	doc.ApprovedAt = &now
	doc.UpdatedAt = now

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		// La unicidad por (kind, documento) la garantiza el repositorio.
		if err := r.Approvals.Create(&entity.Approval{
			ID:           uuid.New().String(),
			DocumentKind: doc.Kind,
			DocumentID:   doc.ID,
			ApproverID:   actor.ID,
			ApprovedAt:   now,
			Notes:        notes,
		}); err != nil {
			return err
		}
		if err := r.Documents.Update(doc); err != nil {
			return err
		}
		return r.Audit.Append(uc.auditEntry(doc, entity.AuditActionApproval, actor.ID,
			"documento aprobado", doc.Status, doc.Status, now))
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ValidateAndComplete única transición que muta stock; legal solo desde
// ready. Cadena de precondiciones en orden, gana el primer fallo: estado,
// gate de aprobación, chequeos estructurales del tipo, suficiencia de stock.
// Todo ocurre en una transacción: saldos, asientos del libro, auditoría y el
// paso a done se confirman juntos; ante cualquier error no queda efecto
// parcial observable y el reintento es seguro.
func (uc *WorkflowUseCase) ValidateAndComplete(ctx context.Context, actor *entity.User, id string) (*entity.Document, error) {
	if actor == nil || !rbac.HasCapability(actor.Role, rbac.CapOpsValidate) {
		return nil, domain.ErrForbidden
	}
	if doc, err := uc.GetByID(ctx, actor, id); err != nil {
		return nil, err
	} else if doc.Kind == entity.KindCycleCount {
		// Los conteos cíclicos cierran por CompleteCycleCount, que genera y
		// completa el ajuste derivado.
		return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition,
			"un conteo cíclico se completa con sus cantidades contadas")
	}

	var completed *entity.Document
	var deltas []ItemDelta
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Releer dentro de la tx para decidir sobre el estado vigente.
		doc, err := r.Documents.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		deltas, err = uc.completeInTx(r, doc, actor, time.Now())
		if err != nil {
			return err
		}
		completed = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emitCompletion(ctx, completed, deltas)
	return completed, nil
}

// completeInTx corre precondiciones y efectos de un documento dentro de una
// transacción ya abierta. Lo comparten ValidateAndComplete y el cierre de
// conteos cíclicos (que completa el ajuste generado por esta misma vía).
func (uc *WorkflowUseCase) completeInTx(r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	if doc.Status != entity.StatusReady {
		return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition,
			fmt.Sprintf("%s debe estar en estado ready, está en %s", doc.Number, doc.Status))
	}
	if !doc.CanComplete() {
		return nil, domain.NewDocumentError(domain.ErrApprovalRequired, doc.Number)
	}

	effect, ok := stockEffects[doc.Kind]
	if !ok {
		return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition, string(doc.Kind))
	}
	deltas, err := effect(uc, r, doc, actor, now)
	if err != nil {
		return nil, err
	}

	previous := doc.Status
	doc.Status = entity.StatusDone
	doc.CompletedAt = &now
	doc.UpdatedAt = now
	if err := r.Documents.Update(doc); err != nil {
		return nil, err
	}

	// La auditoría va dentro de la transacción: nunca se omite aunque la
	// emisión de eventos posterior falle.
	if err := r.Audit.Append(uc.auditEntry(doc, entity.AuditActionValidation, actor.ID,
		"documento validado", previous, doc.Status, now)); err != nil {
		return nil, err
	}
	return deltas, nil
}

// emitCompletion publica <kind>_completed y stock_change, best-effort.
func (uc *WorkflowUseCase) emitCompletion(ctx context.Context, doc *entity.Document, deltas []ItemDelta) {
	if uc.emitter == nil || doc == nil || doc.CompletedAt == nil {
		return
	}
	payload := CompletedEvent{
		DocumentNumber: doc.Number,
		WarehouseID:    doc.WarehouseID,
		Items:          deltas,
		CompletedAt:    *doc.CompletedAt,
	}
	uc.emitter.Emit(ctx, completionEventType(doc.Kind), payload)
	uc.emitter.Emit(ctx, EventStockChange, StockChangeEvent{CompletedEvent: payload, Source: string(doc.Kind)})
}

func completionEventType(kind entity.DocumentKind) string {
	switch kind {
	case entity.KindReceipt:
		return EventReceiptCompleted
	case entity.KindDelivery:
		return EventDeliveryCompleted
	case entity.KindTransfer:
		return EventTransferCompleted
	case entity.KindAdjustment:
		return EventAdjustmentCompleted
	case entity.KindReturn:
		return EventReturnCompleted
	case entity.KindCycleCount:
		return EventCycleCountCompleted
	}
	return EventStockChange
}

// auditEntry arma el registro narrativo before/after de estado.
func (uc *WorkflowUseCase) auditEntry(doc *entity.Document, action, userID, message string, before, after entity.DocumentStatus, now time.Time) *entity.AuditEntry {
	beforeJSON, _ := json.Marshal(map[string]string{"status": string(before)})
	afterJSON, _ := json.Marshal(map[string]string{"status": string(after)})
	return &entity.AuditEntry{
		ID:           uuid.New().String(),
		DocumentKind: doc.Kind,
		DocumentID:   doc.ID,
		Action:       action,
		WarehouseID:  doc.WarehouseID,
		UserID:       userID,
		Message:      message,
		Before:       beforeJSON,
		After:        afterJSON,
		CreatedAt:    now,
	}
}

// validatePayload verifica que el payload del Kind venga poblado y válido.
func (uc *WorkflowUseCase) validatePayload(in CreateDocumentInput) error {
	switch in.Kind {
	case entity.KindReceipt:
		if in.Receipt == nil || in.Receipt.Supplier == "" {
			return domain.ErrInvalidInput
		}
	case entity.KindDelivery:
		if in.Delivery == nil || in.Delivery.Customer == "" {
			return domain.ErrInvalidInput
		}
	case entity.KindTransfer:
		if in.Transfer == nil || in.Transfer.ToWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		dest, err := uc.warehouseRepo.GetByID(in.Transfer.ToWarehouseID)
		if err != nil {
			return err
		}
		if dest == nil {
			return domain.ErrNotFound
		}
	case entity.KindAdjustment:
		if in.Adjustment == nil || in.Adjustment.Reason == "" {
			return domain.ErrInvalidInput
		}
		switch in.Adjustment.AdjustmentType {
		case entity.AdjustmentIncrease, entity.AdjustmentDecrease, entity.AdjustmentSet:
		default:
			return domain.ErrInvalidInput
		}
	case entity.KindReturn:
		if in.Return == nil {
			return domain.ErrInvalidInput
		}
		switch in.Return.Disposition {
		case entity.DispositionRestock, entity.DispositionRepair, entity.DispositionScrap:
		default:
			return domain.ErrInvalidInput
		}
	case entity.KindCycleCount:
		if in.CycleCount == nil {
			return domain.ErrInvalidInput
		}
		switch in.CycleCount.Method {
		case entity.CountMethodFull, entity.CountMethodPartial, entity.CountMethodABC:
		default:
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// buildItem valida y normaliza una línea según el tipo del documento.
func (uc *WorkflowUseCase) buildItem(in CreateDocumentInput, line ItemInput, product *entity.Product) (entity.DocumentItem, error) {
	var item entity.DocumentItem
	if product == nil {
		return item, domain.ErrNotFound
	}

	uom := line.UnitOfMeasure
	switch in.Kind {
	case entity.KindReceipt, entity.KindDelivery, entity.KindTransfer:
		if uom == "" {
			uom = entity.UnitStock
		}
		if uom != entity.UnitStock && uom != entity.UnitPurchase {
			return item, domain.ErrInvalidInput
		}
		if !line.Quantity.IsPositive() {
			return item, domain.ErrInvalidInput
		}
	case entity.KindAdjustment:
		// Ajustes operan en unidades de stock; la cantidad puede ser 0 solo
		// para type=set (poner en cero).
		uom = entity.UnitStock
		if line.Quantity.IsNegative() || line.CurrentQuantity.IsNegative() {
			return item, domain.ErrInvalidInput
		}
		if in.Adjustment.AdjustmentType != entity.AdjustmentSet && !line.Quantity.IsPositive() {
			return item, domain.ErrInvalidInput
		}
	case entity.KindReturn:
		uom = entity.UnitStock
		if !line.Quantity.IsPositive() {
			return item, domain.ErrInvalidInput
		}
	case entity.KindCycleCount:
		uom = entity.UnitStock
		if line.ExpectedQuantity.IsNegative() {
			return item, domain.ErrInvalidInput
		}
	}

	binID := line.BinID
	if in.Kind == entity.KindReceipt && binID == "" && product.DefaultBinID != "" {
		// Put-away simple: usar el bin por defecto del producto cuando
		// pertenece a la bodega del documento.
		bin, err := uc.binRepo.GetByID(product.DefaultBinID)
		if err != nil {
			return item, err
		}
		if bin != nil && bin.WarehouseID == in.WarehouseID {
			binID = bin.ID
		}
	}

	return entity.DocumentItem{
		ID:               uuid.New().String(),
		ProductID:        line.ProductID,
		BinID:            binID,
		Quantity:         line.Quantity,
		UnitOfMeasure:    uom,
		CurrentQuantity:  line.CurrentQuantity,
		ExpectedQuantity: line.ExpectedQuantity,
		UnitPrice:        line.UnitPrice,
		Reason:           line.Reason,
	}, nil
}

// loadProducts resuelve los productos de las líneas una sola vez.
func (uc *WorkflowUseCase) loadProducts(items []ItemInput) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(items))
	for _, line := range items {
		if line.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		products[line.ProductID] = product
	}
	return products, nil
}

// totalQuantity magnitud usada por el evaluador de políticas. Recepciones,
// entregas y traslados suman cantidades convertidas a unidad de stock; los
// ajustes suman el delta absoluto por línea (magnitud, no neto).
func (uc *WorkflowUseCase) totalQuantity(doc *entity.Document, products map[string]*entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, item := range doc.Items {
		switch doc.Kind {
		case entity.KindAdjustment:
			delta := item.Quantity
			if doc.Adjustment.AdjustmentType == entity.AdjustmentSet {
				delta = item.Quantity.Sub(item.CurrentQuantity)
			}
			total = total.Add(delta.Abs())
		default:
			factor := decimal.NewFromInt(1)
			if p := products[item.ProductID]; p != nil {
				factor = p.EffectiveConversionFactor()
			}
			total = total.Add(item.StockQuantity(factor))
		}
	}
	return total
}
