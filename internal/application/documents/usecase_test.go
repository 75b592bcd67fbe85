package documents

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stockmaster-api/internal/application/approval"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

func ledgerFilterForDoc(number string) repository.LedgerFilter {
	return repository.LedgerFilter{DocumentNumber: number}
}

func auditFilterForDoc(documentID, action string) repository.AuditFilter {
	return repository.AuditFilter{DocumentID: documentID, Action: action}
}

type engineFixture struct {
	uc         *WorkflowUseCase
	docs       *fakeDocumentRepo
	stock      *fakeStockRepo
	binStock   *fakeBinStockRepo
	ledger     *fakeLedgerRepo
	audit      *fakeAuditRepo
	approvals  *fakeApprovalRepo
	policies   *fakePolicyRepo
	products   *fakeProductRepo
	warehouses *fakeWarehouseRepo
	bins       *fakeBinRepo
	emitter    *fakeEmitter
}

func newEngineFixture(scoping rbac.ScopingPolicy) *engineFixture {
	f := &engineFixture{
		docs:       newFakeDocumentRepo(),
		stock:      newFakeStockRepo(),
		binStock:   newFakeBinStockRepo(),
		ledger:     &fakeLedgerRepo{},
		audit:      &fakeAuditRepo{},
		approvals:  newFakeApprovalRepo(),
		policies:   &fakePolicyRepo{},
		products:   newFakeProductRepo(),
		warehouses: newFakeWarehouseRepo(),
		bins:       newFakeBinRepo(),
		emitter:    &fakeEmitter{},
	}
	repos := TxRepos{
		Documents:  f.docs,
		Stock:      f.stock,
		BinStock:   f.binStock,
		Ledger:     f.ledger,
		Approvals:  f.approvals,
		Audit:      f.audit,
		Sequences:  newFakeSequenceRepo(),
		Products:   f.products,
		Warehouses: f.warehouses,
		Bins:       f.bins,
	}
	runner := &fakeTxRunner{
		repos:    repos,
		docs:     f.docs,
		stock:    f.stock,
		binStock: f.binStock,
		ledger:   f.ledger,
		audit:    f.audit,
	}
	f.uc = NewWorkflowUseCase(runner, f.docs, f.products, f.warehouses, f.bins,
		approval.NewEvaluator(f.policies), f.emitter, scoping)

	f.warehouses.Create(&entity.Warehouse{ID: "wh-main", Code: "MAIN", Name: "Bodega Principal", IsActive: true})
	f.warehouses.Create(&entity.Warehouse{ID: "wh-sec", Code: "SEC", Name: "Bodega Secundaria", IsActive: true})
	f.products.Create(&entity.Product{ID: "prod-1", SKU: "SKU-001", Name: "Tornillo", StockUnit: "unidad",
		PurchaseUnit: "caja", ConversionFactor: decimal.NewFromInt(12), IsActive: true})
	return f
}

func manager() *entity.User {
	return &entity.User{ID: "user-mgr", Role: entity.RoleInventoryManager}
}

func staff() *entity.User {
	return &entity.User{ID: "user-staff", Role: entity.RoleWarehouseStaff}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *engineFixture) setBalance(productID, warehouseID string, qty, reserved int64) {
	f.stock.Upsert(&entity.StockBalance{
		ProductID: productID, WarehouseID: warehouseID,
		Quantity: dec(qty), ReservedQuantity: dec(reserved),
	})
}

func (f *engineFixture) balance(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	b, err := f.stock.Get(productID, warehouseID)
	require.NoError(t, err)
	if b == nil {
		return decimal.Zero
	}
	return b.Quantity
}

// createReady crea el documento y lo pasa a ready.
func (f *engineFixture) createReady(t *testing.T, actor *entity.User, in CreateDocumentInput) *entity.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, actor, in)
	require.NoError(t, err)
	doc, err = f.uc.SetStatus(ctx, actor, doc.ID, entity.StatusReady)
	require.NoError(t, err)
	return doc
}

func receiptInput(qty int64) CreateDocumentInput {
	return CreateDocumentInput{
		Kind:        entity.KindReceipt,
		WarehouseID: "wh-main",
		Receipt:     &entity.ReceiptData{Supplier: "Proveedor SAS"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(qty)}},
	}
}

func TestCrearDocumento_AsignaConsecutivoPorTipo(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	rec, err := f.uc.Create(ctx, manager(), receiptInput(10))
	require.NoError(t, err)
	assert.Equal(t, "REC-000001", rec.Number)
	assert.Equal(t, entity.StatusDraft, rec.Status)

	rec2, err := f.uc.Create(ctx, manager(), receiptInput(5))
	require.NoError(t, err)
	assert.Equal(t, "REC-000002", rec2.Number)

	del, err := f.uc.Create(ctx, manager(), CreateDocumentInput{
		Kind:        entity.KindDelivery,
		WarehouseID: "wh-main",
		Delivery:    &entity.DeliveryData{Customer: "Cliente SA"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEL-000001", del.Number, "cada tipo lleva su propio consecutivo")
}

func TestCrearDocumento_EstampaGateSegunPolitica(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	threshold := dec(25)
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindReceipt,
		ThresholdTotalQuantity: &threshold, IsActive: true,
	})
	ctx := context.Background()

	big, err := f.uc.Create(ctx, manager(), receiptInput(40))
	require.NoError(t, err)
	assert.True(t, big.RequiresApproval)

	small, err := f.uc.Create(ctx, manager(), receiptInput(10))
	require.NoError(t, err)
	assert.False(t, small.RequiresApproval)
}

func TestCrearDocumento_UmbralNuloSiempreRequiere(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindReceipt, IsActive: true,
	})

	doc, err := f.uc.Create(context.Background(), manager(), receiptInput(1))
	require.NoError(t, err)
	assert.True(t, doc.RequiresApproval)
}

func TestCrearDocumento_PoliticaEspecificaGanaSobreGlobal(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	global := dec(5)
	specific := dec(100)
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-global", DocumentKind: entity.KindReceipt,
		ThresholdTotalQuantity: &global, IsActive: true,
	})
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-main", DocumentKind: entity.KindReceipt, WarehouseID: "wh-main",
		ThresholdTotalQuantity: &specific, IsActive: true,
	})

	// 40 < 100 en la específica, pero la global de 5 también aplica.
	doc, err := f.uc.Create(context.Background(), manager(), receiptInput(40))
	require.NoError(t, err)
	assert.True(t, doc.RequiresApproval)
}

func TestCrearDocumento_FalloDePoliticaAbortaCreacion(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.policies.failWith = assert.AnError

	_, err := f.uc.Create(context.Background(), manager(), receiptInput(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPolicyEvaluation)

	docs, err := f.docs.List(repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, docs, "un fallo de política nunca deja documento creado")
}

func TestCrearDocumento_ConversionDeUnidadesDeCompra(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	threshold := dec(50)
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindReceipt,
		ThresholdTotalQuantity: &threshold, IsActive: true,
	})

	// 5 cajas × factor 12 = 60 unidades de stock >= 50.
	doc, err := f.uc.Create(context.Background(), manager(), CreateDocumentInput{
		Kind:        entity.KindReceipt,
		WarehouseID: "wh-main",
		Receipt:     &entity.ReceiptData{Supplier: "Proveedor SAS"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(5), UnitOfMeasure: entity.UnitPurchase}},
	})
	require.NoError(t, err)
	assert.True(t, doc.RequiresApproval)
}

func TestSetStatus_TransicionesValidasEInvalidas(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, manager(), receiptInput(10))
	require.NoError(t, err)

	doc, err = f.uc.SetStatus(ctx, manager(), doc.ID, entity.StatusWaiting)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusWaiting, doc.Status)

	doc, err = f.uc.SetStatus(ctx, manager(), doc.ID, entity.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReady, doc.Status)

	// ready no vuelve a draft ni salta a done por SetStatus.
	_, err = f.uc.SetStatus(ctx, manager(), doc.ID, entity.StatusDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.uc.SetStatus(ctx, manager(), doc.ID, entity.StatusDone)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	doc, err = f.uc.SetStatus(ctx, manager(), doc.ID, entity.StatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCanceled, doc.Status)

	// terminal: ninguna transición más.
	_, err = f.uc.SetStatus(ctx, manager(), doc.ID, entity.StatusReady)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	entries, err := f.audit.List(auditFilterForDoc(doc.ID, entity.AuditActionStatusChange))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "cada cambio de estado deja rastro de auditoría")
}

func TestRecepcion_SumaStockYAsientaLibro(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 40, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), receiptInput(10))
	done, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(50)))

	entries, err := f.ledger.List(ledgerFilterForDoc(done.Number))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerReceipt, entries[0].TransactionType)
	assert.True(t, entries[0].Quantity.Equal(dec(10)))
	assert.True(t, entries[0].BalanceAfter.Equal(dec(50)), "balance_after reconcilia con el saldo final")
	assert.Equal(t, "Proveedor SAS", entries[0].Reference)
}

func TestRecepcion_ConversionACantidadDeStock(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindReceipt,
		WarehouseID: "wh-main",
		Receipt:     &entity.ReceiptData{Supplier: "Proveedor SAS"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(3), UnitOfMeasure: entity.UnitPurchase}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(36)), "3 cajas × 12 = 36 unidades")
}

func TestRecepcion_BinDeOtraBodegaFalla(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.bins.Create(&entity.BinLocation{ID: "bin-sec", WarehouseID: "wh-sec", Code: "A-01", IsActive: true})
	ctx := context.Background()

	in := receiptInput(10)
	in.Items[0].BinID = "bin-sec"
	doc := f.createReady(t, manager(), in)

	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrBinWarehouseMismatch)
	assert.True(t, f.balance(t, "prod-1", "wh-main").IsZero(), "sin efectos parciales ante el fallo")
}

func TestEntrega_StockInsuficiente(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 3, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindDelivery,
		WarehouseID: "wh-main",
		Delivery:    &entity.DeliveryData{Customer: "Cliente SA"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(5)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada cambió: saldo intacto, libro vacío, documento sigue en ready.
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(3)))
	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	assert.Empty(t, entries)
	after, _ := f.docs.GetByID(doc.ID)
	assert.Equal(t, entity.StatusReady, after.Status, "el reintento tras corregir el stock es seguro")
}

func TestEntrega_RespetaCantidadReservada(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 10, 8)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindDelivery,
		WarehouseID: "wh-main",
		Delivery:    &entity.DeliveryData{Customer: "Cliente SA"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(5)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "disponible = cantidad - reservado = 2 < 5")
}

func TestEntrega_DescuentaYAsientaNegativo(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 20, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindDelivery,
		WarehouseID: "wh-main",
		Delivery:    &entity.DeliveryData{Customer: "Cliente SA"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(5)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(15)))
	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(dec(-5)))
	assert.True(t, entries[0].BalanceAfter.Equal(dec(15)))
}

func TestTraslado_MueveAtomicoConDosAsientos(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 500, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindTransfer,
		WarehouseID: "wh-main",
		Transfer:    &entity.TransferData{ToWarehouseID: "wh-sec"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(50)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(450)))
	assert.True(t, f.balance(t, "prod-1", "wh-sec").Equal(dec(50)))

	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	require.Len(t, entries, 2)
	assert.Equal(t, entity.LedgerTransferOut, entries[0].TransactionType)
	assert.True(t, entries[0].Quantity.Equal(dec(-50)))
	assert.True(t, entries[0].BalanceAfter.Equal(dec(450)))
	assert.Equal(t, "wh-main", entries[0].WarehouseID)
	assert.Equal(t, entity.LedgerTransferIn, entries[1].TransactionType)
	assert.True(t, entries[1].Quantity.Equal(dec(50)))
	assert.True(t, entries[1].BalanceAfter.Equal(dec(50)))
	assert.Equal(t, "wh-sec", entries[1].WarehouseID)
}

func TestTraslado_MismaBodegaRechazado(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 100, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindTransfer,
		WarehouseID: "wh-main",
		Transfer:    &entity.TransferData{ToWarehouseID: "wh-main"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(10)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(100)))
}

func TestTraslado_BinPerteneceAlDestino(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 100, 0)
	f.bins.Create(&entity.BinLocation{ID: "bin-main", WarehouseID: "wh-main", Code: "A-01", IsActive: true})
	f.bins.Create(&entity.BinLocation{ID: "bin-sec", WarehouseID: "wh-sec", Code: "B-01", IsActive: true})
	ctx := context.Background()

	// Bin del origen en un traslado: inválido, el bin es destino.
	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindTransfer,
		WarehouseID: "wh-main",
		Transfer:    &entity.TransferData{ToWarehouseID: "wh-sec"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(10), BinID: "bin-main"}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrBinWarehouseMismatch)

	doc2 := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindTransfer,
		WarehouseID: "wh-main",
		Transfer:    &entity.TransferData{ToWarehouseID: "wh-sec"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(10), BinID: "bin-sec"}},
	})
	_, err = f.uc.ValidateAndComplete(ctx, manager(), doc2.ID)
	require.NoError(t, err)
	binBal, err := f.binStock.Get("prod-1", "wh-sec", "bin-sec")
	require.NoError(t, err)
	require.NotNil(t, binBal)
	assert.True(t, binBal.Quantity.Equal(dec(10)))
}

func TestAjuste_SetRegistraDeltaReal(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 150, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindAdjustment,
		WarehouseID: "wh-main",
		Adjustment:  &entity.AdjustmentData{Reason: "conteo físico", AdjustmentType: entity.AdjustmentSet},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(140), CurrentQuantity: dec(150)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(140)))
	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(dec(-10)), "set asienta el delta nuevo - anterior")
	assert.True(t, entries[0].BalanceAfter.Equal(dec(140)))
}

func TestAjuste_DecreaseNoBajaDeCero(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 5, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindAdjustment,
		WarehouseID: "wh-main",
		Adjustment:  &entity.AdjustmentData{Reason: "merma", AdjustmentType: entity.AdjustmentDecrease},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(8)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "prod-1", "wh-main").IsZero())
	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(dec(-5)), "el asiento registra el delta aplicado, no el pedido")
	assert.True(t, entries[0].BalanceAfter.IsZero())
}

func TestAjuste_UmbralUsaDeltaAbsoluto(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	threshold := dec(10)
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindAdjustment,
		ThresholdTotalQuantity: &threshold, IsActive: true,
	})

	// set 140 con actual 150: |140-150| = 10 >= 10.
	doc, err := f.uc.Create(context.Background(), manager(), CreateDocumentInput{
		Kind:        entity.KindAdjustment,
		WarehouseID: "wh-main",
		Adjustment:  &entity.AdjustmentData{Reason: "conteo", AdjustmentType: entity.AdjustmentSet},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(140), CurrentQuantity: dec(150)}},
	})
	require.NoError(t, err)
	assert.True(t, doc.RequiresApproval)
}

func TestDevolucion_RestockEnCuarentena(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.warehouses.Create(&entity.Warehouse{ID: "wh-quar", Code: "QUAR", Name: "Cuarentena", IsActive: true, IsQuarantine: true})
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindReturn,
		WarehouseID: "wh-main",
		Return:      &entity.ReturnData{Reason: "defectuoso", Disposition: entity.DispositionRestock},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(3)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "prod-1", "wh-quar").Equal(dec(3)), "con cuarentena activa la devolución entra allí")
	assert.True(t, f.balance(t, "prod-1", "wh-main").IsZero())
}

func TestDevolucion_ScrapDejaAsientoCero(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 7, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), CreateDocumentInput{
		Kind:        entity.KindReturn,
		WarehouseID: "wh-main",
		Return:      &entity.ReturnData{Reason: "daño total", Disposition: entity.DispositionScrap},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(2)}},
	})
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(7)), "scrap no suma stock")
	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.IsZero(), "queda rastro en el libro con cantidad cero")
	assert.True(t, entries[0].BalanceAfter.Equal(dec(7)))
}

func TestAprobar_GateDeAprobacion(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindReceipt, IsActive: true,
	})
	ctx := context.Background()

	doc := f.createReady(t, manager(), receiptInput(10))
	require.True(t, doc.RequiresApproval)

	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrApprovalRequired)

	doc, err = f.uc.Approve(ctx, manager(), doc.ID, "revisado")
	require.NoError(t, err)
	assert.True(t, doc.IsApproved())

	done, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, done.Status)
}

func TestAprobar_DuplicadoFalla(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindReceipt, IsActive: true,
	})
	ctx := context.Background()

	doc := f.createReady(t, manager(), receiptInput(10))
	_, err := f.uc.Approve(ctx, manager(), doc.ID, "")
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, manager(), doc.ID, "")
	assert.ErrorIs(t, err, domain.ErrDuplicateApproval)
}

func TestAprobar_StaffSinCapacidad(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()
	doc := f.createReady(t, manager(), receiptInput(10))

	_, err := f.uc.Approve(ctx, staff(), doc.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.ValidateAndComplete(ctx, staff(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestValidar_DocumentoDoneFallaRapido(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 40, 0)
	ctx := context.Background()

	doc := f.createReady(t, manager(), receiptInput(10))
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	// Segundo intento: falla sin duplicar efectos.
	_, err = f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(50)))
	entries, _ := f.ledger.List(ledgerFilterForDoc(doc.Number))
	assert.Len(t, entries, 1)
}

func TestValidar_DesdeDraftFalla(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()
	doc, err := f.uc.Create(ctx, manager(), receiptInput(10))
	require.NoError(t, err)

	_, err = f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestValidar_EmiteEventos(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	doc := f.createReady(t, manager(), receiptInput(10))
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	require.Len(t, f.emitter.events, 2)
	assert.Equal(t, EventReceiptCompleted, f.emitter.events[0].eventType)
	assert.Equal(t, EventStockChange, f.emitter.events[1].eventType)
	change, ok := f.emitter.events[1].payload.(StockChangeEvent)
	require.True(t, ok)
	assert.Equal(t, "receipt", change.Source)
	assert.Equal(t, doc.Number, change.DocumentNumber)
}

func TestValidar_DejaAuditoria(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	doc := f.createReady(t, manager(), receiptInput(10))
	_, err := f.uc.ValidateAndComplete(ctx, manager(), doc.ID)
	require.NoError(t, err)

	entries, err := f.audit.List(auditFilterForDoc(doc.ID, entity.AuditActionValidation))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-mgr", entries[0].UserID)
	assert.JSONEq(t, `{"status":"ready"}`, string(entries[0].Before))
	assert.JSONEq(t, `{"status":"done"}`, string(entries[0].After))
}

func TestAlcance_ModoEstrictoBloqueaSinMembresia(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{RequireMembership: true})
	ctx := context.Background()

	sinBodegas := staff()
	_, err := f.uc.Create(ctx, sinBodegas, receiptInput(10))
	assert.ErrorIs(t, err, domain.ErrForbidden, "modo estricto: sin bodegas asignadas no hay acceso")

	conBodega := staff()
	conBodega.AllowedWarehouseIDs = []string{"wh-main"}
	doc, err := f.uc.Create(ctx, conBodega, receiptInput(10))
	require.NoError(t, err)

	otro := staff()
	otro.AllowedWarehouseIDs = []string{"wh-sec"}
	_, err = f.uc.GetByID(ctx, otro, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "fuera de alcance se oculta, no se revela")
}

func TestAlcance_ModoLegacyPermiteSinMembresia(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{RequireMembership: false})

	doc, err := f.uc.Create(context.Background(), staff(), receiptInput(10))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, doc.Status)
}

func TestAlcance_TrasladoVisibleDesdeDestino(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{RequireMembership: true})
	ctx := context.Background()

	origen := manager()
	origen.AllowedWarehouseIDs = []string{"wh-main"}
	doc, err := f.uc.Create(ctx, origen, CreateDocumentInput{
		Kind:        entity.KindTransfer,
		WarehouseID: "wh-main",
		Transfer:    &entity.TransferData{ToWarehouseID: "wh-sec"},
		Items:       []ItemInput{{ProductID: "prod-1", Quantity: dec(1)}},
	})
	require.NoError(t, err)

	destino := staff()
	destino.AllowedWarehouseIDs = []string{"wh-sec"}
	got, err := f.uc.GetByID(ctx, destino, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
}
