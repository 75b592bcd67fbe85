package documents

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// Fakes en memoria para probar el motor sin base de datos. Devuelven y
// almacenan copias; el "rollback" del fakeTxRunner restaura un snapshot
// cuando la función transaccional falla, imitando la atomicidad real.

func cloneDocument(doc *entity.Document) *entity.Document {
	if doc == nil {
		return nil
	}
	c := *doc
	c.Items = append([]entity.DocumentItem(nil), doc.Items...)
	if doc.Receipt != nil {
		r := *doc.Receipt
		c.Receipt = &r
	}
	if doc.Delivery != nil {
		d := *doc.Delivery
		c.Delivery = &d
	}
	if doc.Transfer != nil {
		t := *doc.Transfer
		c.Transfer = &t
	}
	if doc.Adjustment != nil {
		a := *doc.Adjustment
		c.Adjustment = &a
	}
	if doc.Return != nil {
		r := *doc.Return
		c.Return = &r
	}
	if doc.CycleCount != nil {
		cc := *doc.CycleCount
		c.CycleCount = &cc
	}
	return &c
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*entity.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*entity.Document)}
}

func (f *fakeDocumentRepo) Create(doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (f *fakeDocumentRepo) GetByID(id string) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneDocument(f.docs[id]), nil
}

func (f *fakeDocumentRepo) GetByNumber(number string) (*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs {
		if doc.Number == number {
			return cloneDocument(doc), nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) Update(doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	f.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (f *fakeDocumentRepo) UpdateItemCounts(documentID string, items []entity.DocumentItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, updated := range items {
		for i := range doc.Items {
			if doc.Items[i].ID == updated.ID {
				doc.Items[i].CountedQuantity = updated.CountedQuantity
			}
		}
	}
	return nil
}

func (f *fakeDocumentRepo) List(filter repository.DocumentFilter) ([]*entity.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Document
	for _, doc := range f.docs {
		if filter.Kind != "" && doc.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		if filter.WarehouseIDs != nil && !contains(filter.WarehouseIDs, doc.WarehouseID) {
			continue
		}
		out = append(out, cloneDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeDocumentRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeStockRepo struct {
	mu       sync.Mutex
	balances map[string]entity.StockBalance
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{balances: make(map[string]entity.StockBalance)}
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (f *fakeStockRepo) Get(productID, warehouseID string) (*entity.StockBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[stockKey(productID, warehouseID)]; ok {
		c := b
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error) {
	return f.Get(productID, warehouseID)
}

func (f *fakeStockRepo) Upsert(balance *entity.StockBalance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[stockKey(balance.ProductID, balance.WarehouseID)] = *balance
	return nil
}

func (f *fakeStockRepo) ListByWarehouses(warehouseIDs []string, limit, offset int) ([]*entity.StockBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.StockBalance
	for key, b := range f.balances {
		if warehouseIDs != nil && !contains(warehouseIDs, strings.SplitN(key, "|", 2)[1]) {
			continue
		}
		c := b
		out = append(out, &c)
	}
	return out, nil
}

type fakeBinStockRepo struct {
	mu       sync.Mutex
	balances map[string]entity.BinStockBalance
}

func newFakeBinStockRepo() *fakeBinStockRepo {
	return &fakeBinStockRepo{balances: make(map[string]entity.BinStockBalance)}
}

func binStockKey(productID, warehouseID, binID string) string {
	return productID + "|" + warehouseID + "|" + binID
}

func (f *fakeBinStockRepo) Get(productID, warehouseID, binID string) (*entity.BinStockBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[binStockKey(productID, warehouseID, binID)]; ok {
		c := b
		return &c, nil
	}
	return nil, nil
}

func (f *fakeBinStockRepo) GetForUpdate(productID, warehouseID, binID string) (*entity.BinStockBalance, error) {
	return f.Get(productID, warehouseID, binID)
}

func (f *fakeBinStockRepo) Upsert(balance *entity.BinStockBalance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[binStockKey(balance.ProductID, balance.WarehouseID, balance.BinID)] = *balance
	return nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []entity.LedgerEntry
}

func (f *fakeLedgerRepo) Append(entry *entity.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedgerRepo) List(filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.LedgerEntry
	for i := range f.entries {
		e := f.entries[i]
		if filter.ProductID != "" && e.ProductID != filter.ProductID {
			continue
		}
		if filter.DocumentNumber != "" && e.DocumentNumber != filter.DocumentNumber {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

type fakeApprovalRepo struct {
	mu        sync.Mutex
	approvals map[string]entity.Approval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{approvals: make(map[string]entity.Approval)}
}

func approvalKey(kind entity.DocumentKind, documentID string) string {
	return string(kind) + "|" + documentID
}

func (f *fakeApprovalRepo) Create(approval *entity.Approval) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := approvalKey(approval.DocumentKind, approval.DocumentID)
	if _, ok := f.approvals[key]; ok {
		return domain.ErrDuplicateApproval
	}
	f.approvals[key] = *approval
	return nil
}

func (f *fakeApprovalRepo) GetByDocument(kind entity.DocumentKind, documentID string) (*entity.Approval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.approvals[approvalKey(kind, documentID)]; ok {
		c := a
		return &c, nil
	}
	return nil, nil
}

func (f *fakeApprovalRepo) ListByDocument(kind entity.DocumentKind, documentID string) ([]*entity.Approval, error) {
	a, _ := f.GetByDocument(kind, documentID)
	if a == nil {
		return nil, nil
	}
	return []*entity.Approval{a}, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func (f *fakeAuditRepo) Append(entry *entity.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(filter repository.AuditFilter) ([]*entity.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.AuditEntry
	for i := range f.entries {
		e := f.entries[i]
		if filter.DocumentID != "" && e.DocumentID != filter.DocumentID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

type fakeSequenceRepo struct {
	mu   sync.Mutex
	last map[entity.DocumentKind]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{last: make(map[entity.DocumentKind]int64)}
}

func (f *fakeSequenceRepo) Next(kind entity.DocumentKind) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[kind]++
	return f.last[kind], nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]entity.Product)}
}

func (f *fakeProductRepo) Create(product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		c := p
		return &c, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU == sku {
			c := p
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(product *entity.Product) error {
	return f.Create(product)
}

func (f *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Product
	for _, p := range f.products {
		c := p
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeProductRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

type fakeWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[string]entity.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[string]entity.Warehouse)}
}

func (f *fakeWarehouseRepo) Create(warehouse *entity.Warehouse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.warehouses[id]; ok {
		c := w
		return &c, nil
	}
	return nil, nil
}

func (f *fakeWarehouseRepo) Update(warehouse *entity.Warehouse) error {
	return f.Create(warehouse)
}

func (f *fakeWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range f.warehouses {
		c := w
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeWarehouseRepo) GetQuarantine() (*entity.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.warehouses {
		if w.IsQuarantine && w.IsActive {
			c := w
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouseRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.warehouses, id)
	return nil
}

type fakeBinRepo struct {
	mu   sync.Mutex
	bins map[string]entity.BinLocation
}

func newFakeBinRepo() *fakeBinRepo {
	return &fakeBinRepo{bins: make(map[string]entity.BinLocation)}
}

func (f *fakeBinRepo) Create(bin *entity.BinLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bins[bin.ID] = *bin
	return nil
}

func (f *fakeBinRepo) GetByID(id string) (*entity.BinLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bins[id]; ok {
		c := b
		return &c, nil
	}
	return nil, nil
}

func (f *fakeBinRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.BinLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.BinLocation
	for _, b := range f.bins {
		if b.WarehouseID == warehouseID {
			c := b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBinRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bins, id)
	return nil
}

type fakePolicyRepo struct {
	mu       sync.Mutex
	policies []*entity.ApprovalPolicy
	failWith error
}

func (f *fakePolicyRepo) Create(policy *entity.ApprovalPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policies = append(f.policies, policy)
	return nil
}

func (f *fakePolicyRepo) GetByID(id string) (*entity.ApprovalPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.policies {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePolicyRepo) Update(policy *entity.ApprovalPolicy) error { return nil }

func (f *fakePolicyRepo) ListActive(kind entity.DocumentKind, warehouseID string) ([]*entity.ApprovalPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var specific, global []*entity.ApprovalPolicy
	for _, p := range f.policies {
		if !p.IsActive || p.DocumentKind != kind {
			continue
		}
		switch p.WarehouseID {
		case warehouseID:
			specific = append(specific, p)
		case "":
			global = append(global, p)
		}
	}
	return append(specific, global...), nil
}

func (f *fakePolicyRepo) List(limit, offset int) ([]*entity.ApprovalPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.ApprovalPolicy(nil), f.policies...), nil
}

func (f *fakePolicyRepo) Delete(id string) error { return nil }

type emittedEvent struct {
	eventType string
	payload   any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (f *fakeEmitter) Emit(_ context.Context, eventType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{eventType: eventType, payload: payload})
}

// fakeTxRunner ejecuta fn sin transacción real pero restaura un snapshot del
// estado mutable cuando fn falla, para que las pruebas de atomicidad
// observen el mismo "todo o nada" que daría un rollback.
type fakeTxRunner struct {
	repos    TxRepos
	docs     *fakeDocumentRepo
	stock    *fakeStockRepo
	binStock *fakeBinStockRepo
	ledger   *fakeLedgerRepo
	audit    *fakeAuditRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(r TxRepos) error) error {
	docsSnap := make(map[string]*entity.Document, len(f.docs.docs))
	for k, v := range f.docs.docs {
		docsSnap[k] = cloneDocument(v)
	}
	stockSnap := make(map[string]entity.StockBalance, len(f.stock.balances))
	for k, v := range f.stock.balances {
		stockSnap[k] = v
	}
	binSnap := make(map[string]entity.BinStockBalance, len(f.binStock.balances))
	for k, v := range f.binStock.balances {
		binSnap[k] = v
	}
	ledgerSnap := append([]entity.LedgerEntry(nil), f.ledger.entries...)
	auditSnap := append([]entity.AuditEntry(nil), f.audit.entries...)

	if err := fn(f.repos); err != nil {
		f.docs.docs = docsSnap
		f.stock.balances = stockSnap
		f.binStock.balances = binSnap
		f.ledger.entries = ledgerSnap
		f.audit.entries = auditSnap
		return err
	}
	return nil
}
