package documents

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// effectFunc aplica los efectos de stock de un tipo de documento dentro de
// la transacción de completación y retorna los deltas para los eventos.
type effectFunc func(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error)

// stockEffects despacho por tipo: el motor no conoce los tipos, conoce el mapa.
var stockEffects = map[entity.DocumentKind]effectFunc{
	entity.KindReceipt:    completeReceipt,
	entity.KindDelivery:   completeDelivery,
	entity.KindTransfer:   completeTransfer,
	entity.KindAdjustment: completeAdjustment,
	entity.KindReturn:     completeReturn,
	entity.KindCycleCount: completeCycleCountNoop,
}

// stockQuantityInTx convierte la cantidad de la línea a unidad de stock con
// el factor de conversión del producto.
func stockQuantityInTx(r TxRepos, item entity.DocumentItem) (decimal.Decimal, error) {
	if item.UnitOfMeasure != entity.UnitPurchase {
		return item.Quantity, nil
	}
	product, err := r.Products.GetByID(item.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return item.StockQuantity(product.EffectiveConversionFactor()), nil
}

// lockBalance trae el saldo bloqueado, materializando la fila en cero si no
// existe aún para ese producto/bodega.
func lockBalance(r TxRepos, productID, warehouseID string) (*entity.StockBalance, error) {
	balance, err := r.Stock.GetForUpdate(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		balance = &entity.StockBalance{ProductID: productID, WarehouseID: warehouseID}
	}
	return balance, nil
}

// addBinStock suma al saldo del bin, creando la fila si no existe.
func addBinStock(r TxRepos, productID, warehouseID, binID string, qty decimal.Decimal, now time.Time) error {
	binBalance, err := r.BinStock.GetForUpdate(productID, warehouseID, binID)
	if err != nil {
		return err
	}
	if binBalance == nil {
		binBalance = &entity.BinStockBalance{ProductID: productID, WarehouseID: warehouseID, BinID: binID}
	}
	binBalance.Quantity = binBalance.Quantity.Add(qty)
	binBalance.UpdatedAt = now
	return r.BinStock.Upsert(binBalance)
}

// checkBinWarehouse verifica que el bin exista y pertenezca a la bodega dada.
func checkBinWarehouse(r TxRepos, binID, warehouseID, docNumber string) error {
	bin, err := r.Bins.GetByID(binID)
	if err != nil {
		return err
	}
	if bin == nil || bin.WarehouseID != warehouseID {
		return domain.NewDocumentError(domain.ErrBinWarehouseMismatch,
			fmt.Sprintf("%s: el bin %s no pertenece a la bodega del documento", docNumber, binID))
	}
	return nil
}

func newLedgerEntry(doc *entity.Document, item entity.DocumentItem, txType string, qty, balanceAfter decimal.Decimal, reference, createdBy string, now time.Time) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:              uuid.New().String(),
		ProductID:       item.ProductID,
		WarehouseID:     doc.WarehouseID,
		BinID:           item.BinID,
		TransactionType: txType,
		DocumentNumber:  doc.Number,
		Quantity:        qty,
		BalanceAfter:    balanceAfter,
		Reference:       reference,
		CreatedBy:       createdBy,
		CreatedAt:       now,
	}
}

// completeReceipt suma stock en la bodega del documento. Los bins referidos
// deben pertenecer a la bodega; la verificación estructural corre antes de
// mutar saldo alguno para que el primer fallo gane sin efectos parciales.
func completeReceipt(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	for _, item := range doc.Items {
		if item.BinID == "" {
			continue
		}
		if err := checkBinWarehouse(r, item.BinID, doc.WarehouseID, doc.Number); err != nil {
			return nil, err
		}
	}

	deltas := make([]ItemDelta, 0, len(doc.Items))
	for _, item := range doc.Items {
		qty, err := stockQuantityInTx(r, item)
		if err != nil {
			return nil, err
		}
		balance, err := lockBalance(r, item.ProductID, doc.WarehouseID)
		if err != nil {
			return nil, err
		}
		balance.Quantity = balance.Quantity.Add(qty)
		balance.UpdatedAt = now
		if err := r.Stock.Upsert(balance); err != nil {
			return nil, err
		}
		if item.BinID != "" {
			if err := addBinStock(r, item.ProductID, doc.WarehouseID, item.BinID, qty, now); err != nil {
				return nil, err
			}
		}
		if err := r.Ledger.Append(newLedgerEntry(doc, item, entity.LedgerReceipt,
			qty, balance.Quantity, doc.Receipt.Supplier, actor.ID, now)); err != nil {
			return nil, err
		}
		deltas = append(deltas, ItemDelta{ProductID: item.ProductID, QuantityDelta: qty, BinID: item.BinID})
	}
	return deltas, nil
}

// completeDelivery resta stock verificando disponible (cantidad − reservado)
// bajo bloqueo de fila. El decremento por bin es best-effort: si el bin no
// tiene saldo registrado la salida igual procede contra el saldo de bodega.
func completeDelivery(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	deltas := make([]ItemDelta, 0, len(doc.Items))
	for _, item := range doc.Items {
		qty, err := stockQuantityInTx(r, item)
		if err != nil {
			return nil, err
		}
		balance, err := lockBalance(r, item.ProductID, doc.WarehouseID)
		if err != nil {
			return nil, err
		}
		available := balance.Available()
		if available.LessThan(qty) {
			detail := fmt.Sprintf("%s: disponible %s, solicitado %s del producto %s",
				doc.Number, available, qty, item.ProductID)
			if !balance.Quantity.IsPositive() {
				detail = fmt.Sprintf("%s: sin stock del producto %s", doc.Number, item.ProductID)
			}
			return nil, domain.NewDocumentError(domain.ErrInsufficientStock, detail)
		}
		balance.Quantity = balance.Quantity.Sub(qty)
		balance.UpdatedAt = now
		if err := r.Stock.Upsert(balance); err != nil {
			return nil, err
		}
		if item.BinID != "" {
			binBalance, err := r.BinStock.GetForUpdate(item.ProductID, doc.WarehouseID, item.BinID)
			if err != nil {
				return nil, err
			}
			if binBalance != nil {
				binBalance.Quantity = binBalance.Quantity.Sub(qty)
				if binBalance.Quantity.IsNegative() {
					binBalance.Quantity = decimal.Zero
				}
				binBalance.UpdatedAt = now
				if err := r.BinStock.Upsert(binBalance); err != nil {
					return nil, err
				}
			}
		}
		if err := r.Ledger.Append(newLedgerEntry(doc, item, entity.LedgerDelivery,
			qty.Neg(), balance.Quantity, doc.Delivery.Customer, actor.ID, now)); err != nil {
			return nil, err
		}
		deltas = append(deltas, ItemDelta{ProductID: item.ProductID, QuantityDelta: qty.Neg(), BinID: item.BinID})
	}
	return deltas, nil
}

// completeTransfer mueve stock entre bodegas de forma atómica: dos asientos
// por línea (transfer_out en origen, transfer_in en destino) en la misma
// transacción. Los bins de las líneas pertenecen a la bodega DESTINO. El
// orden de bloqueo es origen primero, destino después, consistente entre
// completaciones para no cruzar bloqueos.
func completeTransfer(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	toWarehouseID := doc.Transfer.ToWarehouseID
	if toWarehouseID == doc.WarehouseID {
		return nil, domain.NewDocumentError(domain.ErrInvalidTransfer,
			fmt.Sprintf("%s: origen y destino son la misma bodega", doc.Number))
	}
	source, err := r.Warehouses.GetByID(doc.WarehouseID)
	if err != nil {
		return nil, err
	}
	dest, err := r.Warehouses.GetByID(toWarehouseID)
	if err != nil {
		return nil, err
	}
	if source == nil || dest == nil {
		return nil, domain.ErrNotFound
	}
	for _, item := range doc.Items {
		if item.BinID == "" {
			continue
		}
		if err := checkBinWarehouse(r, item.BinID, toWarehouseID, doc.Number); err != nil {
			return nil, err
		}
	}

	deltas := make([]ItemDelta, 0, len(doc.Items))
	for _, item := range doc.Items {
		qty, err := stockQuantityInTx(r, item)
		if err != nil {
			return nil, err
		}
		srcBalance, err := lockBalance(r, item.ProductID, doc.WarehouseID)
		if err != nil {
			return nil, err
		}
		if srcBalance.Available().LessThan(qty) {
			return nil, domain.NewDocumentError(domain.ErrInsufficientStock,
				fmt.Sprintf("%s: disponible %s, solicitado %s del producto %s en origen",
					doc.Number, srcBalance.Available(), qty, item.ProductID))
		}
		srcBalance.Quantity = srcBalance.Quantity.Sub(qty)
		srcBalance.UpdatedAt = now
		if err := r.Stock.Upsert(srcBalance); err != nil {
			return nil, err
		}

		dstBalance, err := lockBalance(r, item.ProductID, toWarehouseID)
		if err != nil {
			return nil, err
		}
		dstBalance.Quantity = dstBalance.Quantity.Add(qty)
		dstBalance.UpdatedAt = now
		if err := r.Stock.Upsert(dstBalance); err != nil {
			return nil, err
		}
		if item.BinID != "" {
			if err := addBinStock(r, item.ProductID, toWarehouseID, item.BinID, qty, now); err != nil {
				return nil, err
			}
		}

		out := newLedgerEntry(doc, item, entity.LedgerTransferOut,
			qty.Neg(), srcBalance.Quantity, fmt.Sprintf("Hacia %s", dest.Name), actor.ID, now)
		if err := r.Ledger.Append(out); err != nil {
			return nil, err
		}
		in := newLedgerEntry(doc, item, entity.LedgerTransferIn,
			qty, dstBalance.Quantity, fmt.Sprintf("Desde %s", source.Name), actor.ID, now)
		in.WarehouseID = toWarehouseID
		if err := r.Ledger.Append(in); err != nil {
			return nil, err
		}
		deltas = append(deltas, ItemDelta{ProductID: item.ProductID, QuantityDelta: qty.Neg(), BinID: ""})
		deltas = append(deltas, ItemDelta{ProductID: item.ProductID, QuantityDelta: qty, BinID: item.BinID})
	}
	return deltas, nil
}

// completeAdjustment aplica increase/decrease/set por línea. decrease no
// baja de cero; el asiento registra el delta efectivamente aplicado, de modo
// que balance_after siempre reconcilia con el asiento anterior.
func completeAdjustment(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	adjType := doc.Adjustment.AdjustmentType
	deltas := make([]ItemDelta, 0, len(doc.Items))
	for _, item := range doc.Items {
		balance, err := lockBalance(r, item.ProductID, doc.WarehouseID)
		if err != nil {
			return nil, err
		}
		oldQuantity := balance.Quantity
		var newQuantity decimal.Decimal
		switch adjType {
		case entity.AdjustmentIncrease:
			newQuantity = oldQuantity.Add(item.Quantity)
		case entity.AdjustmentDecrease:
			newQuantity = oldQuantity.Sub(item.Quantity)
			if newQuantity.IsNegative() {
				newQuantity = decimal.Zero
			}
		case entity.AdjustmentSet:
			newQuantity = item.Quantity
		default:
			return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition,
				fmt.Sprintf("%s: tipo de ajuste desconocido %q", doc.Number, adjType))
		}

		delta := newQuantity.Sub(oldQuantity)
		balance.Quantity = newQuantity
		balance.UpdatedAt = now
		if err := r.Stock.Upsert(balance); err != nil {
			return nil, err
		}
		if err := r.Ledger.Append(newLedgerEntry(doc, item, entity.LedgerAdjustment,
			delta, balance.Quantity, doc.Adjustment.Reason, actor.ID, now)); err != nil {
			return nil, err
		}
		deltas = append(deltas, ItemDelta{ProductID: item.ProductID, QuantityDelta: delta, BinID: item.BinID})
	}
	return deltas, nil
}

// completeReturn reingresa mercancía. Con bodega de cuarentena activa el
// destino es la cuarentena; si no, la bodega del documento. restock y repair
// suman stock; scrap no suma pero deja asiento de cantidad cero como rastro.
func completeReturn(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	targetWarehouseID := doc.WarehouseID
	quarantine, err := r.Warehouses.GetQuarantine()
	if err != nil {
		return nil, err
	}
	if quarantine != nil {
		targetWarehouseID = quarantine.ID
	}

	reference := fmt.Sprintf("Disposición: %s", doc.Return.Disposition)
	if doc.Return.Reason != "" {
		reference = fmt.Sprintf("%s; Motivo: %s", reference, doc.Return.Reason)
	}

	deltas := make([]ItemDelta, 0, len(doc.Items))
	for _, item := range doc.Items {
		balance, err := lockBalance(r, item.ProductID, targetWarehouseID)
		if err != nil {
			return nil, err
		}

		var entryQty decimal.Decimal
		if doc.Return.Disposition == entity.DispositionScrap {
			entryQty = decimal.Zero
		} else {
			entryQty = item.Quantity
			balance.Quantity = balance.Quantity.Add(entryQty)
			balance.UpdatedAt = now
			if err := r.Stock.Upsert(balance); err != nil {
				return nil, err
			}
		}

		entry := newLedgerEntry(doc, item, entity.LedgerReturn,
			entryQty, balance.Quantity, reference, actor.ID, now)
		entry.WarehouseID = targetWarehouseID
		if err := r.Ledger.Append(entry); err != nil {
			return nil, err
		}
		if !entryQty.IsZero() {
			deltas = append(deltas, ItemDelta{ProductID: item.ProductID, QuantityDelta: entryQty, BinID: item.BinID})
		}
	}
	return deltas, nil
}

// completeCycleCountNoop existe para que el mapa cubra los seis tipos; los
// conteos llegan a done por CompleteCycleCount, que completa el ajuste
// derivado y no pasa por aquí.
func completeCycleCountNoop(uc *WorkflowUseCase, r TxRepos, doc *entity.Document, actor *entity.User, now time.Time) ([]ItemDelta, error) {
	return nil, domain.NewDocumentError(domain.ErrInvalidStateTransition,
		fmt.Sprintf("%s: un conteo cíclico no se valida directamente", doc.Number))
}
