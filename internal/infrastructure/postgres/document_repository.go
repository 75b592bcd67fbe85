package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de inventario sobre PostgreSQL. Una sola tabla
// documents para los seis tipos: el kind discrimina y las columnas de
// payload no aplicables quedan NULL. Las líneas viven en document_items.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	id, number, kind, status, warehouse_id, created_by, notes,
	requires_approval, approved_by, approved_at, created_at, updated_at, completed_at,
	supplier, supplier_reference,
	customer, customer_reference, shipping_address,
	to_warehouse_id,
	reason, adjustment_type,
	delivery_id, disposition,
	scheduled_date, count_method, generated_adjustment_id`

// Create persiste el documento y sus líneas.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	ctx := context.Background()
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query, documentArgs(doc)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	for i := range doc.Items {
		if err := r.insertItem(ctx, doc.ID, &doc.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func documentArgs(doc *entity.Document) []any {
	var supplier, supplierRef *string
	if doc.Receipt != nil {
		supplier, supplierRef = &doc.Receipt.Supplier, nullIfEmpty(doc.Receipt.SupplierReference)
	}
	var customer, customerRef, shippingAddr *string
	if doc.Delivery != nil {
		customer = &doc.Delivery.Customer
		customerRef = nullIfEmpty(doc.Delivery.CustomerReference)
		shippingAddr = nullIfEmpty(doc.Delivery.ShippingAddress)
	}
	var toWarehouseID *string
	if doc.Transfer != nil {
		toWarehouseID = &doc.Transfer.ToWarehouseID
	}
	var reason, adjustmentType *string
	if doc.Adjustment != nil {
		reason, adjustmentType = &doc.Adjustment.Reason, &doc.Adjustment.AdjustmentType
	}
	var deliveryID, disposition *string
	if doc.Return != nil {
		deliveryID = nullIfEmpty(doc.Return.DeliveryID)
		reason = nullIfEmpty(doc.Return.Reason)
		disposition = &doc.Return.Disposition
	}
	var scheduledDate *time.Time
	var countMethod, generatedAdjustmentID *string
	if doc.CycleCount != nil {
		scheduledDate = doc.CycleCount.ScheduledDate
		countMethod = &doc.CycleCount.Method
		generatedAdjustmentID = nullIfEmpty(doc.CycleCount.GeneratedAdjustmentID)
	}
	return []any{
		doc.ID, doc.Number, doc.Kind, doc.Status, doc.WarehouseID, doc.CreatedBy, doc.Notes,
		doc.RequiresApproval, nullIfEmpty(doc.ApprovedBy), doc.ApprovedAt,
		doc.CreatedAt, doc.UpdatedAt, doc.CompletedAt,
		supplier, supplierRef,
		customer, customerRef, shippingAddr,
		toWarehouseID,
		reason, adjustmentType,
		deliveryID, disposition,
		scheduledDate, countMethod, generatedAdjustmentID,
	}
}

func (r *DocumentRepo) insertItem(ctx context.Context, documentID string, item *entity.DocumentItem) error {
	query := `
		INSERT INTO document_items (id, document_id, product_id, bin_id, quantity, unit_of_measure,
			current_quantity, expected_quantity, counted_quantity, unit_price, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, documentID, item.ProductID, nullIfEmpty(item.BinID), item.Quantity, item.UnitOfMeasure,
		item.CurrentQuantity, item.ExpectedQuantity, item.CountedQuantity, item.UnitPrice, item.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert document item: %w", err)
	}
	item.DocumentID = documentID
	return nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var kind, status string
	var approvedBy *string
	var supplier, supplierRef *string
	var customer, customerRef, shippingAddr *string
	var toWarehouseID *string
	var reason, adjustmentType *string
	var deliveryID, disposition *string
	var scheduledDate *time.Time
	var countMethod, generatedAdjustmentID *string

	err := row.Scan(
		&d.ID, &d.Number, &kind, &status, &d.WarehouseID, &d.CreatedBy, &d.Notes,
		&d.RequiresApproval, &approvedBy, &d.ApprovedAt, &d.CreatedAt, &d.UpdatedAt, &d.CompletedAt,
		&supplier, &supplierRef,
		&customer, &customerRef, &shippingAddr,
		&toWarehouseID,
		&reason, &adjustmentType,
		&deliveryID, &disposition,
		&scheduledDate, &countMethod, &generatedAdjustmentID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	d.Kind = entity.DocumentKind(kind)
	d.Status = entity.DocumentStatus(status)
	d.ApprovedBy = deref(approvedBy)

	switch d.Kind {
	case entity.KindReceipt:
		d.Receipt = &entity.ReceiptData{Supplier: deref(supplier), SupplierReference: deref(supplierRef)}
	case entity.KindDelivery:
		d.Delivery = &entity.DeliveryData{
			Customer:          deref(customer),
			CustomerReference: deref(customerRef),
			ShippingAddress:   deref(shippingAddr),
		}
	case entity.KindTransfer:
		d.Transfer = &entity.TransferData{ToWarehouseID: deref(toWarehouseID)}
	case entity.KindAdjustment:
		d.Adjustment = &entity.AdjustmentData{Reason: deref(reason), AdjustmentType: deref(adjustmentType)}
	case entity.KindReturn:
		d.Return = &entity.ReturnData{
			DeliveryID:  deref(deliveryID),
			Reason:      deref(reason),
			Disposition: deref(disposition),
		}
	case entity.KindCycleCount:
		d.CycleCount = &entity.CycleCountData{
			ScheduledDate:         scheduledDate,
			Method:                deref(countMethod),
			GeneratedAdjustmentID: deref(generatedAdjustmentID),
		}
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetByID obtiene un documento con sus líneas; nil si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	return r.getBy("id", id)
}

// GetByNumber obtiene un documento por su consecutivo; nil si no existe.
func (r *DocumentRepo) GetByNumber(number string) (*entity.Document, error) {
	return r.getBy("number", number)
}

func (r *DocumentRepo) getBy(column, value string) (*entity.Document, error) {
	ctx := context.Background()
	query := `SELECT ` + documentColumns + ` FROM documents WHERE ` + column + ` = $1`
	doc, err := scanDocument(r.q.QueryRow(ctx, query, value))
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	if err := r.loadItems(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepo) loadItems(ctx context.Context, doc *entity.Document) error {
	query := `
		SELECT id, document_id, product_id, COALESCE(bin_id, ''), quantity, unit_of_measure,
			current_quantity, expected_quantity, counted_quantity, unit_price, reason
		FROM document_items WHERE document_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, doc.ID)
	if err != nil {
		return fmt.Errorf("list document items: %w", err)
	}
	defer rows.Close()

	doc.Items = doc.Items[:0]
	for rows.Next() {
		var item entity.DocumentItem
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.ProductID, &item.BinID,
			&item.Quantity, &item.UnitOfMeasure, &item.CurrentQuantity, &item.ExpectedQuantity,
			&item.CountedQuantity, &item.UnitPrice, &item.Reason); err != nil {
			return fmt.Errorf("scan document item: %w", err)
		}
		doc.Items = append(doc.Items, item)
	}
	return rows.Err()
}

// Update actualiza el encabezado del documento (estado, aprobación, payload
// mutable del kind). Las líneas no se tocan aquí.
func (r *DocumentRepo) Update(doc *entity.Document) error {
	var generatedAdjustmentID *string
	if doc.CycleCount != nil {
		generatedAdjustmentID = nullIfEmpty(doc.CycleCount.GeneratedAdjustmentID)
	}
	query := `
		UPDATE documents SET
			status = $2, notes = $3, requires_approval = $4, approved_by = $5, approved_at = $6,
			updated_at = $7, completed_at = $8, generated_adjustment_id = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Status, doc.Notes, doc.RequiresApproval,
		nullIfEmpty(doc.ApprovedBy), doc.ApprovedAt,
		doc.UpdatedAt, doc.CompletedAt, generatedAdjustmentID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItemCounts persiste las cantidades contadas de las líneas dadas.
func (r *DocumentRepo) UpdateItemCounts(documentID string, items []entity.DocumentItem) error {
	ctx := context.Background()
	query := `UPDATE document_items SET counted_quantity = $3 WHERE document_id = $1 AND id = $2`
	for _, item := range items {
		tag, err := r.q.Exec(ctx, query, documentID, item.ID, item.CountedQuantity)
		if err != nil {
			return fmt.Errorf("update item count: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

// List lista documentos filtrados con sus líneas, los más recientes primero.
func (r *DocumentRepo) List(filter repository.DocumentFilter) ([]*entity.Document, error) {
	ctx := context.Background()
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE ($1 = '' OR kind = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3::text[] IS NULL OR warehouse_id = ANY($3) OR (kind = 'transfer' AND to_warehouse_id = ANY($3)))
		  AND ($4 = '' OR created_by = $4)
		ORDER BY created_at DESC, number DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query,
		string(filter.Kind), string(filter.Status), filter.WarehouseIDs, filter.CreatedBy,
		limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, doc := range out {
		if err := r.loadItems(ctx, doc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete elimina un documento; las líneas caen en cascada.
func (r *DocumentRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
