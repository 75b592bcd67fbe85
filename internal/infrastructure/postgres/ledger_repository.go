package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro de stock append-only sobre PostgreSQL. No hay UPDATE ni
// DELETE contra stock_ledger en ninguna parte de este paquete.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append persiste un asiento del libro.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, product_id, warehouse_id, bin_id, transaction_type,
			document_number, quantity, balance_after, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.WarehouseID, nullIfEmpty(entry.BinID), entry.TransactionType,
		entry.DocumentNumber, entry.Quantity, entry.BalanceAfter, entry.Reference,
		entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// List lista asientos filtrados, los más recientes primero.
func (r *LedgerRepo) List(filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, product_id, warehouse_id, COALESCE(bin_id, ''), transaction_type,
			document_number, quantity, balance_after, reference, created_by, created_at
		FROM stock_ledger
		WHERE ($1 = '' OR product_id = $1)
		  AND ($2::text[] IS NULL OR warehouse_id = ANY($2))
		  AND ($3 = '' OR transaction_type = $3)
		  AND ($4 = '' OR document_number = $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		filter.ProductID, filter.WarehouseIDs, filter.TransactionType, filter.DocumentNumber,
		limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.BinID, &e.TransactionType,
			&e.DocumentNumber, &e.Quantity, &e.BalanceAfter, &e.Reference, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
