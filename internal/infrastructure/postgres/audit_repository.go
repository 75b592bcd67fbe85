package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo log de auditoría append-only sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append persiste un registro de auditoría.
func (r *AuditRepo) Append(entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_log (id, document_kind, document_id, action, warehouse_id, user_id,
			message, before_state, after_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.DocumentKind, entry.DocumentID, entry.Action,
		nullIfEmpty(entry.WarehouseID), entry.UserID, entry.Message,
		entry.Before, entry.After, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List lista registros filtrados, los más recientes primero.
func (r *AuditRepo) List(filter repository.AuditFilter) ([]*entity.AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, document_kind, document_id, action, COALESCE(warehouse_id, ''), user_id,
			message, before_state, after_state, created_at
		FROM audit_log
		WHERE ($1 = '' OR document_kind = $1)
		  AND ($2 = '' OR document_id = $2)
		  AND ($3 = '' OR action = $3)
		  AND ($4 = '' OR user_id = $4)
		  AND ($5::text[] IS NULL OR warehouse_id = ANY($5))
		ORDER BY created_at DESC, id DESC
		LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(context.Background(), query,
		string(filter.DocumentKind), filter.DocumentID, filter.Action, filter.UserID,
		filter.WarehouseIDs, limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.DocumentKind, &e.DocumentID, &e.Action, &e.WarehouseID,
			&e.UserID, &e.Message, &e.Before, &e.After, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
