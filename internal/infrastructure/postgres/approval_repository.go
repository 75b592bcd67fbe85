package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo registros de aprobación sobre PostgreSQL. La unicidad por
// (document_kind, document_id) la garantiza el constraint único de la tabla;
// la carrera de dos aprobadores la pierde el segundo con ErrDuplicateApproval.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

// Create persiste la aprobación; ErrDuplicateApproval si el documento ya
// tiene una.
func (r *ApprovalRepo) Create(approval *entity.Approval) error {
	query := `
		INSERT INTO approvals (id, document_kind, document_id, approver_id, approved_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		approval.ID, approval.DocumentKind, approval.DocumentID,
		approval.ApproverID, approval.ApprovedAt, approval.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateApproval
		}
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// GetByDocument obtiene la aprobación de un documento; nil si no hay.
func (r *ApprovalRepo) GetByDocument(kind entity.DocumentKind, documentID string) (*entity.Approval, error) {
	query := `
		SELECT id, document_kind, document_id, approver_id, approved_at, notes
		FROM approvals WHERE document_kind = $1 AND document_id = $2`
	var a entity.Approval
	err := r.q.QueryRow(context.Background(), query, kind, documentID).Scan(
		&a.ID, &a.DocumentKind, &a.DocumentID, &a.ApproverID, &a.ApprovedAt, &a.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return &a, nil
}

// ListByDocument lista las aprobaciones de un documento (a lo sumo una por
// el constraint, pero el contrato devuelve lista).
func (r *ApprovalRepo) ListByDocument(kind entity.DocumentKind, documentID string) ([]*entity.Approval, error) {
	a, err := r.GetByDocument(kind, documentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return []*entity.Approval{a}, nil
}

var _ repository.PolicyRepository = (*PolicyRepo)(nil)

// PolicyRepo políticas de aprobación sobre PostgreSQL.
type PolicyRepo struct {
	q Querier
}

// NewPolicyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPolicyRepository(q Querier) *PolicyRepo {
	return &PolicyRepo{q: q}
}

const policyColumns = `id, document_kind, COALESCE(warehouse_id, ''), threshold_total_quantity, is_active, created_at`

// Create persiste una política.
func (r *PolicyRepo) Create(policy *entity.ApprovalPolicy) error {
	query := `
		INSERT INTO approval_policies (id, document_kind, warehouse_id, threshold_total_quantity, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		policy.ID, policy.DocumentKind, nullIfEmpty(policy.WarehouseID),
		policy.ThresholdTotalQuantity, policy.IsActive, policy.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert policy: %w", err)
	}
	return nil
}

// GetByID obtiene una política; nil si no existe.
func (r *PolicyRepo) GetByID(id string) (*entity.ApprovalPolicy, error) {
	query := `SELECT ` + policyColumns + ` FROM approval_policies WHERE id = $1`
	var p entity.ApprovalPolicy
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.DocumentKind, &p.WarehouseID, &p.ThresholdTotalQuantity, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get policy: %w", err)
	}
	return &p, nil
}

// Update actualiza umbral y estado de una política.
func (r *PolicyRepo) Update(policy *entity.ApprovalPolicy) error {
	query := `
		UPDATE approval_policies SET threshold_total_quantity = $2, is_active = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		policy.ID, policy.ThresholdTotalQuantity, policy.IsActive)
	if err != nil {
		return fmt.Errorf("update policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive políticas activas para un kind, específicas de la bodega o
// globales; las específicas primero (el evaluador respeta ese orden).
func (r *PolicyRepo) ListActive(kind entity.DocumentKind, warehouseID string) ([]*entity.ApprovalPolicy, error) {
	query := `
		SELECT ` + policyColumns + `
		FROM approval_policies
		WHERE is_active AND document_kind = $1 AND (warehouse_id = $2 OR warehouse_id IS NULL)
		ORDER BY warehouse_id NULLS LAST, created_at`
	rows, err := r.q.Query(context.Background(), query, kind, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list active policies: %w", err)
	}
	defer rows.Close()
	return scanPolicies(rows)
}

// List lista políticas paginadas.
func (r *PolicyRepo) List(limit, offset int) ([]*entity.ApprovalPolicy, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + policyColumns + `
		FROM approval_policies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func scanPolicies(rows pgx.Rows) ([]*entity.ApprovalPolicy, error) {
	var out []*entity.ApprovalPolicy
	for rows.Next() {
		var p entity.ApprovalPolicy
		if err := rows.Scan(&p.ID, &p.DocumentKind, &p.WarehouseID,
			&p.ThresholdTotalQuantity, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Delete elimina una política.
func (r *PolicyRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM approval_policies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
