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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, code, name, address, is_active, is_quarantine, created_at, updated_at`

// Create persiste una nueva bodega; ErrDuplicate si el código ya existe.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.Code, warehouse.Name, warehouse.Address,
		warehouse.IsActive, warehouse.IsQuarantine, warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Address, &w.IsActive, &w.IsQuarantine, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// GetByID obtiene una bodega; nil si no existe.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`
	w, err := scanWarehouse(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// Update actualiza una bodega.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET name = $2, address = $3, is_active = $4, is_quarantine = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.Name, warehouse.Address,
		warehouse.IsActive, warehouse.IsQuarantine, warehouse.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista bodegas paginadas por código.
func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + warehouseColumns + ` FROM warehouses ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetQuarantine devuelve la bodega de cuarentena activa, o nil si no hay.
// Con varias, gana la más antigua.
func (r *WarehouseRepo) GetQuarantine() (*entity.Warehouse, error) {
	query := `
		SELECT ` + warehouseColumns + `
		FROM warehouses WHERE is_quarantine AND is_active
		ORDER BY created_at
		LIMIT 1`
	w, err := scanWarehouse(r.q.QueryRow(context.Background(), query))
	if err != nil {
		return nil, fmt.Errorf("get quarantine warehouse: %w", err)
	}
	return w, nil
}

// Delete elimina una bodega.
func (r *WarehouseRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.BinRepository = (*BinRepo)(nil)

// BinRepo ubicaciones (bins) sobre PostgreSQL.
type BinRepo struct {
	q Querier
}

// NewBinRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBinRepository(q Querier) *BinRepo {
	return &BinRepo{q: q}
}

const binColumns = `id, warehouse_id, code, description, is_active, created_at`

// Create persiste una ubicación; ErrDuplicate si el código ya existe en la bodega.
func (r *BinRepo) Create(bin *entity.BinLocation) error {
	query := `
		INSERT INTO bin_locations (` + binColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		bin.ID, bin.WarehouseID, bin.Code, bin.Description, bin.IsActive, bin.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bin: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación; nil si no existe.
func (r *BinRepo) GetByID(id string) (*entity.BinLocation, error) {
	query := `SELECT ` + binColumns + ` FROM bin_locations WHERE id = $1`
	var b entity.BinLocation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.WarehouseID, &b.Code, &b.Description, &b.IsActive, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return &b, nil
}

// ListByWarehouse lista las ubicaciones de una bodega.
func (r *BinRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.BinLocation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + binColumns + `
		FROM bin_locations WHERE warehouse_id = $1
		ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()

	var out []*entity.BinLocation
	for rows.Next() {
		var b entity.BinLocation
		if err := rows.Scan(&b.ID, &b.WarehouseID, &b.Code, &b.Description, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// Delete elimina una ubicación.
func (r *BinRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM bin_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
