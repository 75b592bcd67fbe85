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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	id, sku, name, description, barcode, stock_unit, purchase_unit, conversion_factor,
	COALESCE(default_bin_id, ''), reorder_level, reorder_quantity, is_active, created_at, updated_at`

// Create persiste un nuevo producto; ErrDuplicate si el SKU ya existe.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, barcode, stock_unit, purchase_unit,
			conversion_factor, default_bin_id, reorder_level, reorder_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description, product.Barcode,
		product.StockUnit, product.PurchaseUnit, product.ConversionFactor,
		nullIfEmpty(product.DefaultBinID), product.ReorderLevel, product.ReorderQuantity,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Barcode,
		&p.StockUnit, &p.PurchaseUnit, &p.ConversionFactor, &p.DefaultBinID,
		&p.ReorderLevel, &p.ReorderQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un producto; nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU; nil si no existe.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, sku))
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza un producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET
			name = $2, description = $3, barcode = $4, stock_unit = $5, purchase_unit = $6,
			conversion_factor = $7, default_bin_id = $8, reorder_level = $9, reorder_quantity = $10,
			is_active = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Barcode,
		product.StockUnit, product.PurchaseUnit, product.ConversionFactor,
		nullIfEmpty(product.DefaultBinID), product.ReorderLevel, product.ReorderQuantity,
		product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos paginados por SKU.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + productColumns + ` FROM products ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
