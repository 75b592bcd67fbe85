package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, quantity, reserved_quantity, updated_at`

func scanStockBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := row.Scan(&b.ProductID, &b.WarehouseID, &b.Quantity, &b.ReservedQuantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo de un producto en una bodega; nil si no hay fila.
func (r *StockRepo) Get(productID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2`
	b, err := scanStockBalance(r.q.QueryRow(context.Background(), query, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE). La
// fila inexistente no se bloquea: el caller materializa en cero y el Upsert
// concurrente resuelve por el constraint único.
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	b, err := scanStockBalance(r.q.QueryRow(context.Background(), query, productID, warehouseID))
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo (por producto y bodega).
func (r *StockRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, warehouse_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.ProductID, balance.WarehouseID, balance.Quantity, balance.ReservedQuantity)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

// ListByWarehouses lista saldos; warehouseIDs nil = sin filtro de bodega.
func (r *StockRepo) ListByWarehouses(warehouseIDs []string, limit, offset int) ([]*entity.StockBalance, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_balances
		WHERE ($1::text[] IS NULL OR warehouse_id = ANY($1))
		ORDER BY warehouse_id, product_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseIDs, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.Quantity, &b.ReservedQuantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

var _ repository.BinStockRepository = (*BinStockRepo)(nil)

// BinStockRepo saldos a nivel de ubicación (bin) sobre PostgreSQL.
type BinStockRepo struct {
	q Querier
}

// NewBinStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBinStockRepository(q Querier) *BinStockRepo {
	return &BinStockRepo{q: q}
}

const binStockColumns = `product_id, warehouse_id, bin_id, quantity, reserved_quantity, updated_at`

func scanBinStockBalance(row pgx.Row) (*entity.BinStockBalance, error) {
	var b entity.BinStockBalance
	err := row.Scan(&b.ProductID, &b.WarehouseID, &b.BinID, &b.Quantity, &b.ReservedQuantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo de un producto en un bin; nil si no hay fila.
func (r *BinStockRepo) Get(productID, warehouseID, binID string) (*entity.BinStockBalance, error) {
	query := `
		SELECT ` + binStockColumns + `
		FROM bin_stock_balances WHERE product_id = $1 AND warehouse_id = $2 AND bin_id = $3`
	b, err := scanBinStockBalance(r.q.QueryRow(context.Background(), query, productID, warehouseID, binID))
	if err != nil {
		return nil, fmt.Errorf("get bin stock balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el saldo del bin y bloquea la fila.
func (r *BinStockRepo) GetForUpdate(productID, warehouseID, binID string) (*entity.BinStockBalance, error) {
	query := `
		SELECT ` + binStockColumns + `
		FROM bin_stock_balances WHERE product_id = $1 AND warehouse_id = $2 AND bin_id = $3
		FOR UPDATE`
	b, err := scanBinStockBalance(r.q.QueryRow(context.Background(), query, productID, warehouseID, binID))
	if err != nil {
		return nil, fmt.Errorf("get bin stock balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo del bin.
func (r *BinStockRepo) Upsert(balance *entity.BinStockBalance) error {
	query := `
		INSERT INTO bin_stock_balances (product_id, warehouse_id, bin_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, warehouse_id, bin_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		balance.ProductID, balance.WarehouseID, balance.BinID, balance.Quantity, balance.ReservedQuantity)
	if err != nil {
		return fmt.Errorf("upsert bin stock balance: %w", err)
	}
	return nil
}
