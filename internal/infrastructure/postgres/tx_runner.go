package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/stockmaster-api/internal/application/documents"
)

// Asegura que TxRunner implementa documents.TxRunner.
var _ documents.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repositorios atados a la tx
// y hace Commit o Rollback. El rollback diferido es inocuo tras el commit.
func (r *TxRunner) Run(ctx context.Context, fn func(repos documents.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := documents.TxRepos{
		Documents:  NewDocumentRepository(tx),
		Stock:      NewStockRepository(tx),
		BinStock:   NewBinStockRepository(tx),
		Ledger:     NewLedgerRepository(tx),
		Approvals:  NewApprovalRepository(tx),
		Audit:      NewAuditRepository(tx),
		Sequences:  NewSequenceRepository(tx),
		Products:   NewProductRepository(tx),
		Warehouses: NewWarehouseRepository(tx),
		Bins:       NewBinRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
