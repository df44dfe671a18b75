package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wholesale-trade/internal/application/inventory"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// ledgerLockKey clave del advisory lock que serializa las escrituras al libro entre procesos.
const ledgerLockKey int64 = 0x1ed9e7

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, toma el advisory lock del libro, ejecuta fn con repos atados a
// la tx y hace Commit o Rollback. El lock se libera con la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	productRepo repository.ProductRepository,
	lineRepo repository.InvoiceLineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	if err := fn(ctx, NewProductRepository(tx), NewInvoiceLineRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
