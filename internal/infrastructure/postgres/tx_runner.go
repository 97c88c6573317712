package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/sorting"
	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var (
	_ operations.TxRunner = (*TxRunner)(nil)
	_ sorting.TxRunner    = (*TxRunner)(nil)
	_ stock.TxRunner      = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOperations transacción de ejecución de coleta: asignación, run, eventos e ítems.
func (r *TxRunner) RunOperations(ctx context.Context, fn func(
	assignments repository.AssignmentRepository,
	runs repository.RunRepository,
	events repository.EventRepository,
	items repository.CollectedItemRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewAssignmentRepository(tx), NewRunRepository(tx), NewEventRepository(tx), NewCollectedItemRepository(tx))
	})
}

// RunSorting transacción de triagem: el cierre crea lotes y movimientos IN.
func (r *TxRunner) RunSorting(ctx context.Context, fn func(
	runs repository.RunRepository,
	batches repository.SortingBatchRepository,
	lots repository.StockLotRepository,
	movements repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewRunRepository(tx), NewSortingBatchRepository(tx), NewStockLotRepository(tx), NewStockMovementRepository(tx))
	})
}

// RunStock transacción de estoque: lote bloqueado + asiento del movimiento.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	lots repository.StockLotRepository,
	movements repository.StockMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockLotRepository(tx), NewStockMovementRepository(tx))
	})
}
