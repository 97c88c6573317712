package sorting

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción. El cierre de un lote de triagem
// (lotes de estoque + movimientos IN + is_closed) confirma todo o nada.
type TxRunner interface {
	RunSorting(ctx context.Context, fn func(
		runs repository.RunRepository,
		batches repository.SortingBatchRepository,
		lots repository.StockLotRepository,
		movements repository.StockMovementRepository,
	) error) error
}
