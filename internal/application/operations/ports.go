package operations

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad de la ejecución de coleta (run + eventos + ítems).
type TxRunner interface {
	RunOperations(ctx context.Context, fn func(
		assignments repository.AssignmentRepository,
		runs repository.RunRepository,
		events repository.EventRepository,
		items repository.CollectedItemRepository,
	) error) error
}
