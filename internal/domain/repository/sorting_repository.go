package repository

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// SortingBatchRepository puerto de persistencia para SortingBatch y sus SortedItem.
type SortingBatchRepository interface {
	Create(ctx context.Context, b *entity.SortingBatch) error
	GetByID(ctx context.Context, orgID, id string) (*entity.SortingBatch, error)
	GetForUpdate(ctx context.Context, orgID, id string) (*entity.SortingBatch, error)
	HasOpen(ctx context.Context, runID string) (bool, error)
	// List filtra por estado cuando closed != nil; más recientes primero.
	List(ctx context.Context, orgID string, closed *bool) ([]*entity.SortingBatch, error)
	Close(ctx context.Context, id string) error

	AddItem(ctx context.Context, item *entity.SortedItem) error
	GetItem(ctx context.Context, batchID, itemID string) (*entity.SortedItem, error)
	RemoveItem(ctx context.Context, batchID, itemID string) error
	ListItems(ctx context.Context, batchID string) ([]entity.SortedItem, error)
}
