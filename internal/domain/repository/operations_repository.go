package repository

import (
	"context"
	"time"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// AssignmentFilter filtros de listado por fecha de la asignación (inclusive).
type AssignmentFilter struct {
	From *time.Time
	To   *time.Time
}

// AssignmentRepository puerto de persistencia para RouteAssignment.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.RouteAssignment) error
	GetByID(ctx context.Context, orgID, id string) (*entity.RouteAssignment, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar dentro de una transacción.
	GetForUpdate(ctx context.Context, orgID, id string) (*entity.RouteAssignment, error)
	List(ctx context.Context, orgID string, f AssignmentFilter) ([]*entity.RouteAssignment, error)
	CountRuns(ctx context.Context, assignmentID string) (int, error)
	Delete(ctx context.Context, orgID, id string) error
}

// RunFilter filtros de listado de ejecuciones. From/To sobre created_at.
type RunFilter struct {
	Status       *entity.RunStatus
	AssignmentID string
	From         *time.Time
	To           *time.Time
}

// RunRepository puerto de persistencia para CollectionRun.
type RunRepository interface {
	Create(ctx context.Context, run *entity.CollectionRun) error
	GetByID(ctx context.Context, orgID, id string) (*entity.CollectionRun, error)
	GetForUpdate(ctx context.Context, orgID, id string) (*entity.CollectionRun, error)
	// HasActive indica si la asignación ya tiene una ejecución EM_ANDAMENTO.
	HasActive(ctx context.Context, assignmentID string) (bool, error)
	List(ctx context.Context, orgID string, f RunFilter) ([]*entity.CollectionRun, error)
	// Update persiste status, ended_at y notes.
	Update(ctx context.Context, run *entity.CollectionRun) error
}

// EventRepository puerto de persistencia para CollectionEvent.
type EventRepository interface {
	CreateBatch(ctx context.Context, events []*entity.CollectionEvent) error
	GetByRunAndStop(ctx context.Context, runID, stopID string) (*entity.CollectionEvent, error)
	// GetForUpdate como GetByRunAndStop, bloqueando la fila.
	GetForUpdate(ctx context.Context, runID, stopID string) (*entity.CollectionEvent, error)
	// ListByRun devuelve los eventos (con Stop y Point) ordenados por orderIndex de la parada.
	ListByRun(ctx context.Context, runID string) ([]entity.CollectionEvent, error)
	Update(ctx context.Context, e *entity.CollectionEvent) error
}

// CollectedItemRepository puerto de persistencia para CollectedItem.
type CollectedItemRepository interface {
	// ReplaceForEvent borra todos los ítems del evento e inserta items (reemplazo total).
	ReplaceForEvent(ctx context.Context, eventID string, items []*entity.CollectedItem) error
	ListByEvent(ctx context.Context, eventID string) ([]entity.CollectedItem, error)
	ListByRun(ctx context.Context, runID string) ([]entity.CollectedItem, error)
}
