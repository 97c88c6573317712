package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// Claves de ruteo de los eventos del flujo operativo.
const (
	EventRunStarted       = "run.started"
	EventRunFinished      = "run.finished"
	EventBatchClosed      = "sorting.batch_closed"
	EventMovementRecorded = "stock.movement_recorded"
)

// Event notificación de un hecho ya confirmado (se publica después del commit).
type Event struct {
	Type       string    `json:"type"`
	OrgID      string    `json:"orgId"`
	EntityID   string    `json:"entityId"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// EventPublisher puerto de salida hacia el broker. Un fallo de publicación no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NoopPublisher descarta los eventos (broker no configurado, tests).
type NoopPublisher struct{}

// Publish no hace nada.
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// WorkflowMetrics puerto de métricas de negocio.
type WorkflowMetrics interface {
	// Operation cuenta una operación del flujo por nombre y resultado (err nil = ok).
	Operation(name string, err error)
	// StockMoved acumula kg movidos por tipo.
	StockMoved(t entity.MovementType, kg decimal.Decimal)
}

// NoopMetrics descarta las métricas.
type NoopMetrics struct{}

func (NoopMetrics) Operation(string, error) {}
func (NoopMetrics) StockMoved(entity.MovementType, decimal.Decimal) {}
