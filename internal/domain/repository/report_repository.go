package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// ReportPeriod rango sobre created_at de las ejecuciones. Extremos nil = abierto.
type ReportPeriod struct {
	From *time.Time
	To   *time.Time
}

// RunFact fila cruda de una ejecución del período con su equipo.
type RunFact struct {
	RunID    string
	Status   entity.RunStatus
	TeamID   string
	TeamName string
}

// EventFact fila cruda de un evento de una ejecución del período.
type EventFact struct {
	RunID      string
	Status     entity.EventStatus
	SkipReason *string
}

// ItemFact ítem recogido en un evento COLETADO de una ejecución del período.
type ItemFact struct {
	RunID          string
	MaterialTypeID string
	MaterialName   string
	Category       *string
	Quantity       decimal.Decimal
}

// ReportRepository consultas read-only que alimentan el resumen de reportes.
// Cada método es una consulta independiente; no hay snapshot común entre ellas.
type ReportRepository interface {
	RunFacts(ctx context.Context, orgID string, p ReportPeriod) ([]RunFact, error)
	EventFacts(ctx context.Context, orgID string, p ReportPeriod) ([]EventFact, error)
	ItemFacts(ctx context.Context, orgID string, p ReportPeriod) ([]ItemFact, error)
}
