package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain"
)

// RunStatus estado agregado de una ejecución.
type RunStatus string

// Estados de CollectionRun. CONCLUIDO es terminal.
const (
	RunEmAndamento RunStatus = "EM_ANDAMENTO"
	RunConcluido   RunStatus = "CONCLUIDO"
)

// Valid informa si s es un estado conocido.
func (s RunStatus) Valid() bool {
	return s == RunEmAndamento || s == RunConcluido
}

// EventStatus estado de la visita a una parada.
type EventStatus string

// PENDENTE → EM_ANDAMENTO → {COLETADO | NAO_COLETADO}.
const (
	EventPendente    EventStatus = "PENDENTE"
	EventEmAndamento EventStatus = "EM_ANDAMENTO"
	EventColetado    EventStatus = "COLETADO"
	EventNaoColetado EventStatus = "NAO_COLETADO"
)

// Valid informa si s es un estado conocido.
func (s EventStatus) Valid() bool {
	switch s {
	case EventPendente, EventEmAndamento, EventColetado, EventNaoColetado:
		return true
	}
	return false
}

// Terminal COLETADO y NAO_COLETADO no admiten más transiciones.
func (s EventStatus) Terminal() bool {
	return s == EventColetado || s == EventNaoColetado
}

// CollectionRun ejecución real de una asignación.
type CollectionRun struct {
	ID           string
	OrgID        string
	AssignmentID string
	Status       RunStatus
	StartedAt    *time.Time
	EndedAt      *time.Time
	Notes        *string
	Events       []CollectionEvent
	Assignment   *RouteAssignment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RequireActive error de regla de negocio si la ejecución no está EM_ANDAMENTO.
func (r *CollectionRun) RequireActive() error {
	switch r.Status {
	case RunEmAndamento:
		return nil
	case RunConcluido:
		return domain.Conflict("Esta execução não está em andamento")
	default:
		return domain.Conflictf("estado de execução desconhecido: %s", r.Status)
	}
}

// Finish pasa la ejecución a CONCLUIDO. Falla si alguna parada sigue PENDENTE;
// las paradas EM_ANDAMENTO sin cerrar se toleran.
func (r *CollectionRun) Finish(events []CollectionEvent, now time.Time) error {
	if err := r.RequireActive(); err != nil {
		return err
	}
	pending := 0
	for _, e := range events {
		if e.Status == EventPendente {
			pending++
		}
	}
	if pending > 0 {
		return domain.Conflictf("Ainda existem %d paradas pendentes", pending)
	}
	r.Status = RunConcluido
	r.EndedAt = &now
	return nil
}

// CollectionEvent registro de la visita a una parada dentro de una ejecución. Uno por (run, stop).
type CollectionEvent struct {
	ID         string
	RunID      string
	StopID     string
	Status     EventStatus
	ArrivedAt  *time.Time
	DepartedAt *time.Time
	Notes      *string
	SkipReason *string
	Lat        *float64
	Lng        *float64
	Stop       *RouteStop
	Items      []CollectedItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Arrive PENDENTE → EM_ANDAMENTO con arrivedAt y coordenadas opcionales.
func (e *CollectionEvent) Arrive(now time.Time, lat, lng *float64) error {
	switch e.Status {
	case EventPendente:
		e.Status = EventEmAndamento
		e.ArrivedAt = &now
		e.Lat, e.Lng = lat, lng
		return nil
	case EventEmAndamento, EventColetado, EventNaoColetado:
		return domain.Conflict("Esta parada já foi processada")
	default:
		return domain.Conflictf("estado de parada desconhecido: %s", e.Status)
	}
}

// RequireOpen la parada debe estar EM_ANDAMENTO para registrar itens o cerrarse.
func (e *CollectionEvent) RequireOpen() error {
	switch e.Status {
	case EventEmAndamento:
		return nil
	case EventPendente:
		return domain.Conflict("Registre a chegada na parada antes de continuar")
	case EventColetado, EventNaoColetado:
		return domain.Conflict("Esta parada já foi finalizada")
	default:
		return domain.Conflictf("estado de parada desconhecido: %s", e.Status)
	}
}

// Close EM_ANDAMENTO → COLETADO | NAO_COLETADO. NAO_COLETADO exige motivo no vacío.
func (e *CollectionEvent) Close(status EventStatus, skipReason *string, now time.Time) error {
	switch status {
	case EventColetado, EventNaoColetado:
	default:
		return domain.Invalid(fmt.Sprintf("status deve ser um de: %s %s", EventColetado, EventNaoColetado))
	}
	if err := e.RequireOpen(); err != nil {
		return err
	}
	if status == EventNaoColetado && isBlank(skipReason) {
		return domain.Invalid("Motivo é obrigatório quando não coletado")
	}
	e.Status = status
	e.SkipReason = skipReason
	e.DepartedAt = &now
	return nil
}

// CollectedItem material recogido en una parada. El conjunto de ítems de un evento se reemplaza entero.
type CollectedItem struct {
	ID             string
	EventID        string
	MaterialTypeID string
	Quantity       decimal.Decimal
	Unit           string
	IsEstimated    bool
	MaterialType   *MaterialType
	CreatedAt      time.Time
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
