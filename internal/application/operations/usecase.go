// Package operations ejecuta las coletas: inicio de la ejecución, llegada, registro de ítems,
// cierre de cada parada y finalización.
package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/ports"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	domainstock "github.com/jhoicas/coleta-api/internal/domain/stock"
	"github.com/jhoicas/coleta-api/pkg/logger"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

const defaultUnit = "kg"

// Deps dependencias del caso de uso.
type Deps struct {
	Tx        TxRunner
	Runs      repository.RunRepository
	Events    repository.EventRepository
	Items     repository.CollectedItemRepository
	Routes    repository.RouteRepository
	Materials repository.MaterialTypeRepository
	Publisher ports.EventPublisher
	Metrics   ports.WorkflowMetrics
	Log       *logger.Logger
}

// UseCase máquina de estados de la ejecución de coleta. Cada operación es una transacción.
type UseCase struct {
	tx        TxRunner
	runs      repository.RunRepository
	events    repository.EventRepository
	items     repository.CollectedItemRepository
	routes    repository.RouteRepository
	materials repository.MaterialTypeRepository
	publisher ports.EventPublisher
	metrics   ports.WorkflowMetrics
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. Publisher y Metrics nil usan las variantes noop.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:        d.Tx,
		runs:      d.Runs,
		events:    d.Events,
		items:     d.Items,
		routes:    d.Routes,
		materials: d.Materials,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		log:       d.Log,
	}
	if uc.publisher == nil {
		uc.publisher = ports.NoopPublisher{}
	}
	if uc.metrics == nil {
		uc.metrics = ports.NoopMetrics{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	uc.log = uc.log.Named("operations")
	return uc
}

// StartRun crea la ejecución EM_ANDAMENTO y un evento PENDENTE por parada de la rota.
// La fila de la asignación queda bloqueada durante la transacción, así dos inicios simultáneos
// se serializan y el segundo ve la ejecución activa.
func (uc *UseCase) StartRun(ctx context.Context, orgID, actorID string, in dto.StartRunRequest) (out *dto.RunResponse, err error) {
	defer func() { uc.metrics.Operation("start_run", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var run *entity.CollectionRun
	err = uc.tx.RunOperations(ctx, func(
		assignments repository.AssignmentRepository,
		runs repository.RunRepository,
		events repository.EventRepository,
		_ repository.CollectedItemRepository,
	) error {
		a, err := assignments.GetForUpdate(ctx, orgID, in.AssignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NotFound("Agendamento não encontrado")
		}
		active, err := runs.HasActive(ctx, a.ID)
		if err != nil {
			return err
		}
		if active {
			return domain.Conflict("Já existe uma execução em andamento para este agendamento")
		}
		stops, err := uc.routes.ListStops(ctx, a.RouteID)
		if err != nil {
			return err
		}

		now := time.Now()
		run = &entity.CollectionRun{
			ID:           uuid.New().String(),
			OrgID:        orgID,
			AssignmentID: a.ID,
			Status:       entity.RunEmAndamento,
			StartedAt:    &now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := runs.Create(ctx, run); err != nil {
			return err
		}
		evs := lo.Map(stops, func(s entity.RouteStop, _ int) *entity.CollectionEvent {
			return &entity.CollectionEvent{
				ID:        uuid.New().String(),
				RunID:     run.ID,
				StopID:    s.ID,
				Status:    entity.EventPendente,
				CreatedAt: now,
				UpdatedAt: now,
			}
		})
		return events.CreateBatch(ctx, evs)
	})
	if err != nil {
		return nil, err
	}

	if run.Events, err = uc.events.ListByRun(ctx, run.ID); err != nil {
		return nil, err
	}
	uc.log.Info().Str("org_id", orgID).Str("run_id", run.ID).Int("stops", len(run.Events)).Msg("execução iniciada")
	uc.publish(ctx, ports.Event{
		Type:     ports.EventRunStarted,
		OrgID:    orgID,
		EntityID: run.ID,
		ActorID:  actorID,
		Payload:  map[string]any{"assignmentId": run.AssignmentID, "stops": len(run.Events)},
	})
	return dto.RunFrom(run), nil
}

// Arrive registra la llegada a la parada: PENDENTE → EM_ANDAMENTO.
func (uc *UseCase) Arrive(ctx context.Context, orgID, runID, stopID string, in dto.ArriveRequest) (out *dto.EventResponse, err error) {
	defer func() { uc.metrics.Operation("arrive", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var eventID string
	err = uc.withOpenRun(ctx, orgID, runID, stopID, func(ev *entity.CollectionEvent, events repository.EventRepository, _ repository.CollectedItemRepository) error {
		if err := ev.Arrive(time.Now(), in.Lat, in.Lng); err != nil {
			return err
		}
		eventID = ev.ID
		return events.Update(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return uc.loadEvent(ctx, runID, stopID, eventID)
}

// RegisterCollectedItems reemplaza el conjunto completo de ítems del evento (borra y vuelve a insertar).
func (uc *UseCase) RegisterCollectedItems(ctx context.Context, orgID, runID, stopID string, in dto.RegisterItemsRequest) (out *dto.EventResponse, err error) {
	defer func() { uc.metrics.Operation("register_items", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	for _, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid("Quantidade deve ser positiva")
		}
		if err := domainstock.CheckScale(it.Quantity); err != nil {
			return nil, err
		}
	}
	for _, id := range lo.Uniq(lo.Map(in.Items, func(it dto.CollectedItemInput, _ int) string { return it.MaterialTypeID })) {
		mt, err := uc.materials.GetByID(ctx, orgID, id)
		if err != nil {
			return nil, err
		}
		if mt == nil {
			return nil, domain.NotFound("Tipo de material não encontrado")
		}
	}

	var eventID string
	err = uc.withOpenRun(ctx, orgID, runID, stopID, func(ev *entity.CollectionEvent, events repository.EventRepository, items repository.CollectedItemRepository) error {
		if err := ev.RequireOpen(); err != nil {
			return err
		}
		eventID = ev.ID
		now := time.Now()
		list := make([]*entity.CollectedItem, 0, len(in.Items))
		for _, it := range in.Items {
			unit := it.Unit
			if unit == "" {
				unit = defaultUnit
			}
			list = append(list, &entity.CollectedItem{
				ID:             uuid.New().String(),
				EventID:        ev.ID,
				MaterialTypeID: it.MaterialTypeID,
				Quantity:       it.Quantity,
				Unit:           unit,
				IsEstimated:    lo.FromPtrOr(it.IsEstimated, true),
				CreatedAt:      now,
			})
		}
		if err := items.ReplaceForEvent(ctx, ev.ID, list); err != nil {
			return err
		}
		if in.Notes != nil {
			ev.Notes = in.Notes
			return events.Update(ctx, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.loadEvent(ctx, runID, stopID, eventID)
}

// CloseStop cierra la parada como COLETADO o NAO_COLETADO (este último exige motivo).
func (uc *UseCase) CloseStop(ctx context.Context, orgID, runID, stopID string, in dto.CloseStopRequest) (out *dto.EventResponse, err error) {
	defer func() { uc.metrics.Operation("close_stop", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var eventID string
	err = uc.withOpenRun(ctx, orgID, runID, stopID, func(ev *entity.CollectionEvent, events repository.EventRepository, _ repository.CollectedItemRepository) error {
		if err := ev.Close(entity.EventStatus(in.Status), in.SkipReason, time.Now()); err != nil {
			return err
		}
		eventID = ev.ID
		return events.Update(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return uc.loadEvent(ctx, runID, stopID, eventID)
}

// FinishRun concluye la ejecución si no quedan paradas PENDENTE.
func (uc *UseCase) FinishRun(ctx context.Context, orgID, actorID, runID string) (out *dto.RunResponse, err error) {
	defer func() { uc.metrics.Operation("finish_run", err) }()
	var run *entity.CollectionRun
	err = uc.tx.RunOperations(ctx, func(
		_ repository.AssignmentRepository,
		runs repository.RunRepository,
		events repository.EventRepository,
		_ repository.CollectedItemRepository,
	) error {
		r, err := runs.GetForUpdate(ctx, orgID, runID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.NotFound("Execução não encontrada")
		}
		evs, err := events.ListByRun(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := r.Finish(evs, time.Now()); err != nil {
			return err
		}
		run = r
		return runs.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.attachEvents(ctx, run); err != nil {
		return nil, err
	}
	counts := lo.CountValuesBy(run.Events, func(e entity.CollectionEvent) entity.EventStatus { return e.Status })
	uc.log.Info().Str("org_id", orgID).Str("run_id", run.ID).
		Int("coletado", counts[entity.EventColetado]).
		Int("nao_coletado", counts[entity.EventNaoColetado]).
		Msg("execução concluída")
	uc.publish(ctx, ports.Event{
		Type:     ports.EventRunFinished,
		OrgID:    orgID,
		EntityID: run.ID,
		ActorID:  actorID,
		Payload: map[string]any{
			"coletado":    counts[entity.EventColetado],
			"naoColetado": counts[entity.EventNaoColetado],
		},
	})
	return dto.RunFrom(run), nil
}

// ListRuns lista ejecuciones (sin eventos) por estado y rango de creación.
func (uc *UseCase) ListRuns(ctx context.Context, orgID string, q dto.RunListQuery) ([]dto.RunResponse, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	from, to, err := q.Bounds()
	if err != nil {
		return nil, err
	}
	f := repository.RunFilter{From: from, To: to}
	if q.Status != "" {
		s := entity.RunStatus(q.Status)
		f.Status = &s
	}
	list, err := uc.runs.List(ctx, orgID, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(r *entity.CollectionRun, _ int) dto.RunResponse { return *dto.RunFrom(r) }), nil
}

// GetRun detalle con eventos, paradas e ítems.
func (uc *UseCase) GetRun(ctx context.Context, orgID, id string) (*dto.RunResponse, error) {
	run, err := uc.runs.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.NotFound("Execução não encontrada")
	}
	if err := uc.attachEvents(ctx, run); err != nil {
		return nil, err
	}
	return dto.RunFrom(run), nil
}

// UpdateRunNotes actualiza las observaciones de la ejecución (cualquier estado).
func (uc *UseCase) UpdateRunNotes(ctx context.Context, orgID, id string, in dto.UpdateRunRequest) (*dto.RunResponse, error) {
	run, err := uc.runs.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.NotFound("Execução não encontrada")
	}
	run.Notes = in.Notes
	run.UpdatedAt = time.Now()
	if err := uc.runs.Update(ctx, run); err != nil {
		return nil, err
	}
	if err := uc.attachEvents(ctx, run); err != nil {
		return nil, err
	}
	return dto.RunFrom(run), nil
}

// withOpenRun comprueba, dentro de una transacción, que la ejecución existe y está EM_ANDAMENTO,
// bloquea la ejecución y el evento de la parada y llama a fn.
func (uc *UseCase) withOpenRun(
	ctx context.Context,
	orgID, runID, stopID string,
	fn func(ev *entity.CollectionEvent, events repository.EventRepository, items repository.CollectedItemRepository) error,
) error {
	return uc.tx.RunOperations(ctx, func(
		_ repository.AssignmentRepository,
		runs repository.RunRepository,
		events repository.EventRepository,
		items repository.CollectedItemRepository,
	) error {
		// Bloqueo de la ejecución: serializa con FinishRun.
		run, err := runs.GetForUpdate(ctx, orgID, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return domain.NotFound("Execução não encontrada")
		}
		if err := run.RequireActive(); err != nil {
			return err
		}
		ev, err := events.GetForUpdate(ctx, run.ID, stopID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domain.NotFound("Parada não encontrada nesta execução")
		}
		ev.UpdatedAt = time.Now()
		return fn(ev, events, items)
	})
}

func (uc *UseCase) loadEvent(ctx context.Context, runID, stopID, eventID string) (*dto.EventResponse, error) {
	ev, err := uc.events.GetByRunAndStop(ctx, runID, stopID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("operations: evento %s desapareceu após commit", eventID)
	}
	if ev.Items, err = uc.items.ListByEvent(ctx, ev.ID); err != nil {
		return nil, err
	}
	return dto.EventFrom(ev), nil
}

func (uc *UseCase) attachEvents(ctx context.Context, run *entity.CollectionRun) error {
	evs, err := uc.events.ListByRun(ctx, run.ID)
	if err != nil {
		return err
	}
	items, err := uc.items.ListByRun(ctx, run.ID)
	if err != nil {
		return err
	}
	byEvent := lo.GroupBy(items, func(it entity.CollectedItem) string { return it.EventID })
	for i := range evs {
		evs[i].Items = byEvent[evs[i].ID]
	}
	run.Events = evs
	return nil
}

func (uc *UseCase) publish(ctx context.Context, ev ports.Event) {
	ev.OccurredAt = time.Now()
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Error().Err(err).Str("event", ev.Type).Str("entity_id", ev.EntityID).Msg("falha ao publicar evento")
	}
}
