package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var (
	_ repository.AssignmentRepository    = (*AssignmentRepo)(nil)
	_ repository.RunRepository           = (*RunRepo)(nil)
	_ repository.EventRepository         = (*EventRepo)(nil)
	_ repository.CollectedItemRepository = (*CollectedItemRepo)(nil)
)

// AssignmentRepo route_assignments.
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

var assignmentCols = []string{"id", "org_id", "route_id", "team_id", "vehicle_id", "date", "shift", "created_at", "updated_at"}

func scanAssignment(row pgx.Row) (*entity.RouteAssignment, error) {
	var a entity.RouteAssignment
	err := row.Scan(&a.ID, &a.OrgID, &a.RouteID, &a.TeamID, &a.VehicleID, &a.Date, &a.Shift, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta la asignación.
func (r *AssignmentRepo) Create(ctx context.Context, a *entity.RouteAssignment) error {
	_, err := execute(ctx, r.q, psql.Insert("route_assignments").Columns(assignmentCols...).
		Values(a.ID, a.OrgID, a.RouteID, a.TeamID, a.VehicleID, a.Date, a.Shift, a.CreatedAt, a.UpdatedAt))
	return writeErr("insert assignment", err, "Agendamento já cadastrado")
}

func (r *AssignmentRepo) selectOne(orgID, id string) sq.SelectBuilder {
	return psql.Select(assignmentCols...).From("route_assignments").Where(sq.Eq{"id": id, "org_id": orgID})
}

// GetByID asignación de la organización.
func (r *AssignmentRepo) GetByID(ctx context.Context, orgID, id string) (*entity.RouteAssignment, error) {
	a, err := getOne(ctx, r.q, r.selectOne(orgID, id), scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// GetForUpdate bloquea la asignación hasta el fin de la transacción.
func (r *AssignmentRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.RouteAssignment, error) {
	a, err := getOne(ctx, r.q, r.selectOne(orgID, id).Suffix("FOR UPDATE"), scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("lock assignment: %w", err)
	}
	return a, nil
}

// List por fecha descendente.
func (r *AssignmentRepo) List(ctx context.Context, orgID string, f repository.AssignmentFilter) ([]*entity.RouteAssignment, error) {
	b := psql.Select(assignmentCols...).From("route_assignments").Where(sq.Eq{"org_id": orgID})
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"date": *f.To})
	}
	list, err := getMany(ctx, r.q, b.OrderBy("date DESC", "created_at DESC"), scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return list, nil
}

// CountRuns ejecuciones que referencian la asignación.
func (r *AssignmentRepo) CountRuns(ctx context.Context, assignmentID string) (int, error) {
	return count(ctx, r.q, psql.Select("count(*)").From("collection_runs").Where(sq.Eq{"assignment_id": assignmentID}))
}

// Delete borra la asignación.
func (r *AssignmentRepo) Delete(ctx context.Context, orgID, id string) error {
	n, err := execute(ctx, r.q, psql.Delete("route_assignments").Where(sq.Eq{"id": id, "org_id": orgID}))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("Não é possível excluir agendamento com execuções")
		}
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RunRepo collection_runs.
type RunRepo struct {
	q Querier
}

// NewRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRunRepository(q Querier) *RunRepo {
	return &RunRepo{q: q}
}

var runCols = []string{"id", "org_id", "assignment_id", "status", "started_at", "ended_at", "notes", "created_at", "updated_at"}

func scanRun(row pgx.Row) (*entity.CollectionRun, error) {
	var run entity.CollectionRun
	err := row.Scan(&run.ID, &run.OrgID, &run.AssignmentID, &run.Status, &run.StartedAt, &run.EndedAt,
		&run.Notes, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Create inserta la ejecución. uq_collection_runs_active impide dos en curso por asignación.
func (r *RunRepo) Create(ctx context.Context, run *entity.CollectionRun) error {
	_, err := execute(ctx, r.q, psql.Insert("collection_runs").Columns(runCols...).Values(
		run.ID, run.OrgID, run.AssignmentID, run.Status, run.StartedAt, run.EndedAt, run.Notes, run.CreatedAt, run.UpdatedAt,
	))
	return writeErr("insert run", err, "Já existe uma execução em andamento para este agendamento")
}

func (r *RunRepo) selectOne(orgID, id string) sq.SelectBuilder {
	return psql.Select(runCols...).From("collection_runs").Where(sq.Eq{"id": id, "org_id": orgID})
}

// GetByID ejecución de la organización.
func (r *RunRepo) GetByID(ctx context.Context, orgID, id string) (*entity.CollectionRun, error) {
	run, err := getOne(ctx, r.q, r.selectOne(orgID, id), scanRun)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// GetForUpdate bloquea la ejecución.
func (r *RunRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.CollectionRun, error) {
	run, err := getOne(ctx, r.q, r.selectOne(orgID, id).Suffix("FOR UPDATE"), scanRun)
	if err != nil {
		return nil, fmt.Errorf("lock run: %w", err)
	}
	return run, nil
}

// HasActive hay una ejecución EM_ANDAMENTO para la asignación.
func (r *RunRepo) HasActive(ctx context.Context, assignmentID string) (bool, error) {
	n, err := count(ctx, r.q, psql.Select("count(*)").From("collection_runs").
		Where(sq.Eq{"assignment_id": assignmentID, "status": entity.RunEmAndamento}))
	return n > 0, err
}

// List más recientes primero.
func (r *RunRepo) List(ctx context.Context, orgID string, f repository.RunFilter) ([]*entity.CollectionRun, error) {
	b := psql.Select(runCols...).From("collection_runs").Where(sq.Eq{"org_id": orgID})
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.AssignmentID != "" {
		b = b.Where(sq.Eq{"assignment_id": f.AssignmentID})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.To})
	}
	list, err := getMany(ctx, r.q, b.OrderBy("created_at DESC"), scanRun)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return list, nil
}

// Update persiste status, ended_at y notes.
func (r *RunRepo) Update(ctx context.Context, run *entity.CollectionRun) error {
	n, err := execute(ctx, r.q, psql.Update("collection_runs").
		Set("status", run.Status).
		Set("ended_at", run.EndedAt).
		Set("notes", run.Notes).
		Set("updated_at", run.UpdatedAt).
		Where(sq.Eq{"id": run.ID}))
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EventRepo collection_events.
type EventRepo struct {
	q Querier
}

// NewEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEventRepository(q Querier) *EventRepo {
	return &EventRepo{q: q}
}

var eventCols = []string{
	"id", "run_id", "stop_id", "status", "arrived_at", "departed_at", "notes", "skip_reason", "lat", "lng",
	"created_at", "updated_at",
}

func scanEvent(row pgx.Row) (*entity.CollectionEvent, error) {
	var e entity.CollectionEvent
	err := row.Scan(&e.ID, &e.RunID, &e.StopID, &e.Status, &e.ArrivedAt, &e.DepartedAt, &e.Notes,
		&e.SkipReason, &e.Lat, &e.Lng, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// eventWithStop evento + parada + punto en una sola fila.
func eventWithStop() sq.SelectBuilder {
	cols := append(prefixed("e", eventCols), prefixed("s", stopCols)...)
	return psql.Select(append(cols, prefixed("p", pointCols)...)...).
		From("collection_events e").
		Join("route_stops s ON s.id = e.stop_id").
		Join("collection_points p ON p.id = s.point_id")
}

func scanEventWithStop(row pgx.Row) (*entity.CollectionEvent, error) {
	var e entity.CollectionEvent
	var s entity.RouteStop
	var p entity.CollectionPoint
	err := row.Scan(&e.ID, &e.RunID, &e.StopID, &e.Status, &e.ArrivedAt, &e.DepartedAt, &e.Notes,
		&e.SkipReason, &e.Lat, &e.Lng, &e.CreatedAt, &e.UpdatedAt,
		&s.ID, &s.RouteID, &s.PointID, &s.OrderIndex, &s.PlannedWindow, &s.Notes, &s.CreatedAt,
		&p.ID, &p.OrgID, &p.Name, &p.Address, &p.Lat, &p.Lng, &p.Type, &p.Contact,
		&p.Phone, &p.Notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Point = &p
	e.Stop = &s
	return &e, nil
}

// CreateBatch inserta todos los eventos en un solo INSERT multi-fila.
func (r *EventRepo) CreateBatch(ctx context.Context, events []*entity.CollectionEvent) error {
	if len(events) == 0 {
		return nil
	}
	b := psql.Insert("collection_events").Columns(eventCols...)
	for _, e := range events {
		b = b.Values(e.ID, e.RunID, e.StopID, e.Status, e.ArrivedAt, e.DepartedAt, e.Notes, e.SkipReason,
			e.Lat, e.Lng, e.CreatedAt, e.UpdatedAt)
	}
	_, err := execute(ctx, r.q, b)
	return writeErr("insert events", err, "Parada repetida na execução")
}

// GetByRunAndStop evento con su parada.
func (r *EventRepo) GetByRunAndStop(ctx context.Context, runID, stopID string) (*entity.CollectionEvent, error) {
	e, err := getOne(ctx, r.q, eventWithStop().Where(sq.Eq{"e.run_id": runID, "e.stop_id": stopID}), scanEventWithStop)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// GetForUpdate bloquea solo la fila del evento.
func (r *EventRepo) GetForUpdate(ctx context.Context, runID, stopID string) (*entity.CollectionEvent, error) {
	b := psql.Select(eventCols...).From("collection_events").
		Where(sq.Eq{"run_id": runID, "stop_id": stopID}).
		Suffix("FOR UPDATE")
	e, err := getOne(ctx, r.q, b, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("lock event: %w", err)
	}
	return e, nil
}

// ListByRun eventos por orden de parada.
func (r *EventRepo) ListByRun(ctx context.Context, runID string) ([]entity.CollectionEvent, error) {
	list, err := getValues(ctx, r.q, eventWithStop().Where(sq.Eq{"e.run_id": runID}).OrderBy("s.order_index", "e.created_at"), scanEventWithStop)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

// Update persiste el estado de la visita.
func (r *EventRepo) Update(ctx context.Context, e *entity.CollectionEvent) error {
	n, err := execute(ctx, r.q, psql.Update("collection_events").SetMap(sq.Eq{
		"status":      e.Status,
		"arrived_at":  e.ArrivedAt,
		"departed_at": e.DepartedAt,
		"notes":       e.Notes,
		"skip_reason": e.SkipReason,
		"lat":         e.Lat,
		"lng":         e.Lng,
		"updated_at":  e.UpdatedAt,
	}).Where(sq.Eq{"id": e.ID}))
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CollectedItemRepo collected_items.
type CollectedItemRepo struct {
	q Querier
}

// NewCollectedItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCollectedItemRepository(q Querier) *CollectedItemRepo {
	return &CollectedItemRepo{q: q}
}

var itemCols = []string{"id", "event_id", "material_type_id", "quantity", "unit", "is_estimated", "created_at"}

func itemSelect() sq.SelectBuilder {
	return psql.Select(append(prefixed("i", itemCols), prefixed("m", materialTypeCols)...)...).
		From("collected_items i").
		Join("material_types m ON m.id = i.material_type_id")
}

func scanItem(row pgx.Row) (*entity.CollectedItem, error) {
	var it entity.CollectedItem
	var m entity.MaterialType
	err := row.Scan(&it.ID, &it.EventID, &it.MaterialTypeID, &it.Quantity, &it.Unit, &it.IsEstimated, &it.CreatedAt,
		&m.ID, &m.OrgID, &m.Name, &m.Category, &m.DefaultUnit, &m.RequiresSorting,
		&m.AllowsContamination, &m.ReferencePrice, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.MaterialType = &m
	return &it, nil
}

// ReplaceForEvent borra e inserta; llamar dentro de la transacción del caso de uso.
func (r *CollectedItemRepo) ReplaceForEvent(ctx context.Context, eventID string, items []*entity.CollectedItem) error {
	if _, err := execute(ctx, r.q, psql.Delete("collected_items").Where(sq.Eq{"event_id": eventID})); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	b := psql.Insert("collected_items").Columns(itemCols...)
	for _, it := range items {
		b = b.Values(it.ID, eventID, it.MaterialTypeID, it.Quantity, it.Unit, it.IsEstimated, it.CreatedAt)
	}
	_, err := execute(ctx, r.q, b)
	return writeErr("insert items", err, "Item repetido")
}

// ListByEvent ítems del evento con su material.
func (r *CollectedItemRepo) ListByEvent(ctx context.Context, eventID string) ([]entity.CollectedItem, error) {
	list, err := getValues(ctx, r.q, itemSelect().Where(sq.Eq{"i.event_id": eventID}).OrderBy("i.created_at", "i.id"), scanItem)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

// ListByRun ítems de todos los eventos de la ejecución.
func (r *CollectedItemRepo) ListByRun(ctx context.Context, runID string) ([]entity.CollectedItem, error) {
	b := itemSelect().
		Join("collection_events e ON e.id = i.event_id").
		Where(sq.Eq{"e.run_id": runID}).
		OrderBy("i.created_at", "i.id")
	list, err := getValues(ctx, r.q, b, scanItem)
	if err != nil {
		return nil, fmt.Errorf("list run items: %w", err)
	}
	return list, nil
}
