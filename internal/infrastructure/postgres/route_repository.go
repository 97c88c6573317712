package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepo)(nil)

// RouteRepo rotas y route_stops.
type RouteRepo struct {
	*CatalogRepo[entity.Route]
}

var routeCols = []string{"id", "org_id", "name", "description", "is_active", "created_at", "updated_at"}

func scanRoute(row pgx.Row) (*entity.Route, error) {
	var r entity.Route
	if err := row.Scan(&r.ID, &r.OrgID, &r.Name, &r.Description, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// NewRouteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{CatalogRepo: &CatalogRepo[entity.Route]{q: q, t: catalogTable[entity.Route]{
		name:    "routes",
		columns: routeCols,
		orderBy: "name",
		dupMsg:  "Rota já cadastrada",
		scan:    scanRoute,
		values: func(r *entity.Route) []any {
			return []any{r.ID, r.OrgID, r.Name, r.Description, r.IsActive, r.CreatedAt, r.UpdatedAt}
		},
	}}}
}

// GetByID carga la rota con sus paradas ordenadas.
func (r *RouteRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Route, error) {
	route, err := r.CatalogRepo.GetByID(ctx, orgID, id)
	if err != nil || route == nil {
		return route, err
	}
	if route.Stops, err = r.ListStops(ctx, route.ID); err != nil {
		return nil, err
	}
	return route, nil
}

// prefixed califica columnas con el alias de la tabla.
func prefixed(alias string, cols []string) []string {
	return lo.Map(cols, func(c string, _ int) string { return alias + "." + c })
}

var stopCols = []string{"id", "route_id", "point_id", "order_index", "planned_window", "notes", "created_at"}

func stopSelect() sq.SelectBuilder {
	return psql.Select(append(prefixed("s", stopCols), prefixed("p", pointCols)...)...).
		From("route_stops s").
		Join("collection_points p ON p.id = s.point_id")
}

func scanStop(row pgx.Row) (*entity.RouteStop, error) {
	var s entity.RouteStop
	var p entity.CollectionPoint
	err := row.Scan(&s.ID, &s.RouteID, &s.PointID, &s.OrderIndex, &s.PlannedWindow, &s.Notes, &s.CreatedAt,
		&p.ID, &p.OrgID, &p.Name, &p.Address, &p.Lat, &p.Lng, &p.Type, &p.Contact,
		&p.Phone, &p.Notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Point = &p
	return &s, nil
}

// ListStops paradas con su punto, por order_index.
func (r *RouteRepo) ListStops(ctx context.Context, routeID string) ([]entity.RouteStop, error) {
	list, err := getValues(ctx, r.q, stopSelect().Where(sq.Eq{"s.route_id": routeID}).OrderBy("s.order_index"), scanStop)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	return list, nil
}

// GetStop parada de la rota.
func (r *RouteRepo) GetStop(ctx context.Context, routeID, stopID string) (*entity.RouteStop, error) {
	s, err := getOne(ctx, r.q, stopSelect().Where(sq.Eq{"s.route_id": routeID, "s.id": stopID}), scanStop)
	if err != nil {
		return nil, fmt.Errorf("get stop: %w", err)
	}
	return s, nil
}

// GetStopByOrder parada que ocupa la posición.
func (r *RouteRepo) GetStopByOrder(ctx context.Context, routeID string, orderIndex int) (*entity.RouteStop, error) {
	s, err := getOne(ctx, r.q, stopSelect().Where(sq.Eq{"s.route_id": routeID, "s.order_index": orderIndex}), scanStop)
	if err != nil {
		return nil, fmt.Errorf("get stop by order: %w", err)
	}
	return s, nil
}

// AddStop inserta la parada. La posición repetida choca con route_stops_order_key.
func (r *RouteRepo) AddStop(ctx context.Context, s *entity.RouteStop) error {
	_, err := execute(ctx, r.q, psql.Insert("route_stops").Columns(stopCols...).
		Values(s.ID, s.RouteID, s.PointID, s.OrderIndex, s.PlannedWindow, s.Notes, s.CreatedAt))
	return writeErr("insert stop", err, fmt.Sprintf("Já existe uma parada na posição %d", s.OrderIndex))
}

// ReorderStops aplica todo el mapa en un UPDATE ... FROM (VALUES ...); la unicidad se verifica al final de la sentencia.
func (r *RouteRepo) ReorderStops(ctx context.Context, routeID string, order map[string]int) error {
	if len(order) == 0 {
		return nil
	}
	var b strings.Builder
	args := make([]any, 0, len(order)*2+1)
	b.WriteString("UPDATE route_stops s SET order_index = v.idx FROM (VALUES ")
	i := 0
	for id, idx := range order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d::uuid, $%d::int)", len(args)+1, len(args)+2)
		args = append(args, id, idx)
		i++
	}
	args = append(args, routeID)
	fmt.Fprintf(&b, ") AS v(id, idx) WHERE s.id = v.id AND s.route_id = $%d", len(args))

	tag, err := r.q.Exec(ctx, b.String(), args...)
	if err != nil {
		return writeErr("reorder stops", err, "orderIndex repetido na rota")
	}
	if int(tag.RowsAffected()) != len(order) {
		return domain.NotFound("Parada não encontrada nesta rota")
	}
	return nil
}

// RemoveStop borra la parada. Si ya tiene eventos de coleta, la FK lo impide.
func (r *RouteRepo) RemoveStop(ctx context.Context, routeID, stopID string) error {
	_, err := execute(ctx, r.q, psql.Delete("route_stops").Where(sq.Eq{"id": stopID, "route_id": routeID}))
	if err != nil && isForeignKeyViolation(err) {
		return domain.Conflict("Parada possui registros de coleta")
	}
	return writeErr("delete stop", err, "")
}
