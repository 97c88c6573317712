package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// catalog implementación genérica de repository.CatalogRepository sobre un mapa del store.
type catalog[T any] struct {
	s     *Store
	table func(*tables) map[string]T
	meta  func(*T) (id, org, name string, active bool)
	off   func(*T)
	strip func(T) T // quita relaciones cargadas antes de guardar
}

func (c *catalog[T]) put(e *T) T {
	v := *e
	if c.strip != nil {
		v = c.strip(v)
	}
	return v
}

func (c *catalog[T]) Create(_ context.Context, e *T) error {
	defer c.s.lock()()
	if err := c.s.fail("create"); err != nil {
		return err
	}
	id, _, _, _ := c.meta(e)
	c.table(&c.s.t)[id] = c.put(e)
	c.s.track(id)
	return nil
}

func (c *catalog[T]) GetByID(_ context.Context, orgID, id string) (*T, error) {
	defer c.s.lock()()
	return c.get(orgID, id), nil
}

func (c *catalog[T]) get(orgID, id string) *T {
	v, ok := c.table(&c.s.t)[id]
	if !ok {
		return nil
	}
	if _, org, _, _ := c.meta(&v); org != orgID {
		return nil
	}
	return &v
}

func (c *catalog[T]) List(_ context.Context, orgID string) ([]*T, error) {
	defer c.s.lock()()
	var out []*T
	for _, v := range c.table(&c.s.t) {
		if _, org, _, active := c.meta(&v); org == orgID && active {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		_, _, a, _ := c.meta(out[i])
		_, _, b, _ := c.meta(out[j])
		return a < b
	})
	return out, nil
}

func (c *catalog[T]) Update(_ context.Context, e *T) error {
	defer c.s.lock()()
	if err := c.s.fail("update"); err != nil {
		return err
	}
	id, org, _, _ := c.meta(e)
	if c.get(org, id) == nil {
		return domain.ErrNotFound
	}
	c.table(&c.s.t)[id] = c.put(e)
	return nil
}

func (c *catalog[T]) Deactivate(_ context.Context, orgID, id string) error {
	defer c.s.lock()()
	v := c.get(orgID, id)
	if v == nil {
		return domain.ErrNotFound
	}
	c.off(v)
	c.table(&c.s.t)[id] = *v
	return nil
}

func materialRepo(s *Store) *catalog[entity.MaterialType] {
	return &catalog[entity.MaterialType]{
		s:     s,
		table: func(t *tables) map[string]entity.MaterialType { return t.materials },
		meta:  func(m *entity.MaterialType) (string, string, string, bool) { return m.ID, m.OrgID, m.Name, m.IsActive },
		off:   func(m *entity.MaterialType) { m.IsActive = false },
	}
}

func pointRepo(s *Store) *catalog[entity.CollectionPoint] {
	return &catalog[entity.CollectionPoint]{
		s:     s,
		table: func(t *tables) map[string]entity.CollectionPoint { return t.points },
		meta:  func(p *entity.CollectionPoint) (string, string, string, bool) { return p.ID, p.OrgID, p.Name, p.IsActive },
		off:   func(p *entity.CollectionPoint) { p.IsActive = false },
	}
}

func vehicleRepo(s *Store) *catalog[entity.Vehicle] {
	return &catalog[entity.Vehicle]{
		s:     s,
		table: func(t *tables) map[string]entity.Vehicle { return t.vehicles },
		meta:  func(v *entity.Vehicle) (string, string, string, bool) { return v.ID, v.OrgID, v.Plate, v.IsActive },
		off:   func(v *entity.Vehicle) { v.IsActive = false },
	}
}

func destinationRepo(s *Store) *catalog[entity.Destination] {
	return &catalog[entity.Destination]{
		s:     s,
		table: func(t *tables) map[string]entity.Destination { return t.destinations },
		meta:  func(d *entity.Destination) (string, string, string, bool) { return d.ID, d.OrgID, d.Name, d.IsActive },
		off:   func(d *entity.Destination) { d.IsActive = false },
	}
}

func employeeRepo(s *Store) *catalog[entity.Employee] {
	return &catalog[entity.Employee]{
		s:     s,
		table: func(t *tables) map[string]entity.Employee { return t.employees },
		meta:  func(e *entity.Employee) (string, string, string, bool) { return e.ID, e.OrgID, e.Name, e.IsActive },
		off:   func(e *entity.Employee) { e.IsActive = false },
	}
}

func routeCatalog(s *Store) *catalog[entity.Route] {
	return &catalog[entity.Route]{
		s:     s,
		table: func(t *tables) map[string]entity.Route { return t.routes },
		meta:  func(r *entity.Route) (string, string, string, bool) { return r.ID, r.OrgID, r.Name, r.IsActive },
		off:   func(r *entity.Route) { r.IsActive = false },
		strip: func(r entity.Route) entity.Route { r.Stops = nil; return r },
	}
}

func teamCatalog(s *Store) *catalog[entity.Team] {
	return &catalog[entity.Team]{
		s:     s,
		table: func(t *tables) map[string]entity.Team { return t.teams },
		meta:  func(t *entity.Team) (string, string, string, bool) { return t.ID, t.OrgID, t.Name, t.IsActive },
		off:   func(t *entity.Team) { t.IsActive = false },
		strip: func(t entity.Team) entity.Team { t.Members = nil; return t },
	}
}

type routeRepo struct {
	*catalog[entity.Route]
	s *Store
}

// GetByID carga las paradas (con su punto) ordenadas.
func (r *routeRepo) GetByID(_ context.Context, orgID, id string) (*entity.Route, error) {
	defer r.s.lock()()
	route := r.get(orgID, id)
	if route == nil {
		return nil, nil
	}
	route.Stops = r.stopsOf(route.ID)
	return route, nil
}

func (r *routeRepo) stopsOf(routeID string) []entity.RouteStop {
	var out []entity.RouteStop
	for _, st := range r.s.t.stops {
		if st.RouteID != routeID {
			continue
		}
		if p, ok := r.s.t.points[st.PointID]; ok {
			st.Point = &p
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (r *routeRepo) ListStops(_ context.Context, routeID string) ([]entity.RouteStop, error) {
	defer r.s.lock()()
	return r.stopsOf(routeID), nil
}

func (r *routeRepo) GetStop(_ context.Context, routeID, stopID string) (*entity.RouteStop, error) {
	defer r.s.lock()()
	st, ok := r.s.t.stops[stopID]
	if !ok || st.RouteID != routeID {
		return nil, nil
	}
	return &st, nil
}

func (r *routeRepo) GetStopByOrder(_ context.Context, routeID string, orderIndex int) (*entity.RouteStop, error) {
	defer r.s.lock()()
	for _, st := range r.s.t.stops {
		if st.RouteID == routeID && st.OrderIndex == orderIndex {
			return &st, nil
		}
	}
	return nil, nil
}

func (r *routeRepo) AddStop(_ context.Context, stop *entity.RouteStop) error {
	defer r.s.lock()()
	for _, st := range r.s.t.stops {
		if st.RouteID == stop.RouteID && st.OrderIndex == stop.OrderIndex {
			return domain.Conflict("Registro duplicado")
		}
	}
	v := *stop
	v.Point = nil
	r.s.t.stops[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *routeRepo) ReorderStops(_ context.Context, routeID string, order map[string]int) error {
	defer r.s.lock()()
	for id, idx := range order {
		st, ok := r.s.t.stops[id]
		if !ok || st.RouteID != routeID {
			return domain.ErrNotFound
		}
		st.OrderIndex = idx
		r.s.t.stops[id] = st
	}
	return nil
}

func (r *routeRepo) RemoveStop(_ context.Context, routeID, stopID string) error {
	defer r.s.lock()()
	if st, ok := r.s.t.stops[stopID]; ok && st.RouteID == routeID {
		delete(r.s.t.stops, stopID)
	}
	return nil
}

type teamRepo struct {
	*catalog[entity.Team]
	s *Store
}

// GetByID carga los miembros con su funcionário.
func (r *teamRepo) GetByID(_ context.Context, orgID, id string) (*entity.Team, error) {
	defer r.s.lock()()
	team := r.get(orgID, id)
	if team == nil {
		return nil, nil
	}
	for _, m := range r.s.t.members {
		if m.TeamID != team.ID {
			continue
		}
		if e, ok := r.s.t.employees[m.EmployeeID]; ok {
			m.Employee = &e
		}
		team.Members = append(team.Members, m)
	}
	sort.Slice(team.Members, func(i, j int) bool {
		return r.s.t.seq[team.Members[i].ID] < r.s.t.seq[team.Members[j].ID]
	})
	return team, nil
}

func (r *teamRepo) GetMember(_ context.Context, teamID, memberID string) (*entity.TeamMember, error) {
	defer r.s.lock()()
	m, ok := r.s.t.members[memberID]
	if !ok || m.TeamID != teamID {
		return nil, nil
	}
	return &m, nil
}

func (r *teamRepo) GetMemberByEmployee(_ context.Context, teamID, employeeID string) (*entity.TeamMember, error) {
	defer r.s.lock()()
	for _, m := range r.s.t.members {
		if m.TeamID == teamID && m.EmployeeID == employeeID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *teamRepo) AddMember(_ context.Context, m *entity.TeamMember) error {
	defer r.s.lock()()
	v := *m
	v.Employee = nil
	r.s.t.members[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *teamRepo) RemoveMember(_ context.Context, teamID, memberID string) error {
	defer r.s.lock()()
	if m, ok := r.s.t.members[memberID]; ok && m.TeamID == teamID {
		delete(r.s.t.members, memberID)
	}
	return nil
}
