package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) Create(_ context.Context, a *entity.RouteAssignment) error {
	defer r.s.lock()()
	if err := r.s.fail("assignment.create"); err != nil {
		return err
	}
	v := *a
	v.Route, v.Team, v.Vehicle, v.Runs = nil, nil, nil, nil
	r.s.t.assignments[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *assignmentRepo) get(orgID, id string) *entity.RouteAssignment {
	a, ok := r.s.t.assignments[id]
	if !ok || a.OrgID != orgID {
		return nil
	}
	return &a
}

func (r *assignmentRepo) GetByID(_ context.Context, orgID, id string) (*entity.RouteAssignment, error) {
	defer r.s.lock()()
	return r.get(orgID, id), nil
}

func (r *assignmentRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.RouteAssignment, error) {
	return r.GetByID(ctx, orgID, id)
}

func (r *assignmentRepo) List(_ context.Context, orgID string, f repository.AssignmentFilter) ([]*entity.RouteAssignment, error) {
	defer r.s.lock()()
	var out []*entity.RouteAssignment
	for _, a := range r.s.t.assignments {
		if a.OrgID != orgID || !inRange(a.Date, f.From, f.To) {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return r.s.t.seq[out[i].ID] > r.s.t.seq[out[j].ID]
	})
	return out, nil
}

func (r *assignmentRepo) CountRuns(_ context.Context, assignmentID string) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, run := range r.s.t.runs {
		if run.AssignmentID == assignmentID {
			n++
		}
	}
	return n, nil
}

func (r *assignmentRepo) Delete(_ context.Context, orgID, id string) error {
	defer r.s.lock()()
	if r.get(orgID, id) == nil {
		return domain.ErrNotFound
	}
	delete(r.s.t.assignments, id)
	return nil
}

type runRepo struct{ s *Store }

// Create respeta el índice único parcial: una sola ejecución EM_ANDAMENTO por asignación.
func (r *runRepo) Create(_ context.Context, run *entity.CollectionRun) error {
	defer r.s.lock()()
	if err := r.s.fail("run.create"); err != nil {
		return err
	}
	for _, other := range r.s.t.runs {
		if other.AssignmentID == run.AssignmentID && other.Status == entity.RunEmAndamento && run.Status == entity.RunEmAndamento {
			return domain.Conflict("Registro duplicado")
		}
	}
	v := *run
	v.Events, v.Assignment = nil, nil
	r.s.t.runs[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *runRepo) GetByID(_ context.Context, orgID, id string) (*entity.CollectionRun, error) {
	defer r.s.lock()()
	run, ok := r.s.t.runs[id]
	if !ok || run.OrgID != orgID {
		return nil, nil
	}
	return &run, nil
}

func (r *runRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.CollectionRun, error) {
	r.s.locked("runs", id)
	return r.GetByID(ctx, orgID, id)
}

func (r *runRepo) HasActive(_ context.Context, assignmentID string) (bool, error) {
	defer r.s.lock()()
	for _, run := range r.s.t.runs {
		if run.AssignmentID == assignmentID && run.Status == entity.RunEmAndamento {
			return true, nil
		}
	}
	return false, nil
}

func (r *runRepo) List(_ context.Context, orgID string, f repository.RunFilter) ([]*entity.CollectionRun, error) {
	defer r.s.lock()()
	var out []*entity.CollectionRun
	for _, run := range r.s.t.runs {
		if run.OrgID != orgID || !inRange(run.CreatedAt, f.From, f.To) {
			continue
		}
		if f.Status != nil && run.Status != *f.Status {
			continue
		}
		if f.AssignmentID != "" && run.AssignmentID != f.AssignmentID {
			continue
		}
		out = append(out, &run)
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] > r.s.t.seq[out[j].ID] })
	return out, nil
}

func (r *runRepo) Update(_ context.Context, run *entity.CollectionRun) error {
	defer r.s.lock()()
	if err := r.s.fail("run.update"); err != nil {
		return err
	}
	cur, ok := r.s.t.runs[run.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status, cur.EndedAt, cur.Notes, cur.UpdatedAt = run.Status, run.EndedAt, run.Notes, run.UpdatedAt
	r.s.t.runs[run.ID] = cur
	return nil
}

type eventRepo struct{ s *Store }

func (r *eventRepo) CreateBatch(_ context.Context, events []*entity.CollectionEvent) error {
	defer r.s.lock()()
	if err := r.s.fail("event.create"); err != nil {
		return err
	}
	for _, e := range events {
		v := *e
		v.Stop, v.Items = nil, nil
		r.s.t.events[v.ID] = v
		r.s.track(v.ID)
	}
	return nil
}

func (r *eventRepo) find(runID, stopID string) *entity.CollectionEvent {
	for _, e := range r.s.t.events {
		if e.RunID == runID && e.StopID == stopID {
			return &e
		}
	}
	return nil
}

func (r *eventRepo) GetByRunAndStop(_ context.Context, runID, stopID string) (*entity.CollectionEvent, error) {
	defer r.s.lock()()
	e := r.find(runID, stopID)
	if e != nil {
		r.withStop(e)
	}
	return e, nil
}

func (r *eventRepo) GetForUpdate(_ context.Context, runID, stopID string) (*entity.CollectionEvent, error) {
	defer r.s.lock()()
	return r.find(runID, stopID), nil
}

func (r *eventRepo) withStop(e *entity.CollectionEvent) {
	st, ok := r.s.t.stops[e.StopID]
	if !ok {
		return
	}
	if p, ok := r.s.t.points[st.PointID]; ok {
		st.Point = &p
	}
	e.Stop = &st
}

func (r *eventRepo) ListByRun(_ context.Context, runID string) ([]entity.CollectionEvent, error) {
	defer r.s.lock()()
	var out []entity.CollectionEvent
	for _, e := range r.s.t.events {
		if e.RunID != runID {
			continue
		}
		r.withStop(&e)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Stop, out[j].Stop
		if a != nil && b != nil && a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return r.s.t.seq[out[i].ID] < r.s.t.seq[out[j].ID]
	})
	return out, nil
}

func (r *eventRepo) Update(_ context.Context, e *entity.CollectionEvent) error {
	defer r.s.lock()()
	if err := r.s.fail("event.update"); err != nil {
		return err
	}
	if _, ok := r.s.t.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	v := *e
	v.Stop, v.Items = nil, nil
	r.s.t.events[v.ID] = v
	return nil
}

type itemRepo struct{ s *Store }

func (r *itemRepo) ReplaceForEvent(_ context.Context, eventID string, items []*entity.CollectedItem) error {
	defer r.s.lock()()
	for id, it := range r.s.t.items {
		if it.EventID == eventID {
			delete(r.s.t.items, id)
		}
	}
	if err := r.s.fail("item.insert"); err != nil {
		return err
	}
	for _, it := range items {
		v := *it
		v.MaterialType = nil
		r.s.t.items[v.ID] = v
		r.s.track(v.ID)
	}
	return nil
}

func (r *itemRepo) collect(keep func(entity.CollectedItem) bool) []entity.CollectedItem {
	var out []entity.CollectedItem
	for _, it := range r.s.t.items {
		if !keep(it) {
			continue
		}
		if m, ok := r.s.t.materials[it.MaterialTypeID]; ok {
			it.MaterialType = &m
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] < r.s.t.seq[out[j].ID] })
	return out
}

func (r *itemRepo) ListByEvent(_ context.Context, eventID string) ([]entity.CollectedItem, error) {
	defer r.s.lock()()
	return r.collect(func(it entity.CollectedItem) bool { return it.EventID == eventID }), nil
}

func (r *itemRepo) ListByRun(_ context.Context, runID string) ([]entity.CollectedItem, error) {
	defer r.s.lock()()
	return r.collect(func(it entity.CollectedItem) bool {
		ev, ok := r.s.t.events[it.EventID]
		return ok && ev.RunID == runID
	}), nil
}
