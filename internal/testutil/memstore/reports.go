package memstore

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

type reportRepo struct{ s *Store }

func (r *reportRepo) runsIn(orgID string, p repository.ReportPeriod) map[string]entity.CollectionRun {
	out := map[string]entity.CollectionRun{}
	for id, run := range r.s.t.runs {
		if run.OrgID == orgID && inRange(run.CreatedAt, p.From, p.To) {
			out[id] = run
		}
	}
	return out
}

func (r *reportRepo) RunFacts(_ context.Context, orgID string, p repository.ReportPeriod) ([]repository.RunFact, error) {
	defer r.s.lock()()
	var out []repository.RunFact
	for _, run := range r.runsIn(orgID, p) {
		a := r.s.t.assignments[run.AssignmentID]
		out = append(out, repository.RunFact{
			RunID:    run.ID,
			Status:   run.Status,
			TeamID:   a.TeamID,
			TeamName: r.s.t.teams[a.TeamID].Name,
		})
	}
	return out, nil
}

func (r *reportRepo) EventFacts(_ context.Context, orgID string, p repository.ReportPeriod) ([]repository.EventFact, error) {
	defer r.s.lock()()
	runs := r.runsIn(orgID, p)
	var out []repository.EventFact
	for _, e := range r.s.t.events {
		if _, ok := runs[e.RunID]; ok {
			out = append(out, repository.EventFact{RunID: e.RunID, Status: e.Status, SkipReason: e.SkipReason})
		}
	}
	return out, nil
}

func (r *reportRepo) ItemFacts(_ context.Context, orgID string, p repository.ReportPeriod) ([]repository.ItemFact, error) {
	defer r.s.lock()()
	runs := r.runsIn(orgID, p)
	var out []repository.ItemFact
	for _, it := range r.s.t.items {
		ev, ok := r.s.t.events[it.EventID]
		if !ok || ev.Status != entity.EventColetado {
			continue
		}
		if _, ok := runs[ev.RunID]; !ok {
			continue
		}
		m := r.s.t.materials[it.MaterialTypeID]
		out = append(out, repository.ItemFact{
			RunID:          ev.RunID,
			MaterialTypeID: it.MaterialTypeID,
			MaterialName:   m.Name,
			Category:       m.Category,
			Quantity:       it.Quantity,
		})
	}
	return out, nil
}
