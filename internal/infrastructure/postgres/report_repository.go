package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de lectura para el resumen de reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// runsInPeriod filtra r.* por organización y created_at.
func runsInPeriod(b sq.SelectBuilder, orgID string, p repository.ReportPeriod) sq.SelectBuilder {
	b = b.Where(sq.Eq{"r.org_id": orgID})
	if p.From != nil {
		b = b.Where(sq.GtOrEq{"r.created_at": *p.From})
	}
	if p.To != nil {
		b = b.Where(sq.LtOrEq{"r.created_at": *p.To})
	}
	return b
}

// RunFacts ejecuciones del período con su equipe.
func (r *ReportRepo) RunFacts(ctx context.Context, orgID string, p repository.ReportPeriod) ([]repository.RunFact, error) {
	b := psql.Select("r.id", "r.status", "t.id", "t.name").
		From("collection_runs r").
		Join("route_assignments a ON a.id = r.assignment_id").
		Join("teams t ON t.id = a.team_id")
	list, err := getValues(ctx, r.q, runsInPeriod(b, orgID, p), func(row pgx.Row) (*repository.RunFact, error) {
		var f repository.RunFact
		if err := row.Scan(&f.RunID, &f.Status, &f.TeamID, &f.TeamName); err != nil {
			return nil, err
		}
		return &f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("report runs: %w", err)
	}
	return list, nil
}

// EventFacts eventos de las ejecuciones del período.
func (r *ReportRepo) EventFacts(ctx context.Context, orgID string, p repository.ReportPeriod) ([]repository.EventFact, error) {
	b := psql.Select("e.run_id", "e.status", "e.skip_reason").
		From("collection_events e").
		Join("collection_runs r ON r.id = e.run_id")
	list, err := getValues(ctx, r.q, runsInPeriod(b, orgID, p), func(row pgx.Row) (*repository.EventFact, error) {
		var f repository.EventFact
		if err := row.Scan(&f.RunID, &f.Status, &f.SkipReason); err != nil {
			return nil, err
		}
		return &f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("report events: %w", err)
	}
	return list, nil
}

// ItemFacts ítems de eventos COLETADO del período con su material.
func (r *ReportRepo) ItemFacts(ctx context.Context, orgID string, p repository.ReportPeriod) ([]repository.ItemFact, error) {
	b := psql.Select("e.run_id", "m.id", "m.name", "m.category", "i.quantity").
		From("collected_items i").
		Join("collection_events e ON e.id = i.event_id").
		Join("collection_runs r ON r.id = e.run_id").
		Join("material_types m ON m.id = i.material_type_id").
		Where(sq.Eq{"e.status": entity.EventColetado})
	list, err := getValues(ctx, r.q, runsInPeriod(b, orgID, p), func(row pgx.Row) (*repository.ItemFact, error) {
		var f repository.ItemFact
		if err := row.Scan(&f.RunID, &f.MaterialTypeID, &f.MaterialName, &f.Category, &f.Quantity); err != nil {
			return nil, err
		}
		return &f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("report items: %w", err)
	}
	return list, nil
}
