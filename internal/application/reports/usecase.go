// Package reports arma el resumen operativo (coleta, materiales, equipes, estoque).
package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

const (
	recentMovements = 10
	noReason        = "Não informado"
)

// SummaryRenderer puerto de salida: representación PDF del resumen.
type SummaryRenderer interface {
	RenderSummary(orgName string, summary *dto.ReportSummaryResponse) ([]byte, error)
}

// UseCase resumen de reportes.
//
// Fuente de datos: ReportRepository + estoque (consultas read-only, sin snapshot común).
type UseCase struct {
	reports       repository.ReportRepository
	lots          repository.StockLotRepository
	movements     repository.StockMovementRepository
	organizations repository.OrganizationRepository
	renderer      SummaryRenderer
}

func NewUseCase(
	reports repository.ReportRepository,
	lots repository.StockLotRepository,
	movements repository.StockMovementRepository,
	organizations repository.OrganizationRepository,
	renderer SummaryRenderer,
) *UseCase {
	return &UseCase{reports: reports, lots: lots, movements: movements, organizations: organizations, renderer: renderer}
}

// Summary construye el resumen del período. Las cinco consultas corren en paralelo.
func (uc *UseCase) Summary(ctx context.Context, orgID string, q dto.DateRangeQuery) (*dto.ReportSummaryResponse, error) {
	from, to, err := q.Bounds()
	if err != nil {
		return nil, err
	}
	period := repository.ReportPeriod{From: from, To: to}

	var (
		runs   []repository.RunFact
		events []repository.EventFact
		items  []repository.ItemFact
		totals repository.StockTotals
		moves  []*entity.StockMovement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if runs, err = uc.reports.RunFacts(gctx, orgID, period); err != nil {
			return fmt.Errorf("reports: ejecuciones: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if events, err = uc.reports.EventFacts(gctx, orgID, period); err != nil {
			return fmt.Errorf("reports: eventos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if items, err = uc.reports.ItemFacts(gctx, orgID, period); err != nil {
			return fmt.Errorf("reports: ítems: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if totals, err = uc.lots.Totals(gctx, orgID); err != nil {
			return fmt.Errorf("reports: estoque: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		f := repository.MovementFilter{From: from, To: to, Limit: recentMovements}
		if moves, err = uc.movements.List(gctx, orgID, f); err != nil {
			return fmt.Errorf("reports: movimentações: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ReportSummaryResponse{
		Period:              dto.PeriodResponse{From: lo.EmptyableToPtr(q.From), To: lo.EmptyableToPtr(q.To)},
		Collection:          collectionStats(runs, events, items),
		CollectedByMaterial: byMaterial(items),
		TeamProductivity:    teamProductivity(runs, events, items),
		Stock:               dto.StockReport{TotalAvailableKg: totals.AvailableKg},
		RecentMovements:     lo.Map(moves, func(m *entity.StockMovement, _ int) dto.MovementResponse { return *dto.MovementFrom(m) }),
		SkipReasons:         skipReasons(events),
	}
	return out, nil
}

// SummaryPDF mismo resumen renderizado como PDF.
func (uc *UseCase) SummaryPDF(ctx context.Context, orgID string, q dto.DateRangeQuery) ([]byte, error) {
	if uc.renderer == nil {
		return nil, domain.Conflict("Geração de PDF não configurada")
	}
	summary, err := uc.Summary(ctx, orgID, q)
	if err != nil {
		return nil, err
	}
	org, err := uc.organizations.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NotFound("Organização não encontrada")
	}
	return uc.renderer.RenderSummary(org.Name, summary)
}

func collectionStats(runs []repository.RunFact, events []repository.EventFact, items []repository.ItemFact) dto.CollectionStats {
	s := dto.CollectionStats{
		TotalRuns:        len(runs),
		CompletedRuns:    lo.CountBy(runs, func(r repository.RunFact) bool { return r.Status == entity.RunConcluido }),
		TotalStops:       len(events),
		CompletedStops:   lo.CountBy(events, func(e repository.EventFact) bool { return e.Status == entity.EventColetado }),
		SkippedStops:     lo.CountBy(events, func(e repository.EventFact) bool { return e.Status == entity.EventNaoColetado }),
		TotalCollectedKg: sumQuantity(items),
	}
	if s.TotalStops > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedStops) / float64(s.TotalStops) * 100))
	}
	return s
}

func byMaterial(items []repository.ItemFact) []dto.MaterialTotal {
	groups := lo.GroupBy(items, func(it repository.ItemFact) string { return it.MaterialTypeID })
	out := make([]dto.MaterialTotal, 0, len(groups))
	for id, list := range groups {
		out = append(out, dto.MaterialTotal{
			MaterialTypeID: id,
			Name:           list[0].MaterialName,
			Category:       list[0].Category,
			TotalKg:        sumQuantity(list),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].TotalKg.Cmp(out[j].TotalKg); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func teamProductivity(runs []repository.RunFact, events []repository.EventFact, items []repository.ItemFact) []dto.TeamProductivity {
	teamOf := make(map[string]string, len(runs))
	stats := make(map[string]*dto.TeamProductivity)
	for _, r := range runs {
		teamOf[r.RunID] = r.TeamID
		t, ok := stats[r.TeamID]
		if !ok {
			t = &dto.TeamProductivity{TeamID: r.TeamID, Name: r.TeamName, TotalKg: decimal.Zero}
			stats[r.TeamID] = t
		}
		t.Runs++
	}
	for _, e := range events {
		if e.Status != entity.EventColetado {
			continue
		}
		if t, ok := stats[teamOf[e.RunID]]; ok {
			t.StopsCompleted++
		}
	}
	for _, it := range items {
		if t, ok := stats[teamOf[it.RunID]]; ok {
			t.TotalKg = t.TotalKg.Add(it.Quantity)
		}
	}
	out := make([]dto.TeamProductivity, 0, len(stats))
	for _, t := range stats {
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].TotalKg.Cmp(out[j].TotalKg); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func skipReasons(events []repository.EventFact) []dto.SkipReasonCount {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Status != entity.EventNaoColetado {
			continue
		}
		reason := strings.TrimSpace(lo.FromPtr(e.SkipReason))
		if reason == "" {
			reason = noReason
		}
		counts[reason]++
	}
	out := make([]dto.SkipReasonCount, 0, len(counts))
	for r, n := range counts {
		out = append(out, dto.SkipReasonCount{Reason: r, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

func sumQuantity(items []repository.ItemFact) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity)
	}
	return total
}
