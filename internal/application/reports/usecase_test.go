package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/reports"
	"github.com/jhoicas/coleta-api/internal/application/scheduling"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
	"github.com/jhoicas/coleta-api/pkg/logger"
)

type capturingRenderer struct {
	org     string
	summary *dto.ReportSummaryResponse
}

func (r *capturingRenderer) RenderSummary(orgName string, s *dto.ReportSummaryResponse) ([]byte, error) {
	r.org, r.summary = orgName, s
	return []byte("%PDF-1.4"), nil
}

// Rota de 2 paradas: la primera coleta 10kg de PET, la segunda no se coleta por acceso negado.
func TestSummary_EscenarioCompleto(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	fx := s.Seed(2)
	org, user := fx.Org.ID, fx.Admin.ID
	sched := scheduling.NewUseCase(s.Assignments(), s.Routes(), s.Teams(), s.Vehicles(), s.Runs(), logger.Nop())
	ops := operations.NewUseCase(operations.Deps{
		Tx: memstore.NewTxRunner(s), Runs: s.Runs(), Events: s.Events(), Items: s.CollectedItems(),
		Routes: s.Routes(), Materials: s.MaterialTypes(),
	})
	renderer := &capturingRenderer{}
	uc := reports.NewUseCase(s.Reports(), s.StockLots(), s.StockMovements(), s.Organizations(), renderer)

	today := time.Now().UTC().Format(dto.DateLayout)
	a, err := sched.CreateAssignment(ctx, org, dto.CreateAssignmentRequest{
		RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID, Date: today,
	})
	require.NoError(t, err)

	run, err := ops.StartRun(ctx, org, user, dto.StartRunRequest{AssignmentID: a.ID})
	require.NoError(t, err)
	require.Len(t, run.Events, 2)
	for _, ev := range run.Events {
		require.Equal(t, "PENDENTE", ev.Status)
	}
	stop1, stop2 := run.Events[0].StopID, run.Events[1].StopID

	_, err = ops.Arrive(ctx, org, run.ID, stop1, dto.ArriveRequest{})
	require.NoError(t, err)
	_, err = ops.RegisterCollectedItems(ctx, org, run.ID, stop1, dto.RegisterItemsRequest{Items: []dto.CollectedItemInput{
		{MaterialTypeID: fx.Materials[0].ID, Quantity: decimal.NewFromInt(10)},
	}})
	require.NoError(t, err)
	_, err = ops.CloseStop(ctx, org, run.ID, stop1, dto.CloseStopRequest{Status: "COLETADO"})
	require.NoError(t, err)

	_, err = ops.Arrive(ctx, org, run.ID, stop2, dto.ArriveRequest{})
	require.NoError(t, err)
	_, err = ops.CloseStop(ctx, org, run.ID, stop2, dto.CloseStopRequest{Status: "NAO_COLETADO", SkipReason: lo.ToPtr("access denied")})
	require.NoError(t, err)

	_, err = ops.FinishRun(ctx, org, user, run.ID)
	require.NoError(t, err)

	sum, err := uc.Summary(ctx, org, dto.DateRangeQuery{From: today, To: today})
	require.NoError(t, err)

	c := sum.Collection
	assert.Equal(t, 1, c.TotalRuns)
	assert.Equal(t, 1, c.CompletedRuns)
	assert.Equal(t, 2, c.TotalStops)
	assert.Equal(t, 1, c.CompletedStops)
	assert.Equal(t, 1, c.SkippedStops)
	assert.Equal(t, 50, c.CompletionRate)
	assert.True(t, decimal.NewFromInt(10).Equal(c.TotalCollectedKg))

	require.Len(t, sum.CollectedByMaterial, 1)
	assert.Equal(t, "PET", sum.CollectedByMaterial[0].Name)
	require.Len(t, sum.TeamProductivity, 1)
	assert.Equal(t, fx.Team.Name, sum.TeamProductivity[0].Name)
	assert.Equal(t, 1, sum.TeamProductivity[0].StopsCompleted)
	assert.Equal(t, []dto.SkipReasonCount{{Reason: "access denied", Count: 1}}, sum.SkipReasons)
	assert.Equal(t, today, *sum.Period.From)

	pdf, err := uc.SummaryPDF(ctx, org, dto.DateRangeQuery{From: today, To: today})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, fx.Org.Name, renderer.org)
}

func TestSummary_PeriodoSinEjecuciones(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(1)
	uc := reports.NewUseCase(s.Reports(), s.StockLots(), s.StockMovements(), s.Organizations(), nil)

	sum, err := uc.Summary(context.Background(), fx.Org.ID, dto.DateRangeQuery{From: "2001-01-01", To: "2001-01-31"})

	require.NoError(t, err)
	assert.Zero(t, sum.Collection.TotalRuns)
	assert.Zero(t, sum.Collection.CompletionRate)
	assert.Empty(t, sum.CollectedByMaterial)
	assert.Empty(t, sum.SkipReasons)
	assert.Nil(t, sum.Period.To)
}

func TestSummary_FechaInvalida(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(0)
	uc := reports.NewUseCase(s.Reports(), s.StockLots(), s.StockMovements(), s.Organizations(), nil)

	_, err := uc.Summary(context.Background(), fx.Org.ID, dto.DateRangeQuery{From: "17/10/2026"})

	assert.Error(t, err)
}
