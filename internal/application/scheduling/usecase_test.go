package scheduling_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/scheduling"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
	"github.com/jhoicas/coleta-api/pkg/logger"
)

func newUseCase(s *memstore.Store) *scheduling.UseCase {
	return scheduling.NewUseCase(s.Assignments(), s.Routes(), s.Teams(), s.Vehicles(), s.Runs(), logger.Nop())
}

func TestCreateAssignment_ReferenciasPorSeparado(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(2)
	uc := newUseCase(s)
	ctx := context.Background()
	base := dto.CreateAssignmentRequest{RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID, Date: "2026-03-02"}

	cases := []struct {
		name   string
		mutate func(*dto.CreateAssignmentRequest)
		msg    string
	}{
		{"rota", func(r *dto.CreateAssignmentRequest) { r.RouteID = "x" }, "Rota não encontrada"},
		{"equipe", func(r *dto.CreateAssignmentRequest) { r.TeamID = "x" }, "Equipe não encontrada"},
		{"veiculo", func(r *dto.CreateAssignmentRequest) { r.VehicleID = "x" }, "Veículo não encontrado"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := uc.CreateAssignment(ctx, fx.Org.ID, req)
			require.ErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, tc.msg, domain.Message(err))
		})
	}

	out, err := uc.CreateAssignment(ctx, fx.Org.ID, dto.CreateAssignmentRequest{
		RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID, Date: "2026-03-02", Shift: lo.ToPtr("manha"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", out.Date)
	assert.Equal(t, "manha", *out.Shift)
	assert.Equal(t, fx.Route.Name, out.Route.Name)
}

func TestCreateAssignment_EntradaInvalida(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(0)
	uc := newUseCase(s)

	_, err := uc.CreateAssignment(context.Background(), fx.Org.ID, dto.CreateAssignmentRequest{
		RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID, Date: "02/03/2026",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateAssignment(context.Background(), fx.Org.ID, dto.CreateAssignmentRequest{
		RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID, Date: "2026-03-02", Shift: lo.ToPtr("madrugada"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteAssignment_ConEjecucionesFalla(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(1)
	uc := newUseCase(s)
	ops := operations.NewUseCase(operations.Deps{
		Tx: memstore.NewTxRunner(s), Runs: s.Runs(), Events: s.Events(), Items: s.CollectedItems(),
		Routes: s.Routes(), Materials: s.MaterialTypes(),
	})
	_, err := ops.StartRun(context.Background(), fx.Org.ID, fx.Admin.ID, dto.StartRunRequest{AssignmentID: fx.Assignment.ID})
	require.NoError(t, err)

	err = uc.DeleteAssignment(context.Background(), fx.Org.ID, fx.Assignment.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	detail, err := uc.GetAssignment(context.Background(), fx.Org.ID, fx.Assignment.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Runs, 1)
}

func TestDeleteAssignment_SinEjecuciones(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(1)
	uc := newUseCase(s)

	require.NoError(t, uc.DeleteAssignment(context.Background(), fx.Org.ID, fx.Assignment.ID))

	_, err := uc.GetAssignment(context.Background(), fx.Org.ID, fx.Assignment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteAssignment(context.Background(), fx.Org.ID, fx.Assignment.ID), domain.ErrNotFound)
}

func TestListAssignments_FiltraPorFecha(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(0)
	uc := newUseCase(s)
	ctx := context.Background()
	for _, d := range []string{"2026-01-10", "2026-01-20", "2026-02-05"} {
		_, err := uc.CreateAssignment(ctx, fx.Org.ID, dto.CreateAssignmentRequest{
			RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID, Date: d,
		})
		require.NoError(t, err)
	}

	list, err := uc.ListAssignments(ctx, fx.Org.ID, dto.DateRangeQuery{From: "2026-01-01", To: "2026-01-31"})

	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-20", "2026-01-10"}, lo.Map(list, func(a dto.AssignmentResponse, _ int) string { return a.Date }))
	assert.NotNil(t, list[0].Team)
}
