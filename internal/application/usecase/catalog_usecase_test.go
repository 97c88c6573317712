package usecase_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
)

func TestMaterialType_CrudYDesactivacion(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(0)
	uc := usecase.NewMaterialTypeUseCase(s.MaterialTypes())
	ctx := context.Background()

	_, err := uc.Create(ctx, fx.Org.ID, dto.MaterialTypeRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m, err := uc.Create(ctx, fx.Org.ID, dto.MaterialTypeRequest{Name: "Vidro"})
	require.NoError(t, err)
	assert.Equal(t, "kg", m.DefaultUnit)
	assert.True(t, m.RequiresSorting)

	upd, err := uc.Update(ctx, fx.Org.ID, m.ID, dto.MaterialTypeRequest{Name: "Vidro verde", AllowsContamination: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Vidro verde", upd.Name)
	assert.True(t, upd.AllowsContamination)

	require.NoError(t, uc.Delete(ctx, fx.Org.ID, m.ID))
	list, err := uc.List(ctx, fx.Org.ID)
	require.NoError(t, err)
	assert.NotContains(t, lo.Map(list, func(x dto.MaterialTypeResponse, _ int) string { return x.ID }), m.ID)

	other := s.Seed(0)
	_, err = uc.GetByID(ctx, other.Org.ID, fx.Materials[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "aislamiento entre organizaciones")
}

func TestRoute_ParadasOrdenadas(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(2)
	uc := usecase.NewRouteUseCase(s.Routes(), s.CollectionPoints())
	ctx := context.Background()

	_, err := uc.AddStop(ctx, fx.Org.ID, fx.Route.ID, dto.AddRouteStopRequest{PointID: fx.Points[0].ID, OrderIndex: lo.ToPtr(1)})
	assert.ErrorIs(t, err, domain.ErrConflict, "posición ocupada")

	_, err = uc.AddStop(ctx, fx.Org.ID, fx.Route.ID, dto.AddRouteStopRequest{PointID: "x", OrderIndex: lo.ToPtr(5)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	added, err := uc.AddStop(ctx, fx.Org.ID, fx.Route.ID, dto.AddRouteStopRequest{PointID: fx.Points[0].ID, OrderIndex: lo.ToPtr(2)})
	require.NoError(t, err)

	stops, err := uc.ReorderStops(ctx, fx.Org.ID, fx.Route.ID, dto.ReorderStopsRequest{Stops: []dto.StopOrder{
		{ID: added.ID, OrderIndex: 0},
		{ID: fx.Stops[0].ID, OrderIndex: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{added.ID, fx.Stops[1].ID, fx.Stops[0].ID}, lo.Map(stops, func(s dto.RouteStopResponse, _ int) string { return s.ID }))

	_, err = uc.ReorderStops(ctx, fx.Org.ID, fx.Route.ID, dto.ReorderStopsRequest{Stops: []dto.StopOrder{{ID: added.ID, OrderIndex: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "índice repetido")

	require.NoError(t, uc.RemoveStop(ctx, fx.Org.ID, fx.Route.ID, added.ID))
	assert.ErrorIs(t, uc.RemoveStop(ctx, fx.Org.ID, fx.Route.ID, added.ID), domain.ErrNotFound)
}

func TestTeam_Miembros(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(0)
	emps := usecase.NewEmployeeUseCase(s.Employees())
	uc := usecase.NewTeamUseCase(s.Teams(), s.Employees())
	ctx := context.Background()

	emp, err := emps.Create(ctx, fx.Org.ID, dto.EmployeeRequest{Name: "Joana"})
	require.NoError(t, err)

	m, err := uc.AddMember(ctx, fx.Org.ID, fx.Team.ID, dto.AddTeamMemberRequest{EmployeeID: emp.ID, Role: lo.ToPtr("motorista")})
	require.NoError(t, err)
	_, err = uc.AddMember(ctx, fx.Org.ID, fx.Team.ID, dto.AddTeamMemberRequest{EmployeeID: emp.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	team, err := uc.GetByID(ctx, fx.Org.ID, fx.Team.ID)
	require.NoError(t, err)
	require.Len(t, team.Members, 1)
	assert.Equal(t, "Joana", team.Members[0].Employee.Name)

	otherTeam, err := uc.Create(ctx, fx.Org.ID, dto.TeamRequest{Name: "Noturna"})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.RemoveMember(ctx, fx.Org.ID, otherTeam.ID, m.ID), domain.ErrNotFound, "miembro de otra equipe")
	require.NoError(t, uc.RemoveMember(ctx, fx.Org.ID, fx.Team.ID, m.ID))
}
