package operations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/ports"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct{ events []ports.Event }

func (p *recordingPublisher) Publish(_ context.Context, ev ports.Event) error {
	p.events = append(p.events, ev)
	return nil
}

type env struct {
	store *memstore.Store
	fx    *memstore.Fixture
	uc    *operations.UseCase
	pub   *recordingPublisher
}

func newEnv(t *testing.T, stops int) *env {
	t.Helper()
	s := memstore.New()
	pub := &recordingPublisher{}
	uc := operations.NewUseCase(operations.Deps{
		Tx:        memstore.NewTxRunner(s),
		Runs:      s.Runs(),
		Events:    s.Events(),
		Items:     s.CollectedItems(),
		Routes:    s.Routes(),
		Materials: s.MaterialTypes(),
		Publisher: pub,
	})
	return &env{store: s, fx: s.Seed(stops), uc: uc, pub: pub}
}

func (e *env) start(t *testing.T) *dto.RunResponse {
	t.Helper()
	run, err := e.uc.StartRun(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.StartRunRequest{AssignmentID: e.fx.Assignment.ID})
	require.NoError(t, err)
	return run
}

func items(materialID string, kg ...int64) dto.RegisterItemsRequest {
	return dto.RegisterItemsRequest{Items: lo.Map(kg, func(q int64, _ int) dto.CollectedItemInput {
		return dto.CollectedItemInput{MaterialTypeID: materialID, Quantity: decimal.NewFromInt(q)}
	})}
}

// ──────────────────────────────────────────────────────────────────────────────
// StartRun
// ──────────────────────────────────────────────────────────────────────────────

func TestStartRun_CreaUnEventoPendientePorParada(t *testing.T) {
	e := newEnv(t, 3)

	run := e.start(t)

	assert.Equal(t, "EM_ANDAMENTO", run.Status)
	assert.NotNil(t, run.StartedAt)
	require.Len(t, run.Events, 3)
	for i, ev := range run.Events {
		assert.Equal(t, "PENDENTE", ev.Status)
		assert.Equal(t, e.fx.Stops[i].ID, ev.StopID, "eventos en el orden de la rota")
	}
	require.Len(t, e.pub.events, 1)
	assert.Equal(t, ports.EventRunStarted, e.pub.events[0].Type)
}

func TestStartRun_FallaConEjecucionActiva(t *testing.T) {
	e := newEnv(t, 2)
	e.start(t)

	_, err := e.uc.StartRun(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.StartRunRequest{AssignmentID: e.fx.Assignment.ID})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	runs, err := e.uc.ListRuns(context.Background(), e.fx.Org.ID, dto.RunListQuery{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStartRun_PermiteNuevaEjecucionTrasConcluir(t *testing.T) {
	e := newEnv(t, 0)
	first := e.start(t)
	_, err := e.uc.FinishRun(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, first.ID)
	require.NoError(t, err)

	second := e.start(t)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestStartRun_AgendamentoDeOtraOrganizacion(t *testing.T) {
	e := newEnv(t, 1)
	other := e.store.Seed(1)

	_, err := e.uc.StartRun(context.Background(), other.Org.ID, other.Admin.ID, dto.StartRunRequest{AssignmentID: e.fx.Assignment.ID})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStartRun_FalloParcialNoDejaEjecucion(t *testing.T) {
	e := newEnv(t, 2)
	boom := errors.New("db caída")
	e.store.FailOn = func(op string) error {
		if op == "event.create" {
			return boom
		}
		return nil
	}

	_, err := e.uc.StartRun(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.StartRunRequest{AssignmentID: e.fx.Assignment.ID})
	require.ErrorIs(t, err, boom)

	e.store.FailOn = nil
	runs, err := e.uc.ListRuns(context.Background(), e.fx.Org.ID, dto.RunListQuery{})
	require.NoError(t, err)
	assert.Empty(t, runs, "la transacción revierte la ejecución creada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Paradas
// ──────────────────────────────────────────────────────────────────────────────

func TestArrive_SoloDesdePendiente(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	lat, lng := -23.55, -46.63

	ev, err := e.uc.Arrive(context.Background(), e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	assert.Equal(t, "EM_ANDAMENTO", ev.Status)
	assert.NotNil(t, ev.ArrivedAt)
	assert.Equal(t, &lat, ev.Lat)

	_, err = e.uc.Arrive(context.Background(), e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestArrive_ParadaInexistente(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)

	_, err := e.uc.Arrive(context.Background(), e.fx.Org.ID, run.ID, "no-existe", dto.ArriveRequest{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterCollectedItems_ReemplazaElConjunto(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	pet, papel := e.fx.Materials[0].ID, e.fx.Materials[1].ID
	_, err := e.uc.Arrive(context.Background(), e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	require.NoError(t, err)

	_, err = e.uc.RegisterCollectedItems(context.Background(), e.fx.Org.ID, run.ID, stop, items(pet, 5, 7))
	require.NoError(t, err)
	ev, err := e.uc.RegisterCollectedItems(context.Background(), e.fx.Org.ID, run.ID, stop, items(papel, 12))
	require.NoError(t, err)

	require.Len(t, ev.Items, 1, "la segunda llamada reemplaza, no acumula")
	assert.Equal(t, papel, ev.Items[0].MaterialTypeID)
	assert.True(t, decimal.NewFromInt(12).Equal(ev.Items[0].Quantity))
	assert.Equal(t, "kg", ev.Items[0].Unit)
	assert.True(t, ev.Items[0].IsEstimated)

	detail, err := e.uc.GetRun(context.Background(), e.fx.Org.ID, run.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Events[0].Items, 1)
}

func TestRegisterCollectedItems_ListaVaciaLimpia(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	_, err := e.uc.Arrive(context.Background(), e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	require.NoError(t, err)
	_, err = e.uc.RegisterCollectedItems(context.Background(), e.fx.Org.ID, run.ID, stop, items(e.fx.Materials[0].ID, 3))
	require.NoError(t, err)

	ev, err := e.uc.RegisterCollectedItems(context.Background(), e.fx.Org.ID, run.ID, stop, dto.RegisterItemsRequest{})

	require.NoError(t, err)
	assert.Empty(t, ev.Items)
}

func TestRegisterCollectedItems_Validaciones(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	ctx := context.Background()

	_, err := e.uc.RegisterCollectedItems(ctx, e.fx.Org.ID, run.ID, stop, items(e.fx.Materials[0].ID, 1))
	assert.ErrorIs(t, err, domain.ErrConflict, "sin llegada registrada")

	_, err = e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	require.NoError(t, err)

	_, err = e.uc.RegisterCollectedItems(ctx, e.fx.Org.ID, run.ID, stop, items(e.fx.Materials[0].ID, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.RegisterCollectedItems(ctx, e.fx.Org.ID, run.ID, stop, items("material-x", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterCollectedItems_RechazaMasDeTresDecimales(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	ctx := context.Background()
	_, err := e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	require.NoError(t, err)
	req := func(q string) dto.RegisterItemsRequest {
		return dto.RegisterItemsRequest{Items: []dto.CollectedItemInput{{
			MaterialTypeID: e.fx.Materials[0].ID,
			Quantity:       decimal.RequireFromString(q),
		}}}
	}

	_, err = e.uc.RegisterCollectedItems(ctx, e.fx.Org.ID, run.ID, stop, req("0.0001"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Quantidade admite no máximo 3 casas decimais", domain.Message(err))

	ev, err := e.uc.RegisterCollectedItems(ctx, e.fx.Org.ID, run.ID, stop, req("12.5000"))
	require.NoError(t, err, "ceros a la derecha no cuentan")
	require.Len(t, ev.Items, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(ev.Items[0].Quantity))
}

func TestOperacionesDeParada_BloqueanLaEjecucion(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	ctx := context.Background()
	var locked []string
	e.store.OnLock = func(table, id string) {
		if table == "runs" {
			locked = append(locked, id)
		}
	}

	_, err := e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	require.NoError(t, err)
	_, err = e.uc.RegisterCollectedItems(ctx, e.fx.Org.ID, run.ID, stop, items(e.fx.Materials[0].ID, 3))
	require.NoError(t, err)
	_, err = e.uc.CloseStop(ctx, e.fx.Org.ID, run.ID, stop, dto.CloseStopRequest{Status: "COLETADO"})
	require.NoError(t, err)

	assert.Equal(t, []string{run.ID, run.ID, run.ID}, locked, "cada operación de parada toma la fila de la ejecución")
}

func TestCloseStop_NaoColetadoExigeMotivo(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)
	stop := run.Events[0].StopID
	ctx := context.Background()
	_, err := e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, stop, dto.ArriveRequest{})
	require.NoError(t, err)

	for _, reason := range []*string{nil, lo.ToPtr(""), lo.ToPtr("   ")} {
		_, err = e.uc.CloseStop(ctx, e.fx.Org.ID, run.ID, stop, dto.CloseStopRequest{Status: "NAO_COLETADO", SkipReason: reason})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	ev, err := e.uc.CloseStop(ctx, e.fx.Org.ID, run.ID, stop, dto.CloseStopRequest{Status: "NAO_COLETADO", SkipReason: lo.ToPtr("portão fechado")})
	require.NoError(t, err)
	assert.Equal(t, "NAO_COLETADO", ev.Status)
	assert.NotNil(t, ev.DepartedAt)
	assert.Equal(t, "portão fechado", *ev.SkipReason)

	_, err = e.uc.CloseStop(ctx, e.fx.Org.ID, run.ID, stop, dto.CloseStopRequest{Status: "COLETADO"})
	assert.ErrorIs(t, err, domain.ErrConflict, "parada terminal")
}

func TestCloseStop_EstadoInvalido(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)

	_, err := e.uc.CloseStop(context.Background(), e.fx.Org.ID, run.ID, run.Events[0].StopID, dto.CloseStopRequest{Status: "PENDENTE"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// FinishRun
// ──────────────────────────────────────────────────────────────────────────────

func TestFinishRun_FallaConParadasPendientes(t *testing.T) {
	e := newEnv(t, 2)
	run := e.start(t)
	ctx := context.Background()
	first := run.Events[0].StopID
	_, err := e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, first, dto.ArriveRequest{})
	require.NoError(t, err)
	_, err = e.uc.CloseStop(ctx, e.fx.Org.ID, run.ID, first, dto.CloseStopRequest{Status: "COLETADO"})
	require.NoError(t, err)

	_, err = e.uc.FinishRun(ctx, e.fx.Org.ID, e.fx.Admin.ID, run.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Ainda existem 1 paradas pendentes", domain.Message(err))

	second := run.Events[1].StopID
	_, err = e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, second, dto.ArriveRequest{})
	require.NoError(t, err)

	done, err := e.uc.FinishRun(ctx, e.fx.Org.ID, e.fx.Admin.ID, run.ID)
	require.NoError(t, err, "EM_ANDAMENTO no bloquea la finalización")
	assert.Equal(t, "CONCLUIDO", done.Status)
	assert.NotNil(t, done.EndedAt)

	_, err = e.uc.Arrive(ctx, e.fx.Org.ID, run.ID, second, dto.ArriveRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict, "ejecución concluida no admite cambios")
	_, err = e.uc.FinishRun(ctx, e.fx.Org.ID, e.fx.Admin.ID, run.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, ports.EventRunFinished, e.pub.events[len(e.pub.events)-1].Type)
}

func TestUpdateRunNotes(t *testing.T) {
	e := newEnv(t, 1)
	run := e.start(t)

	out, err := e.uc.UpdateRunNotes(context.Background(), e.fx.Org.ID, run.ID, dto.UpdateRunRequest{Notes: lo.ToPtr("chuva forte")})

	require.NoError(t, err)
	assert.Equal(t, "chuva forte", *out.Notes)
	assert.Len(t, out.Events, 1)
}
