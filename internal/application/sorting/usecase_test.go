package sorting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/sorting"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
)

type env struct {
	store *memstore.Store
	fx    *memstore.Fixture
	uc    *sorting.UseCase
	runID string
}

// newEnv prepara una ejecución CONCLUIDO sin paradas lista para triagem.
func newEnv(t *testing.T) *env {
	t.Helper()
	s := memstore.New()
	fx := s.Seed(0)
	tx := memstore.NewTxRunner(s)
	ops := operations.NewUseCase(operations.Deps{
		Tx: tx, Runs: s.Runs(), Events: s.Events(), Items: s.CollectedItems(),
		Routes: s.Routes(), Materials: s.MaterialTypes(),
	})
	ctx := context.Background()
	run, err := ops.StartRun(ctx, fx.Org.ID, fx.Admin.ID, dto.StartRunRequest{AssignmentID: fx.Assignment.ID})
	require.NoError(t, err)
	_, err = ops.FinishRun(ctx, fx.Org.ID, fx.Admin.ID, run.ID)
	require.NoError(t, err)

	uc := sorting.NewUseCase(sorting.Deps{
		Tx: tx, Batches: s.SortingBatches(), Lots: s.StockLots(), Materials: s.MaterialTypes(),
	})
	return &env{store: s, fx: fx, uc: uc, runID: run.ID}
}

func (e *env) openBatch(t *testing.T) *dto.BatchResponse {
	t.Helper()
	b, err := e.uc.CreateBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.CreateBatchRequest{RunID: e.runID})
	require.NoError(t, err)
	return b
}

func (e *env) add(t *testing.T, batchID string, material int, kg int64) *dto.SortedItemResponse {
	t.Helper()
	it, err := e.uc.AddItem(context.Background(), e.fx.Org.ID, batchID, dto.AddSortedItemRequest{
		MaterialTypeID: e.fx.Materials[material].ID,
		WeightKg:       decimal.NewFromInt(kg),
	})
	require.NoError(t, err)
	return it
}

func TestCreateBatch_RequiereEjecucionConcluida(t *testing.T) {
	s := memstore.New()
	fx := s.Seed(1)
	tx := memstore.NewTxRunner(s)
	ops := operations.NewUseCase(operations.Deps{
		Tx: tx, Runs: s.Runs(), Events: s.Events(), Items: s.CollectedItems(),
		Routes: s.Routes(), Materials: s.MaterialTypes(),
	})
	run, err := ops.StartRun(context.Background(), fx.Org.ID, fx.Admin.ID, dto.StartRunRequest{AssignmentID: fx.Assignment.ID})
	require.NoError(t, err)
	uc := sorting.NewUseCase(sorting.Deps{Tx: tx, Batches: s.SortingBatches(), Lots: s.StockLots(), Materials: s.MaterialTypes()})

	_, err = uc.CreateBatch(context.Background(), fx.Org.ID, fx.Admin.ID, dto.CreateBatchRequest{RunID: run.ID})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateBatch_UnSoloLoteAbiertoPorEjecucion(t *testing.T) {
	e := newEnv(t)
	e.openBatch(t)

	_, err := e.uc.CreateBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.CreateBatchRequest{RunID: e.runID})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddItem_Validaciones(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)
	ctx := context.Background()
	mat := e.fx.Materials[0].ID

	_, err := e.uc.AddItem(ctx, e.fx.Org.ID, b.ID, dto.AddSortedItemRequest{MaterialTypeID: mat, WeightKg: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pct := decimal.NewFromInt(101)
	_, err = e.uc.AddItem(ctx, e.fx.Org.ID, b.ID, dto.AddSortedItemRequest{MaterialTypeID: mat, WeightKg: decimal.NewFromInt(1), ContaminationPct: &pct})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.AddItem(ctx, e.fx.Org.ID, b.ID, dto.AddSortedItemRequest{MaterialTypeID: "x", WeightKg: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	it := e.add(t, b.ID, 0, 4)
	assert.Equal(t, "B", it.QualityGrade, "grado por defecto")
}

func TestAddItem_RechazaMasDeTresDecimales(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)

	_, err := e.uc.AddItem(context.Background(), e.fx.Org.ID, b.ID, dto.AddSortedItemRequest{
		MaterialTypeID: e.fx.Materials[0].ID,
		WeightKg:       decimal.RequireFromString("0.0001"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	got, err := e.uc.GetBatch(context.Background(), e.fx.Org.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCloseBatch_CreaUnLoteYUnaEntradaPorItem(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)
	e.add(t, b.ID, 0, 40)
	e.add(t, b.ID, 1, 25)
	removed := e.add(t, b.ID, 2, 9)
	require.NoError(t, e.uc.RemoveItem(context.Background(), e.fx.Org.ID, b.ID, removed.ID))

	closed, err := e.uc.CloseBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, b.ID)
	require.NoError(t, err)

	assert.True(t, closed.IsClosed)
	require.Len(t, closed.StockLots, 2)
	for _, l := range closed.StockLots {
		assert.True(t, l.AvailableKg.Equal(l.TotalKg))
		assert.Equal(t, "Triagem #"+b.ID[len(b.ID)-6:], l.OriginNote)
		require.NotNil(t, l.BatchID)
		assert.Equal(t, b.ID, *l.BatchID)
	}

	in := entity.MovementIn
	movs, err := e.store.StockMovements().List(context.Background(), e.fx.Org.ID, repository.MovementFilter{Type: &in})
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	detail, err := e.uc.GetBatch(context.Background(), e.fx.Org.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, detail.StockLots, 2)
	assert.Len(t, detail.Items, 2)
}

func TestCloseBatch_LoteCerradoEsInmutable(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)
	it := e.add(t, b.ID, 0, 10)
	_, err := e.uc.CloseBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, b.ID)
	require.NoError(t, err)

	_, err = e.uc.AddItem(context.Background(), e.fx.Org.ID, b.ID, dto.AddSortedItemRequest{MaterialTypeID: e.fx.Materials[0].ID, WeightKg: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = e.uc.RemoveItem(context.Background(), e.fx.Org.ID, b.ID, it.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = e.uc.CloseBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCloseBatch_SinItems(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)

	_, err := e.uc.CloseBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, b.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCloseBatch_FalloRevierteTodo(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)
	e.add(t, b.ID, 0, 10)
	e.add(t, b.ID, 1, 20)
	boom := errors.New("disco lleno")
	calls := 0
	e.store.FailOn = func(op string) error {
		if op == "movement.create" {
			calls++
			if calls == 2 {
				return boom
			}
		}
		return nil
	}

	_, err := e.uc.CloseBatch(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, b.ID)
	require.ErrorIs(t, err, boom)
	e.store.FailOn = nil

	lots, err := e.store.StockLots().List(context.Background(), e.fx.Org.ID, repository.LotFilter{})
	require.NoError(t, err)
	assert.Empty(t, lots, "sin lotes parciales")
	detail, err := e.uc.GetBatch(context.Background(), e.fx.Org.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsClosed)
}

func TestListBatches_FiltroPorEstado(t *testing.T) {
	e := newEnv(t)
	b := e.openBatch(t)
	e.add(t, b.ID, 0, 1)

	open, err := e.uc.ListBatches(context.Background(), e.fx.Org.ID, "open")
	require.NoError(t, err)
	assert.Len(t, open, 1)
	closed, err := e.uc.ListBatches(context.Background(), e.fx.Org.ID, "closed")
	require.NoError(t, err)
	assert.Empty(t, closed)
	_, err = e.uc.ListBatches(context.Background(), e.fx.Org.ID, "todos")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
