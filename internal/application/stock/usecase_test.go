package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
)

type fakeManifests struct{}

func (fakeManifests) Build(org *entity.Organization, mov *entity.StockMovement) (*stock.Manifest, error) {
	return &stock.Manifest{Number: "MTR-" + mov.ID[:8], XML: []byte("<MTR/>"), Movement: mov}, nil
}

type env struct {
	store *memstore.Store
	fx    *memstore.Fixture
	uc    *stock.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memstore.New()
	uc := stock.NewUseCase(stock.Deps{
		Tx:            memstore.NewTxRunner(s),
		Lots:          s.StockLots(),
		Movements:     s.StockMovements(),
		Materials:     s.MaterialTypes(),
		Destinations:  s.Destinations(),
		Vehicles:      s.Vehicles(),
		Organizations: s.Organizations(),
		Manifests:     fakeManifests{},
	})
	return &env{store: s, fx: s.Seed(0), uc: uc}
}

func (e *env) lot(t *testing.T, kg int64) *dto.LotResponse {
	t.Helper()
	l, err := e.uc.CreateLot(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.CreateLotRequest{
		MaterialTypeID: e.fx.Materials[0].ID,
		TotalKg:        decimal.NewFromInt(kg),
	})
	require.NoError(t, err)
	return l
}

func (e *env) move(lotID, typ string, kg int64) (*dto.MovementResponse, error) {
	return e.uc.RecordMovement(context.Background(), e.fx.Org.ID, e.fx.Admin.ID, dto.RecordMovementRequest{
		LotID: lotID, Type: typ, QuantityKg: decimal.NewFromInt(kg),
	})
}

func (e *env) available(t *testing.T, lotID string) decimal.Decimal {
	t.Helper()
	l, err := e.store.StockLots().GetByID(context.Background(), e.fx.Org.ID, lotID)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l.AvailableKg
}

func TestCreateLot_RegistraEntradaManual(t *testing.T) {
	e := newEnv(t)

	l := e.lot(t, 100)

	assert.True(t, decimal.NewFromInt(100).Equal(l.AvailableKg))
	assert.Equal(t, "Entrada manual", l.OriginNote)
	movs, err := e.uc.ListMovements(context.Background(), e.fx.Org.ID, dto.MovementListQuery{LotID: l.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "IN", movs[0].Type)
}

func TestCreateLotYMovimiento_RechazanMasDeTresDecimales(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.CreateLot(ctx, e.fx.Org.ID, e.fx.Admin.ID, dto.CreateLotRequest{
		MaterialTypeID: e.fx.Materials[0].ID,
		TotalKg:        decimal.RequireFromString("0.0001"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	lots, err := e.uc.ListLots(ctx, e.fx.Org.ID, dto.LotListQuery{})
	require.NoError(t, err)
	assert.Empty(t, lots, "no se crea un lote de 0 kg")

	l := e.lot(t, 10)
	for _, typ := range []string{"IN", "OUT", "ADJUST"} {
		_, err = e.uc.RecordMovement(ctx, e.fx.Org.ID, e.fx.Admin.ID, dto.RecordMovementRequest{
			LotID: l.ID, Type: typ, QuantityKg: decimal.RequireFromString("1.2345"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, typ)
	}
	assert.True(t, decimal.NewFromInt(10).Equal(e.available(t, l.ID)))

	out, err := e.uc.RecordMovement(ctx, e.fx.Org.ID, e.fx.Admin.ID, dto.RecordMovementRequest{
		LotID: l.ID, Type: "OUT", QuantityKg: decimal.RequireFromString("2.125"),
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.875").Equal(out.Lot.AvailableKg))
}

func TestRecordMovement_SalidaInsuficienteNoModifica(t *testing.T) {
	e := newEnv(t)
	l := e.lot(t, 100)

	out, err := e.move(l.ID, "OUT", 30)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(70).Equal(out.Lot.AvailableKg))

	_, err = e.move(l.ID, "OUT", 80)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Quantidade insuficiente. Disponível: 70kg", domain.Message(err))
	assert.True(t, decimal.NewFromInt(70).Equal(e.available(t, l.ID)))

	movs, err := e.uc.ListMovements(context.Background(), e.fx.Org.ID, dto.MovementListQuery{LotID: l.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 2, "la salida rechazada no deja asiento")
}

func TestRecordMovement_SecuenciaConAjuste(t *testing.T) {
	e := newEnv(t)
	l := e.lot(t, 50)

	for _, step := range []struct {
		typ string
		kg  int64
	}{{"IN", 20}, {"OUT", 10}, {"ADJUST", 15}, {"IN", 5}, {"OUT", 20}} {
		_, err := e.move(l.ID, step.typ, step.kg)
		require.NoError(t, err, "%s %d", step.typ, step.kg)
	}

	assert.True(t, decimal.Zero.Equal(e.available(t, l.ID)))
	lot, err := e.store.StockLots().GetByID(context.Background(), e.fx.Org.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(75).Equal(lot.TotalKg), "total acumula solo las entradas")
}

func TestRecordMovement_Referencias(t *testing.T) {
	e := newEnv(t)
	l := e.lot(t, 10)
	ctx := context.Background()

	_, err := e.move("nao-existe", "OUT", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.RecordMovement(ctx, e.fx.Org.ID, e.fx.Admin.ID, dto.RecordMovementRequest{
		LotID: l.ID, Type: "OUT", QuantityKg: decimal.NewFromInt(1), DestinationID: lo.ToPtr("x"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.move(l.ID, "TRANSFER", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.move(l.ID, "OUT", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMovement_SalidasConcurrentesNoSobregiran(t *testing.T) {
	e := newEnv(t)
	l := e.lot(t, 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.move(l.ID, "OUT", 15); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, ok)
	assert.True(t, decimal.NewFromInt(10).Equal(e.available(t, l.ID)))
}

func TestSummary_AgrupaPorMaterial(t *testing.T) {
	e := newEnv(t)
	a := e.lot(t, 40)
	e.lot(t, 60)
	_, err := e.move(a.ID, "OUT", 40)
	require.NoError(t, err)

	sum, err := e.uc.Summary(context.Background(), e.fx.Org.ID)
	require.NoError(t, err)

	require.Len(t, sum.ByMaterial, 1)
	assert.Equal(t, 1, sum.ByMaterial[0].LotsCount, "lotes vacíos no cuentan")
	assert.True(t, decimal.NewFromInt(60).Equal(sum.Totals.AvailableKg))
	assert.Equal(t, 2, sum.Totals.LotsCount)
}

func TestBuildManifest_SoloSalidasConDestino(t *testing.T) {
	e := newEnv(t)
	l := e.lot(t, 10)
	ctx := context.Background()

	in, err := e.move(l.ID, "IN", 1)
	require.NoError(t, err)
	_, err = e.uc.BuildManifest(ctx, e.fx.Org.ID, in.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err := e.uc.RecordMovement(ctx, e.fx.Org.ID, e.fx.Admin.ID, dto.RecordMovementRequest{
		LotID: l.ID, Type: "OUT", QuantityKg: decimal.NewFromInt(5), DestinationID: &e.fx.Destination.ID,
	})
	require.NoError(t, err)
	m, err := e.uc.BuildManifest(ctx, e.fx.Org.ID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, m.Movement.ID)
	require.NotNil(t, m.Movement.Destination)
	assert.Equal(t, e.fx.Destination.Name, m.Movement.Destination.Name)
}
