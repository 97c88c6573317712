//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/infrastructure/postgres"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("coleta"),
		tcpostgres.WithUsername("coleta"),
		tcpostgres.WithPassword("coleta"),
		tc.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	m, err := postgres.NewMigrator(pool)
	require.NoError(t, err)
	n, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	return pool
}

type seed struct {
	org      *entity.Organization
	user     *entity.User
	material *entity.MaterialType
}

func seedOrg(t *testing.T, pool *pgxpool.Pool) seed {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	org := &entity.Organization{ID: uuid.NewString(), Name: "Coop Verde", Slug: "coop-" + uuid.NewString()[:6], CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewOrganizationRepository(pool).Create(ctx, org))
	user := &entity.User{
		ID: uuid.NewString(), OrgID: org.ID, Email: uuid.NewString() + "@coop.org", PasswordHash: "x",
		Name: "Almox", Role: entity.RoleAlmoxarife, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, user))
	mat := &entity.MaterialType{
		ID: uuid.NewString(), OrgID: org.ID, Name: "PET", DefaultUnit: "kg", RequiresSorting: true,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewMaterialTypeRepository(pool).Create(ctx, mat))
	return seed{org: org, user: user, material: mat}
}

func TestStock_SalidasConcurrentesNoDejanNegativo(t *testing.T) {
	pool := startPostgres(t)
	s := seedOrg(t, pool)
	ctx := context.Background()

	uc := stock.NewUseCase(stock.Deps{
		Tx:            postgres.NewTxRunner(pool),
		Lots:          postgres.NewStockLotRepository(pool),
		Movements:     postgres.NewStockMovementRepository(pool),
		Materials:     postgres.NewMaterialTypeRepository(pool),
		Destinations:  postgres.NewDestinationRepository(pool),
		Vehicles:      postgres.NewVehicleRepository(pool),
		Organizations: postgres.NewOrganizationRepository(pool),
	})
	lot, err := uc.CreateLot(ctx, s.org.ID, s.user.ID, dto.CreateLotRequest{
		MaterialTypeID: s.material.ID, TotalKg: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordMovement(ctx, s.org.ID, s.user.ID, dto.RecordMovementRequest{
				LotID: lot.ID, Type: "OUT", QuantityKg: decimal.NewFromInt(15),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				insufficient++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 6, ok)
	assert.Equal(t, 4, insufficient)

	got, err := postgres.NewStockLotRepository(pool).GetByID(ctx, s.org.ID, lot.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableKg.Equal(decimal.NewFromInt(10)), got.AvailableKg.String())
	assert.True(t, got.TotalKg.Equal(decimal.NewFromInt(100)))

	movs, err := uc.ListMovements(ctx, s.org.ID, dto.MovementListQuery{LotID: lot.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 7, "IN inicial + 6 OUT")
}

func TestRuns_UnaEnCursoPorAgendamento(t *testing.T) {
	pool := startPostgres(t)
	s := seedOrg(t, pool)
	ctx := context.Background()
	now := time.Now()

	point := &entity.CollectionPoint{ID: uuid.NewString(), OrgID: s.org.ID, Name: "Mercado", Address: "Rua A, 1", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewCollectionPointRepository(pool).Create(ctx, point))
	routes := postgres.NewRouteRepository(pool)
	route := &entity.Route{ID: uuid.NewString(), OrgID: s.org.ID, Name: "Centro", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, routes.Create(ctx, route))
	for i := 0; i < 2; i++ {
		require.NoError(t, routes.AddStop(ctx, &entity.RouteStop{ID: uuid.NewString(), RouteID: route.ID, PointID: point.ID, OrderIndex: i, CreatedAt: now}))
	}
	err := routes.AddStop(ctx, &entity.RouteStop{ID: uuid.NewString(), RouteID: route.ID, PointID: point.ID, OrderIndex: 1, CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrConflict)

	stops, err := routes.ListStops(ctx, route.ID)
	require.NoError(t, err)
	require.NoError(t, routes.ReorderStops(ctx, route.ID, map[string]int{stops[0].ID: 1, stops[1].ID: 0}), "intercambio en una sentencia")

	team := &entity.Team{ID: uuid.NewString(), OrgID: s.org.ID, Name: "A", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewTeamRepository(pool).Create(ctx, team))
	vehicle := &entity.Vehicle{ID: uuid.NewString(), OrgID: s.org.ID, Plate: "ABC1D23", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewVehicleRepository(pool).Create(ctx, vehicle))
	a := &entity.RouteAssignment{ID: uuid.NewString(), OrgID: s.org.ID, RouteID: route.ID, TeamID: team.ID, VehicleID: vehicle.ID, Date: now.Truncate(24 * time.Hour), CreatedAt: now, UpdatedAt: now}
	assignments := postgres.NewAssignmentRepository(pool)
	require.NoError(t, assignments.Create(ctx, a))

	uc := operations.NewUseCase(operations.Deps{
		Tx:        postgres.NewTxRunner(pool),
		Runs:      postgres.NewRunRepository(pool),
		Events:    postgres.NewEventRepository(pool),
		Items:     postgres.NewCollectedItemRepository(pool),
		Routes:    routes,
		Materials: postgres.NewMaterialTypeRepository(pool),
	})

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.StartRun(ctx, s.org.ID, s.user.ID, dto.StartRunRequest{AssignmentID: a.ID})
		}(i)
	}
	wg.Wait()
	started := 0
	for _, err := range errs {
		if err == nil {
			started++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, started)

	runs, err := uc.ListRuns(ctx, s.org.ID, dto.RunListQuery{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run, err := uc.GetRun(ctx, s.org.ID, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, run.Events, 2)
	assert.Equal(t, stops[1].ID, run.Events[0].StopID, "eventos en el nuevo orden de paradas")

	n, err := assignments.CountRuns(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, assignments.Delete(ctx, s.org.ID, a.ID), domain.ErrConflict)
}
