package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// Fixture datos base de una organización: materiales, rota con paradas, equipe, vehículo,
// destino y un agendamento listo para iniciar.
type Fixture struct {
	Org         *entity.Organization
	Admin       *entity.User
	Materials   []*entity.MaterialType
	Points      []*entity.CollectionPoint
	Route       *entity.Route
	Stops       []entity.RouteStop
	Team        *entity.Team
	Vehicle     *entity.Vehicle
	Destination *entity.Destination
	Assignment  *entity.RouteAssignment
}

// Seed crea una organización completa con stops paradas en la rota.
func (s *Store) Seed(stops int) *Fixture {
	ctx := context.Background()
	f := gofakeit.New(0)
	now := time.Now()
	id := func() string { return uuid.New().String() }

	fx := &Fixture{}
	fx.Org = &entity.Organization{ID: id(), Name: f.Company(), Slug: f.UUID()[:8], CreatedAt: now, UpdatedAt: now}
	must(s.Organizations().Create(ctx, fx.Org))

	fx.Admin = &entity.User{
		ID: id(), OrgID: fx.Org.ID, Email: f.Email(), Name: f.Name(),
		Role: entity.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	must(s.Users().Create(ctx, fx.Admin))

	for _, name := range []string{"PET", "Papelão", "Alumínio"} {
		m := &entity.MaterialType{
			ID: id(), OrgID: fx.Org.ID, Name: name, DefaultUnit: "kg",
			RequiresSorting: true, IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		must(s.MaterialTypes().Create(ctx, m))
		fx.Materials = append(fx.Materials, m)
	}

	fx.Route = &entity.Route{ID: id(), OrgID: fx.Org.ID, Name: "Rota " + f.City(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	must(s.Routes().Create(ctx, fx.Route))
	for i := 0; i < stops; i++ {
		p := &entity.CollectionPoint{
			ID: id(), OrgID: fx.Org.ID, Name: fmt.Sprintf("%s %d", f.Street(), i+1),
			Address: f.Address().Address, IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		must(s.CollectionPoints().Create(ctx, p))
		fx.Points = append(fx.Points, p)
		st := entity.RouteStop{ID: id(), RouteID: fx.Route.ID, PointID: p.ID, OrderIndex: i, CreatedAt: now}
		must(s.Routes().AddStop(ctx, &st))
		fx.Stops = append(fx.Stops, st)
	}

	fx.Team = &entity.Team{ID: id(), OrgID: fx.Org.ID, Name: "Equipe " + f.Color(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	must(s.Teams().Create(ctx, fx.Team))

	capKg := decimal.NewFromInt(int64(f.IntRange(1000, 8000)))
	fx.Vehicle = &entity.Vehicle{
		ID: id(), OrgID: fx.Org.ID, Plate: f.LetterN(3) + f.DigitN(4), CapacityKg: &capKg,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	must(s.Vehicles().Create(ctx, fx.Vehicle))

	fx.Destination = &entity.Destination{
		ID: id(), OrgID: fx.Org.ID, Name: "Cooperativa " + f.LastName(), Type: entity.DestinationCooperativa,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	must(s.Destinations().Create(ctx, fx.Destination))

	fx.Assignment = &entity.RouteAssignment{
		ID: id(), OrgID: fx.Org.ID, RouteID: fx.Route.ID, TeamID: fx.Team.ID, VehicleID: fx.Vehicle.ID,
		Date: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), CreatedAt: now, UpdatedAt: now,
	}
	must(s.Assignments().Create(ctx, fx.Assignment))
	return fx
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
