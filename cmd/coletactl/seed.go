package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jhoicas/coleta-api/internal/application/auth"
	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	"github.com/jhoicas/coleta-api/internal/infrastructure/postgres"
)

// seedRepos repositorios que toca el seed.
type seedRepos struct {
	Users            repository.UserRepository
	Organizations    repository.OrganizationRepository
	MaterialTypes    repository.MaterialTypeRepository
	CollectionPoints repository.CollectionPointRepository
	Vehicles         repository.VehicleRepository
	Destinations     repository.DestinationRepository
	Employees        repository.EmployeeRepository
	Teams            repository.TeamRepository
	Routes           repository.RouteRepository
}

type seedOptions struct {
	OrgName       string
	OrgSlug       string
	AdminEmail    string
	AdminPassword string
	Points        int
	FakerSeed     uint64
}

type seedResult struct {
	OrgID   string
	AdminID string
	RouteID string
	Stops   int
}

var demoMaterials = []struct {
	name     string
	category string
}{
	{"PET", "plastico"},
	{"Papelão", "papel"},
	{"Alumínio", "metal"},
	{"Vidro", "vidro"},
	{"Orgânico", "organico"},
}

func seedCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Cria uma organização de demonstração com catálogo e rota",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := seedDemo(ctx, seedRepos{
				Users:            postgres.NewUserRepository(pool),
				Organizations:    postgres.NewOrganizationRepository(pool),
				MaterialTypes:    postgres.NewMaterialTypeRepository(pool),
				CollectionPoints: postgres.NewCollectionPointRepository(pool),
				Vehicles:         postgres.NewVehicleRepository(pool),
				Destinations:     postgres.NewDestinationRepository(pool),
				Employees:        postgres.NewEmployeeRepository(pool),
				Teams:            postgres.NewTeamRepository(pool),
				Routes:           postgres.NewRouteRepository(pool),
			}, opts)
			if err != nil {
				return err
			}
			log.Info().
				Str("org_id", res.OrgID).
				Str("admin_id", res.AdminID).
				Str("route_id", res.RouteID).
				Int("stops", res.Stops).
				Msg("datos de demostración creados")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.OrgName, "org-name", "Cooperativa Demo", "nome da organização")
	f.StringVar(&opts.OrgSlug, "org-slug", "demo", "slug único da organização")
	f.StringVar(&opts.AdminEmail, "admin-email", "admin@demo.local", "email do administrador")
	f.StringVar(&opts.AdminPassword, "admin-password", "", "senha do administrador (mín. 6)")
	f.IntVar(&opts.Points, "points", 5, "pontos de coleta na rota")
	f.Uint64Var(&opts.FakerSeed, "faker-seed", 0, "semente do gerador de dados (0 = aleatória)")
	_ = cmd.MarkFlagRequired("admin-password")
	return cmd
}

// seedDemo crea organización, admin, catálogo, una rota con paradas y una equipe con un funcionário.
// Falla si el slug ya existe.
func seedDemo(ctx context.Context, r seedRepos, opts seedOptions) (*seedResult, error) {
	existing, err := r.Organizations.GetBySlug(ctx, opts.OrgSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("seed: a organização %q já existe", opts.OrgSlug)
	}
	fk := gofakeit.New(opts.FakerSeed)
	now := time.Now()

	org := &entity.Organization{ID: uuid.New().String(), Name: opts.OrgName, Slug: opts.OrgSlug, CreatedAt: now, UpdatedAt: now}
	if err := r.Organizations.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("seed: organização: %w", err)
	}

	authUC := auth.NewAuthUseCase(r.Users, r.Organizations, auth.JWTConfig{})
	admin, err := authUC.RegisterUser(ctx, auth.RegisterInput{
		OrgID:    org.ID,
		Email:    opts.AdminEmail,
		Password: opts.AdminPassword,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("seed: admin: %w", err)
	}

	materialUC := usecase.NewMaterialTypeUseCase(r.MaterialTypes)
	for _, m := range demoMaterials {
		if _, err := materialUC.Create(ctx, org.ID, dto.MaterialTypeRequest{Name: m.name, Category: lo.ToPtr(m.category)}); err != nil {
			return nil, fmt.Errorf("seed: material %s: %w", m.name, err)
		}
	}

	routeUC := usecase.NewRouteUseCase(r.Routes, r.CollectionPoints)
	route, err := routeUC.Create(ctx, org.ID, dto.RouteRequest{Name: "Rota " + fk.City()})
	if err != nil {
		return nil, fmt.Errorf("seed: rota: %w", err)
	}
	pointUC := usecase.NewCollectionPointUseCase(r.CollectionPoints)
	pointTypes := []string{"residencia", "comercio", "condominio", "ecoponto"}
	for i := 0; i < opts.Points; i++ {
		addr := fk.Address()
		p, err := pointUC.Create(ctx, org.ID, dto.CollectionPointRequest{
			Name:    fmt.Sprintf("%s %d", fk.Company(), i+1),
			Address: addr.Address,
			Lat:     lo.ToPtr(addr.Latitude),
			Lng:     lo.ToPtr(addr.Longitude),
			Type:    lo.ToPtr(pointTypes[i%len(pointTypes)]),
			Phone:   lo.ToPtr(fk.Phone()),
		})
		if err != nil {
			return nil, fmt.Errorf("seed: ponto: %w", err)
		}
		if _, err := routeUC.AddStop(ctx, org.ID, route.ID, dto.AddRouteStopRequest{PointID: p.ID, OrderIndex: lo.ToPtr(i)}); err != nil {
			return nil, fmt.Errorf("seed: parada: %w", err)
		}
	}

	employee, err := usecase.NewEmployeeUseCase(r.Employees).Create(ctx, org.ID, dto.EmployeeRequest{Name: fk.Name(), Phone: lo.ToPtr(fk.Phone())})
	if err != nil {
		return nil, fmt.Errorf("seed: funcionário: %w", err)
	}
	teamUC := usecase.NewTeamUseCase(r.Teams, r.Employees)
	team, err := teamUC.Create(ctx, org.ID, dto.TeamRequest{Name: "Equipe " + fk.Color()})
	if err != nil {
		return nil, fmt.Errorf("seed: equipe: %w", err)
	}
	if _, err := teamUC.AddMember(ctx, org.ID, team.ID, dto.AddTeamMemberRequest{EmployeeID: employee.ID, Role: lo.ToPtr("motorista")}); err != nil {
		return nil, fmt.Errorf("seed: membro: %w", err)
	}

	if _, err := usecase.NewVehicleUseCase(r.Vehicles).Create(ctx, org.ID, dto.VehicleRequest{
		Plate: fk.Regex("[A-Z]{3}[0-9][A-Z][0-9]{2}"),
		Model: lo.ToPtr(fk.CarModel()),
	}); err != nil {
		return nil, fmt.Errorf("seed: veículo: %w", err)
	}
	if _, err := usecase.NewDestinationUseCase(r.Destinations).Create(ctx, org.ID, dto.DestinationRequest{
		Name: "Cooperativa " + fk.LastName(),
		Type: "COOPERATIVA",
	}); err != nil {
		return nil, fmt.Errorf("seed: destino: %w", err)
	}

	return &seedResult{OrgID: org.ID, AdminID: admin.ID, RouteID: route.ID, Stops: opts.Points}, nil
}
