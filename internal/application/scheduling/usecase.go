// Package scheduling programa asignaciones de ruta × equipo × vehículo.
package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	"github.com/jhoicas/coleta-api/pkg/logger"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

// UseCase casos de uso de agenda. No detecta solapamientos entre asignaciones.
type UseCase struct {
	assignments repository.AssignmentRepository
	routes      repository.RouteRepository
	teams       repository.TeamRepository
	vehicles    repository.VehicleRepository
	runs        repository.RunRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	assignments repository.AssignmentRepository,
	routes repository.RouteRepository,
	teams repository.TeamRepository,
	vehicles repository.VehicleRepository,
	runs repository.RunRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		assignments: assignments,
		routes:      routes,
		teams:       teams,
		vehicles:    vehicles,
		runs:        runs,
		log:         log.Named("scheduling"),
	}
}

// CreateAssignment valida rota, equipe y veículo por separado (cada uno con su mensaje) y persiste.
func (uc *UseCase) CreateAssignment(ctx context.Context, orgID string, in dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	route, err := uc.routes.GetByID(ctx, orgID, in.RouteID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: obtener rota: %w", err)
	}
	if route == nil {
		return nil, domain.NotFound("Rota não encontrada")
	}
	team, err := uc.teams.GetByID(ctx, orgID, in.TeamID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: obtener equipe: %w", err)
	}
	if team == nil {
		return nil, domain.NotFound("Equipe não encontrada")
	}
	vehicle, err := uc.vehicles.GetByID(ctx, orgID, in.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: obtener veículo: %w", err)
	}
	if vehicle == nil {
		return nil, domain.NotFound("Veículo não encontrado")
	}

	now := time.Now()
	a := &entity.RouteAssignment{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		RouteID:   route.ID,
		TeamID:    team.ID,
		VehicleID: vehicle.ID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Shift != nil {
		s := entity.Shift(*in.Shift)
		a.Shift = &s
	}
	if err := uc.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.log.Info().Str("org_id", orgID).Str("assignment_id", a.ID).Str("date", in.Date).Msg("agendamento criado")

	route.Stops = nil
	team.Members = nil
	a.Route, a.Team, a.Vehicle = route, team, vehicle
	return dto.AssignmentFrom(a), nil
}

// DeleteAssignment borra la asignación si ninguna ejecución la referencia.
func (uc *UseCase) DeleteAssignment(ctx context.Context, orgID, id string) error {
	a, err := uc.assignments.GetByID(ctx, orgID, id)
	if err != nil {
		return fmt.Errorf("scheduling: obtener agendamento: %w", err)
	}
	if a == nil {
		return domain.NotFound("Agendamento não encontrado")
	}
	n, err := uc.assignments.CountRuns(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("scheduling: contar execuções: %w", err)
	}
	if n > 0 {
		return domain.Conflict("Não é possível excluir agendamento com execuções")
	}
	return uc.assignments.Delete(ctx, orgID, a.ID)
}

// ListAssignments lista por rango de fecha con rota, equipe y veículo resumidos.
func (uc *UseCase) ListAssignments(ctx context.Context, orgID string, q dto.DateRangeQuery) ([]dto.AssignmentResponse, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	from, to, err := q.Bounds()
	if err != nil {
		return nil, err
	}
	list, err := uc.assignments.List(ctx, orgID, repository.AssignmentFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	routes := map[string]*entity.Route{}
	teams := map[string]*entity.Team{}
	vehicles := map[string]*entity.Vehicle{}
	out := make([]dto.AssignmentResponse, 0, len(list))
	for _, a := range list {
		if _, ok := routes[a.RouteID]; !ok {
			if routes[a.RouteID], err = uc.routes.GetByID(ctx, orgID, a.RouteID); err != nil {
				return nil, err
			}
		}
		if _, ok := teams[a.TeamID]; !ok {
			if teams[a.TeamID], err = uc.teams.GetByID(ctx, orgID, a.TeamID); err != nil {
				return nil, err
			}
		}
		if _, ok := vehicles[a.VehicleID]; !ok {
			if vehicles[a.VehicleID], err = uc.vehicles.GetByID(ctx, orgID, a.VehicleID); err != nil {
				return nil, err
			}
		}
		a.Route, a.Team, a.Vehicle = routes[a.RouteID], teams[a.TeamID], vehicles[a.VehicleID]
		out = append(out, *dto.AssignmentFrom(a))
	}
	return out, nil
}

// GetAssignment detalle con paradas de la rota, miembros de la equipe y ejecuciones.
func (uc *UseCase) GetAssignment(ctx context.Context, orgID, id string) (*dto.AssignmentResponse, error) {
	a, err := uc.assignments.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NotFound("Agendamento não encontrado")
	}
	if a.Route, err = uc.routes.GetByID(ctx, orgID, a.RouteID); err != nil {
		return nil, err
	}
	if a.Team, err = uc.teams.GetByID(ctx, orgID, a.TeamID); err != nil {
		return nil, err
	}
	if a.Vehicle, err = uc.vehicles.GetByID(ctx, orgID, a.VehicleID); err != nil {
		return nil, err
	}
	runs, err := uc.runs.List(ctx, orgID, repository.RunFilter{AssignmentID: a.ID})
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		a.Runs = append(a.Runs, *r)
	}
	return dto.AssignmentFrom(a), nil
}
