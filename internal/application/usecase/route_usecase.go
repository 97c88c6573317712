package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

// RouteUseCase rotas y sus paradas. El orden es manual; orderIndex es único dentro de la rota.
type RouteUseCase struct {
	repo   repository.RouteRepository
	points repository.CollectionPointRepository
}

// NewRouteUseCase construye el caso de uso.
func NewRouteUseCase(repo repository.RouteRepository, points repository.CollectionPointRepository) *RouteUseCase {
	return &RouteUseCase{repo: repo, points: points}
}

func (uc *RouteUseCase) Create(ctx context.Context, orgID string, in dto.RouteRequest) (*dto.RouteResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	r := &entity.Route{
		ID:          uuid.New().String(),
		OrgID:       orgID,
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return dto.RouteFrom(r), nil
}

// GetByID rota con paradas ordenadas.
func (uc *RouteUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.RouteResponse, error) {
	r, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.RouteFrom(r), nil
}

func (uc *RouteUseCase) List(ctx context.Context, orgID string) ([]dto.RouteResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(r *entity.Route, _ int) dto.RouteResponse { return *dto.RouteFrom(r) }), nil
}

func (uc *RouteUseCase) Update(ctx context.Context, orgID, id string, in dto.RouteRequest) (*dto.RouteResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	r, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	r.Name, r.Description = in.Name, in.Description
	r.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return dto.RouteFrom(r), nil
}

func (uc *RouteUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

// ListStops paradas de la rota por orderIndex.
func (uc *RouteUseCase) ListStops(ctx context.Context, orgID, routeID string) ([]dto.RouteStopResponse, error) {
	r, err := uc.get(ctx, orgID, routeID)
	if err != nil {
		return nil, err
	}
	return lo.Map(r.Stops, func(s entity.RouteStop, _ int) dto.RouteStopResponse { return *dto.RouteStopFrom(&s) }), nil
}

// AddStop agrega un punto de la organización en la posición indicada (libre).
func (uc *RouteUseCase) AddStop(ctx context.Context, orgID, routeID string, in dto.AddRouteStopRequest) (*dto.RouteStopResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	r, err := uc.get(ctx, orgID, routeID)
	if err != nil {
		return nil, err
	}
	p, err := uc.points.GetByID(ctx, orgID, in.PointID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("Ponto de coleta não encontrado")
	}
	taken, err := uc.repo.GetStopByOrder(ctx, r.ID, *in.OrderIndex)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.Conflictf("Já existe uma parada na posição %d", *in.OrderIndex)
	}
	s := &entity.RouteStop{
		ID:            uuid.New().String(),
		RouteID:       r.ID,
		PointID:       p.ID,
		OrderIndex:    *in.OrderIndex,
		PlannedWindow: in.PlannedWindow,
		Notes:         in.Notes,
		Point:         p,
		CreatedAt:     time.Now(),
	}
	if err := uc.repo.AddStop(ctx, s); err != nil {
		return nil, err
	}
	return dto.RouteStopFrom(s), nil
}

// ReorderStops aplica el nuevo orden. Todas las paradas deben ser de la rota y los índices distintos.
func (uc *RouteUseCase) ReorderStops(ctx context.Context, orgID, routeID string, in dto.ReorderStopsRequest) ([]dto.RouteStopResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	r, err := uc.get(ctx, orgID, routeID)
	if err != nil {
		return nil, err
	}
	known := lo.SliceToMap(r.Stops, func(s entity.RouteStop) (string, int) { return s.ID, s.OrderIndex })
	order := make(map[string]int, len(known))
	for id, idx := range known {
		order[id] = idx
	}
	for _, so := range in.Stops {
		if _, ok := known[so.ID]; !ok {
			return nil, domain.NotFound("Parada não encontrada nesta rota: " + so.ID)
		}
		order[so.ID] = so.OrderIndex
	}
	if len(lo.Uniq(lo.Values(order))) != len(order) {
		return nil, domain.Invalid("orderIndex repetido na rota")
	}
	if err := uc.repo.ReorderStops(ctx, r.ID, order); err != nil {
		return nil, err
	}
	return uc.ListStops(ctx, orgID, r.ID)
}

// RemoveStop quita una parada de la rota.
func (uc *RouteUseCase) RemoveStop(ctx context.Context, orgID, routeID, stopID string) error {
	r, err := uc.get(ctx, orgID, routeID)
	if err != nil {
		return err
	}
	s, err := uc.repo.GetStop(ctx, r.ID, stopID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NotFound("Parada não encontrada nesta rota")
	}
	return uc.repo.RemoveStop(ctx, r.ID, stopID)
}

func (uc *RouteUseCase) get(ctx context.Context, orgID, id string) (*entity.Route, error) {
	r, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.NotFound("Rota não encontrada")
	}
	return r, nil
}
