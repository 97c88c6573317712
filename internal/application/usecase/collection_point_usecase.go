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

// CollectionPointUseCase casos de uso CRUD para puntos de coleta.
type CollectionPointUseCase struct {
	repo repository.CollectionPointRepository
}

// NewCollectionPointUseCase construye el caso de uso.
func NewCollectionPointUseCase(repo repository.CollectionPointRepository) *CollectionPointUseCase {
	return &CollectionPointUseCase{repo: repo}
}

// Create crea un punto de coleta.
func (uc *CollectionPointUseCase) Create(ctx context.Context, orgID string, in dto.CollectionPointRequest) (*dto.CollectionPointResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.CollectionPoint{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPoint(p, in)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return dto.CollectionPointFrom(p), nil
}

// GetByID obtiene un punto de coleta.
func (uc *CollectionPointUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.CollectionPointResponse, error) {
	p, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.CollectionPointFrom(p), nil
}

// List puntos activos.
func (uc *CollectionPointUseCase) List(ctx context.Context, orgID string) ([]dto.CollectionPointResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(p *entity.CollectionPoint, _ int) dto.CollectionPointResponse { return *dto.CollectionPointFrom(p) }), nil
}

// Update reemplaza los datos del punto.
func (uc *CollectionPointUseCase) Update(ctx context.Context, orgID, id string, in dto.CollectionPointRequest) (*dto.CollectionPointResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	applyPoint(p, in)
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.CollectionPointFrom(p), nil
}

// Delete desactiva el punto.
func (uc *CollectionPointUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

func (uc *CollectionPointUseCase) get(ctx context.Context, orgID, id string) (*entity.CollectionPoint, error) {
	p, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("Ponto de coleta não encontrado")
	}
	return p, nil
}

func applyPoint(p *entity.CollectionPoint, in dto.CollectionPointRequest) {
	p.Name = in.Name
	p.Address = in.Address
	p.Lat = in.Lat
	p.Lng = in.Lng
	p.Type = in.Type
	p.Contact = in.Contact
	p.Phone = in.Phone
	p.Notes = in.Notes
}
