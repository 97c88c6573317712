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

// DestinationUseCase casos de uso CRUD para destinos del material.
type DestinationUseCase struct {
	repo repository.DestinationRepository
}

// NewDestinationUseCase construye el caso de uso.
func NewDestinationUseCase(repo repository.DestinationRepository) *DestinationUseCase {
	return &DestinationUseCase{repo: repo}
}

func (uc *DestinationUseCase) Create(ctx context.Context, orgID string, in dto.DestinationRequest) (*dto.DestinationResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	d := &entity.Destination{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		Type:      in.Type,
		Address:   in.Address,
		Contact:   in.Contact,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return dto.DestinationFrom(d), nil
}

func (uc *DestinationUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.DestinationResponse, error) {
	d, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.DestinationFrom(d), nil
}

func (uc *DestinationUseCase) List(ctx context.Context, orgID string) ([]dto.DestinationResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(d *entity.Destination, _ int) dto.DestinationResponse { return *dto.DestinationFrom(d) }), nil
}

func (uc *DestinationUseCase) Update(ctx context.Context, orgID, id string, in dto.DestinationRequest) (*dto.DestinationResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	d, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	d.Name, d.Type = in.Name, in.Type
	d.Address, d.Contact, d.Phone = in.Address, in.Contact, in.Phone
	d.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return dto.DestinationFrom(d), nil
}

func (uc *DestinationUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

func (uc *DestinationUseCase) get(ctx context.Context, orgID, id string) (*entity.Destination, error) {
	d, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("Destino não encontrado")
	}
	return d, nil
}
