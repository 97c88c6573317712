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

// MaterialTypeUseCase casos de uso CRUD para tipos de material.
type MaterialTypeUseCase struct {
	repo repository.MaterialTypeRepository
}

// NewMaterialTypeUseCase construye el caso de uso.
func NewMaterialTypeUseCase(repo repository.MaterialTypeRepository) *MaterialTypeUseCase {
	return &MaterialTypeUseCase{repo: repo}
}

// Create crea un tipo de material. Unidad por defecto "kg".
func (uc *MaterialTypeUseCase) Create(ctx context.Context, orgID string, in dto.MaterialTypeRequest) (*dto.MaterialTypeResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.MaterialType{
		ID:                  uuid.New().String(),
		OrgID:               orgID,
		Name:                in.Name,
		Category:            in.Category,
		DefaultUnit:         lo.CoalesceOrEmpty(in.DefaultUnit, "kg"),
		RequiresSorting:     lo.FromPtrOr(in.RequiresSorting, true),
		AllowsContamination: lo.FromPtrOr(in.AllowsContamination, false),
		ReferencePrice:      in.ReferencePrice,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return dto.MaterialTypeFrom(m), nil
}

// GetByID obtiene un tipo de material de la organización.
func (uc *MaterialTypeUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.MaterialTypeResponse, error) {
	m, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.MaterialTypeFrom(m), nil
}

// List tipos de material activos.
func (uc *MaterialTypeUseCase) List(ctx context.Context, orgID string) ([]dto.MaterialTypeResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(m *entity.MaterialType, _ int) dto.MaterialTypeResponse { return *dto.MaterialTypeFrom(m) }), nil
}

// Update actualiza un tipo de material. Los campos opcionales nil no se modifican.
func (uc *MaterialTypeUseCase) Update(ctx context.Context, orgID, id string, in dto.MaterialTypeRequest) (*dto.MaterialTypeResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	m, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	m.Name = in.Name
	if in.Category != nil {
		m.Category = in.Category
	}
	if in.DefaultUnit != "" {
		m.DefaultUnit = in.DefaultUnit
	}
	if in.RequiresSorting != nil {
		m.RequiresSorting = *in.RequiresSorting
	}
	if in.AllowsContamination != nil {
		m.AllowsContamination = *in.AllowsContamination
	}
	if in.ReferencePrice != nil {
		m.ReferencePrice = in.ReferencePrice
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return dto.MaterialTypeFrom(m), nil
}

// Delete desactiva el tipo de material.
func (uc *MaterialTypeUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

func (uc *MaterialTypeUseCase) get(ctx context.Context, orgID, id string) (*entity.MaterialType, error) {
	m, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("Tipo de material não encontrado")
	}
	return m, nil
}
