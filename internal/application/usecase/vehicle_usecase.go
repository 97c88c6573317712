package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

// VehicleUseCase casos de uso CRUD para vehículos. La placa es única por organización.
type VehicleUseCase struct {
	repo repository.VehicleRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo}
}

// Create crea un vehículo. La placa se guarda en mayúsculas.
func (uc *VehicleUseCase) Create(ctx context.Context, orgID string, in dto.VehicleRequest) (*dto.VehicleResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.CapacityKg != nil && !in.CapacityKg.IsPositive() {
		return nil, domain.Invalid("capacityKg deve ser positivo")
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:         uuid.New().String(),
		OrgID:      orgID,
		Plate:      strings.ToUpper(strings.TrimSpace(in.Plate)),
		Model:      in.Model,
		CapacityKg: in.CapacityKg,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return dto.VehicleFrom(v), nil
}

// GetByID obtiene un vehículo.
func (uc *VehicleUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.VehicleResponse, error) {
	v, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.VehicleFrom(v), nil
}

// List vehículos activos.
func (uc *VehicleUseCase) List(ctx context.Context, orgID string) ([]dto.VehicleResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(v *entity.Vehicle, _ int) dto.VehicleResponse { return *dto.VehicleFrom(v) }), nil
}

// Update actualiza placa, modelo y capacidad.
func (uc *VehicleUseCase) Update(ctx context.Context, orgID, id string, in dto.VehicleRequest) (*dto.VehicleResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	v, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	v.Plate = strings.ToUpper(strings.TrimSpace(in.Plate))
	v.Model = in.Model
	v.CapacityKg = in.CapacityKg
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return dto.VehicleFrom(v), nil
}

// Delete desactiva el vehículo.
func (uc *VehicleUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

func (uc *VehicleUseCase) get(ctx context.Context, orgID, id string) (*entity.Vehicle, error) {
	v, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("Veículo não encontrado")
	}
	return v, nil
}
