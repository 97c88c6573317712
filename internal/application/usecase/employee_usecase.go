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

// EmployeeUseCase casos de uso CRUD para funcionários.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

func (uc *EmployeeUseCase) Create(ctx context.Context, orgID string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	e := &entity.Employee{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		CPF:       in.CPF,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return dto.EmployeeFrom(e), nil
}

func (uc *EmployeeUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.EmployeeFrom(e), nil
}

func (uc *EmployeeUseCase) List(ctx context.Context, orgID string) ([]dto.EmployeeResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(e *entity.Employee, _ int) dto.EmployeeResponse { return *dto.EmployeeFrom(e) }), nil
}

func (uc *EmployeeUseCase) Update(ctx context.Context, orgID, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	e, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	e.Name, e.CPF, e.Phone = in.Name, in.CPF, in.Phone
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return dto.EmployeeFrom(e), nil
}

func (uc *EmployeeUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

func (uc *EmployeeUseCase) get(ctx context.Context, orgID, id string) (*entity.Employee, error) {
	e, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFound("Funcionário não encontrado")
	}
	return e, nil
}
