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

// TeamUseCase equipes y su composición.
type TeamUseCase struct {
	repo      repository.TeamRepository
	employees repository.EmployeeRepository
}

// NewTeamUseCase construye el caso de uso.
func NewTeamUseCase(repo repository.TeamRepository, employees repository.EmployeeRepository) *TeamUseCase {
	return &TeamUseCase{repo: repo, employees: employees}
}

func (uc *TeamUseCase) Create(ctx context.Context, orgID string, in dto.TeamRequest) (*dto.TeamResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	t := &entity.Team{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return dto.TeamFrom(t), nil
}

// GetByID equipe con sus miembros.
func (uc *TeamUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.TeamResponse, error) {
	t, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return dto.TeamFrom(t), nil
}

func (uc *TeamUseCase) List(ctx context.Context, orgID string) ([]dto.TeamResponse, error) {
	list, err := uc.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(t *entity.Team, _ int) dto.TeamResponse { return *dto.TeamFrom(t) }), nil
}

func (uc *TeamUseCase) Update(ctx context.Context, orgID, id string, in dto.TeamRequest) (*dto.TeamResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t, err := uc.get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	t.Name = in.Name
	t.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return dto.TeamFrom(t), nil
}

func (uc *TeamUseCase) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uc.get(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, orgID, id)
}

// AddMember agrega un funcionário de la organización. Un funcionário aparece una sola vez por equipe.
func (uc *TeamUseCase) AddMember(ctx context.Context, orgID, teamID string, in dto.AddTeamMemberRequest) (*dto.TeamMemberResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	t, err := uc.get(ctx, orgID, teamID)
	if err != nil {
		return nil, err
	}
	emp, err := uc.employees.GetByID(ctx, orgID, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.NotFound("Funcionário não encontrado")
	}
	existing, err := uc.repo.GetMemberByEmployee(ctx, t.ID, emp.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("Funcionário já faz parte desta equipe")
	}
	m := &entity.TeamMember{
		ID:         uuid.New().String(),
		TeamID:     t.ID,
		EmployeeID: emp.ID,
		Role:       in.Role,
		Employee:   emp,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return dto.TeamMemberFrom(m), nil
}

// RemoveMember quita un miembro; debe pertenecer a la equipe indicada.
func (uc *TeamUseCase) RemoveMember(ctx context.Context, orgID, teamID, memberID string) error {
	if memberID == "" {
		return domain.Invalid("memberId é obrigatório")
	}
	t, err := uc.get(ctx, orgID, teamID)
	if err != nil {
		return err
	}
	m, err := uc.repo.GetMember(ctx, t.ID, memberID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.NotFound("Membro não encontrado nesta equipe")
	}
	return uc.repo.RemoveMember(ctx, t.ID, memberID)
}

func (uc *TeamUseCase) get(ctx context.Context, orgID, id string) (*entity.Team, error) {
	t, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("Equipe não encontrada")
	}
	return t, nil
}
