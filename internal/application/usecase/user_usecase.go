package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

// UserUseCase consulta de usuarios de la organización. El alta pasa por auth (hash de contraseña).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario de la organización.
func (uc *UserUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrgID != orgID {
		return nil, domain.ErrUserNotFound
	}
	return dto.UserFrom(user), nil
}

// List usuarios de la organización.
func (uc *UserUseCase) List(ctx context.Context, orgID string) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(u *entity.User, _ int) dto.UserResponse { return *dto.UserFrom(u) }), nil
}
