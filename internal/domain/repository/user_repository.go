package repository

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// OrganizationRepository puerto de persistencia para Organization (tenant).
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Organization, error)
}

// UserRepository puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail búsqueda global: el email es único entre organizaciones.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByOrg(ctx context.Context, orgID string) ([]*entity.User, error)
}
