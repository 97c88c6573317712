package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

var userCols = []string{
	"id", "org_id", "email", "password_hash", "name", "role", "is_active", "employee_id", "created_at", "updated_at",
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.OrgID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive,
		&u.EmployeeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. Email repetido → ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := execute(ctx, r.q, psql.Insert("users").Columns(userCols...).Values(
		u.ID, u.OrgID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.EmployeeID, u.CreatedAt, u.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.Error{Kind: domain.ErrDuplicate, Msg: "Email já cadastrado"}
		}
		return writeErr("insert user", err, "")
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := getOne(ctx, r.q, psql.Select(userCols...).From("users").Where(sq.Eq{"id": id}), scanUser)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (cualquier organización).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := getOne(ctx, r.q, psql.Select(userCols...).From("users").Where(sq.Eq{"email": email}), scanUser)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListByOrg usuarios de la organización por nombre.
func (r *UserRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.User, error) {
	list, err := getMany(ctx, r.q, psql.Select(userCols...).From("users").Where(sq.Eq{"org_id": orgID}).OrderBy("name"), scanUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// OrganizationRepo tenants.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

var orgCols = []string{"id", "name", "slug", "created_at", "updated_at"}

func scanOrg(row pgx.Row) (*entity.Organization, error) {
	var o entity.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la organización; slug único.
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	_, err := execute(ctx, r.q, psql.Insert("organizations").Columns(orgCols...).
		Values(o.ID, o.Name, o.Slug, o.CreatedAt, o.UpdatedAt))
	return writeErr("insert organization", err, "Organização já cadastrada")
}

// GetByID organización por id.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	o, err := getOne(ctx, r.q, psql.Select(orgCols...).From("organizations").Where(sq.Eq{"id": id}), scanOrg)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

// GetBySlug organización por slug.
func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	o, err := getOne(ctx, r.q, psql.Select(orgCols...).From("organizations").Where(sq.Eq{"slug": slug}), scanOrg)
	if err != nil {
		return nil, fmt.Errorf("get organization by slug: %w", err)
	}
	return o, nil
}
