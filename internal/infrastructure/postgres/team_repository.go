package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var _ repository.TeamRepository = (*TeamRepo)(nil)

// TeamRepo equipes y team_members.
type TeamRepo struct {
	*CatalogRepo[entity.Team]
}

var teamCols = []string{"id", "org_id", "name", "is_active", "created_at", "updated_at"}

func scanTeam(row pgx.Row) (*entity.Team, error) {
	var t entity.Team
	if err := row.Scan(&t.ID, &t.OrgID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// NewTeamRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{CatalogRepo: &CatalogRepo[entity.Team]{q: q, t: catalogTable[entity.Team]{
		name:    "teams",
		columns: teamCols,
		orderBy: "name",
		dupMsg:  "Equipe já cadastrada",
		scan:    scanTeam,
		values: func(t *entity.Team) []any {
			return []any{t.ID, t.OrgID, t.Name, t.IsActive, t.CreatedAt, t.UpdatedAt}
		},
	}}}
}

// GetByID carga la equipe con sus miembros.
func (r *TeamRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Team, error) {
	t, err := r.CatalogRepo.GetByID(ctx, orgID, id)
	if err != nil || t == nil {
		return t, err
	}
	t.Members, err = getValues(ctx, r.q, memberSelect().Where(sq.Eq{"m.team_id": t.ID}).OrderBy("e.name"), scanMember)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return t, nil
}

var memberCols = []string{"id", "team_id", "employee_id", "role", "created_at"}

func memberSelect() sq.SelectBuilder {
	return psql.Select(append(prefixed("m", memberCols), prefixed("e", employeeCols)...)...).
		From("team_members m").
		Join("employees e ON e.id = m.employee_id")
}

func scanMember(row pgx.Row) (*entity.TeamMember, error) {
	var m entity.TeamMember
	var e entity.Employee
	err := row.Scan(&m.ID, &m.TeamID, &m.EmployeeID, &m.Role, &m.CreatedAt,
		&e.ID, &e.OrgID, &e.Name, &e.CPF, &e.Phone, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Employee = &e
	return &m, nil
}

// GetMember miembro de la equipe.
func (r *TeamRepo) GetMember(ctx context.Context, teamID, memberID string) (*entity.TeamMember, error) {
	m, err := getOne(ctx, r.q, memberSelect().Where(sq.Eq{"m.team_id": teamID, "m.id": memberID}), scanMember)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// GetMemberByEmployee miembro por funcionário.
func (r *TeamRepo) GetMemberByEmployee(ctx context.Context, teamID, employeeID string) (*entity.TeamMember, error) {
	m, err := getOne(ctx, r.q, memberSelect().Where(sq.Eq{"m.team_id": teamID, "m.employee_id": employeeID}), scanMember)
	if err != nil {
		return nil, fmt.Errorf("get member by employee: %w", err)
	}
	return m, nil
}

// AddMember inserta el miembro; (team_id, employee_id) es único.
func (r *TeamRepo) AddMember(ctx context.Context, m *entity.TeamMember) error {
	_, err := execute(ctx, r.q, psql.Insert("team_members").Columns(memberCols...).
		Values(m.ID, m.TeamID, m.EmployeeID, m.Role, m.CreatedAt))
	return writeErr("insert member", err, "Funcionário já faz parte desta equipe")
}

// RemoveMember borra el miembro.
func (r *TeamRepo) RemoveMember(ctx context.Context, teamID, memberID string) error {
	_, err := execute(ctx, r.q, psql.Delete("team_members").Where(sq.Eq{"id": memberID, "team_id": teamID}))
	return writeErr("delete member", err, "")
}
