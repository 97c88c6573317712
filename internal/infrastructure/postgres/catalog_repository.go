package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var (
	_ repository.MaterialTypeRepository    = (*CatalogRepo[entity.MaterialType])(nil)
	_ repository.CollectionPointRepository = (*CatalogRepo[entity.CollectionPoint])(nil)
	_ repository.VehicleRepository         = (*CatalogRepo[entity.Vehicle])(nil)
	_ repository.DestinationRepository     = (*CatalogRepo[entity.Destination])(nil)
	_ repository.EmployeeRepository        = (*CatalogRepo[entity.Employee])(nil)
)

// catalogTable describe una tabla de catálogo. columns empieza por id, org_id y termina en
// is_active, created_at, updated_at; values devuelve los valores en ese orden.
type catalogTable[T any] struct {
	name    string
	columns []string
	orderBy string
	dupMsg  string
	scan    func(pgx.Row) (*T, error)
	values  func(*T) []any
}

// CatalogRepo CRUD genérico de catálogos con borrado lógico.
type CatalogRepo[T any] struct {
	q Querier
	t catalogTable[T]
}

func (r *CatalogRepo[T]) selectBase() sq.SelectBuilder {
	return psql.Select(r.t.columns...).From(r.t.name)
}

// Create inserta la fila.
func (r *CatalogRepo[T]) Create(ctx context.Context, e *T) error {
	_, err := execute(ctx, r.q, psql.Insert(r.t.name).Columns(r.t.columns...).Values(r.t.values(e)...))
	return writeErr("insert "+r.t.name, err, r.t.dupMsg)
}

// GetByID (nil, nil) si no existe o es de otra organización.
func (r *CatalogRepo[T]) GetByID(ctx context.Context, orgID, id string) (*T, error) {
	v, err := getOne(ctx, r.q, r.selectBase().Where(sq.Eq{"id": id, "org_id": orgID}), r.t.scan)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.t.name, err)
	}
	return v, nil
}

// List activos de la organización.
func (r *CatalogRepo[T]) List(ctx context.Context, orgID string) ([]*T, error) {
	list, err := getMany(ctx, r.q, r.selectBase().Where(sq.Eq{"org_id": orgID, "is_active": true}).OrderBy(r.t.orderBy), r.t.scan)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.name, err)
	}
	return list, nil
}

// Update reescribe todas las columnas salvo id, org_id y created_at.
func (r *CatalogRepo[T]) Update(ctx context.Context, e *T) error {
	vals := r.t.values(e)
	set := sq.Eq{}
	for i, c := range r.t.columns {
		switch c {
		case "id", "org_id", "created_at":
			continue
		}
		set[c] = vals[i]
	}
	n, err := execute(ctx, r.q, psql.Update(r.t.name).SetMap(set).Where(sq.Eq{"id": vals[0], "org_id": vals[1]}))
	if err != nil {
		return writeErr("update "+r.t.name, err, r.t.dupMsg)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate borrado lógico.
func (r *CatalogRepo[T]) Deactivate(ctx context.Context, orgID, id string) error {
	n, err := execute(ctx, r.q, psql.Update(r.t.name).
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "org_id": orgID}))
	if err != nil {
		return fmt.Errorf("deactivate %s: %w", r.t.name, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var materialTypeCols = []string{
	"id", "org_id", "name", "category", "default_unit", "requires_sorting", "allows_contamination",
	"reference_price", "is_active", "created_at", "updated_at",
}

func scanMaterialType(row pgx.Row) (*entity.MaterialType, error) {
	var m entity.MaterialType
	err := row.Scan(&m.ID, &m.OrgID, &m.Name, &m.Category, &m.DefaultUnit, &m.RequiresSorting,
		&m.AllowsContamination, &m.ReferencePrice, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// NewMaterialTypeRepository tipos de material.
func NewMaterialTypeRepository(q Querier) *CatalogRepo[entity.MaterialType] {
	return &CatalogRepo[entity.MaterialType]{q: q, t: catalogTable[entity.MaterialType]{
		name:    "material_types",
		columns: materialTypeCols,
		orderBy: "name",
		dupMsg:  "Tipo de material já cadastrado",
		scan:    scanMaterialType,
		values: func(m *entity.MaterialType) []any {
			return []any{m.ID, m.OrgID, m.Name, m.Category, m.DefaultUnit, m.RequiresSorting,
				m.AllowsContamination, m.ReferencePrice, m.IsActive, m.CreatedAt, m.UpdatedAt}
		},
	}}
}

var pointCols = []string{
	"id", "org_id", "name", "address", "lat", "lng", "type", "contact", "phone", "notes",
	"is_active", "created_at", "updated_at",
}

func scanPoint(row pgx.Row) (*entity.CollectionPoint, error) {
	var p entity.CollectionPoint
	err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.Address, &p.Lat, &p.Lng, &p.Type, &p.Contact,
		&p.Phone, &p.Notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// NewCollectionPointRepository pontos de coleta.
func NewCollectionPointRepository(q Querier) *CatalogRepo[entity.CollectionPoint] {
	return &CatalogRepo[entity.CollectionPoint]{q: q, t: catalogTable[entity.CollectionPoint]{
		name:    "collection_points",
		columns: pointCols,
		orderBy: "name",
		dupMsg:  "Ponto de coleta já cadastrado",
		scan:    scanPoint,
		values: func(p *entity.CollectionPoint) []any {
			return []any{p.ID, p.OrgID, p.Name, p.Address, p.Lat, p.Lng, p.Type, p.Contact,
				p.Phone, p.Notes, p.IsActive, p.CreatedAt, p.UpdatedAt}
		},
	}}
}

var vehicleCols = []string{"id", "org_id", "plate", "model", "capacity_kg", "is_active", "created_at", "updated_at"}

func scanVehicle(row pgx.Row) (*entity.Vehicle, error) {
	var v entity.Vehicle
	if err := row.Scan(&v.ID, &v.OrgID, &v.Plate, &v.Model, &v.CapacityKg, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// NewVehicleRepository veículos; la placa es única por organización.
func NewVehicleRepository(q Querier) *CatalogRepo[entity.Vehicle] {
	return &CatalogRepo[entity.Vehicle]{q: q, t: catalogTable[entity.Vehicle]{
		name:    "vehicles",
		columns: vehicleCols,
		orderBy: "plate",
		dupMsg:  "Placa já cadastrada",
		scan:    scanVehicle,
		values: func(v *entity.Vehicle) []any {
			return []any{v.ID, v.OrgID, v.Plate, v.Model, v.CapacityKg, v.IsActive, v.CreatedAt, v.UpdatedAt}
		},
	}}
}

var destinationCols = []string{"id", "org_id", "name", "type", "address", "contact", "phone", "is_active", "created_at", "updated_at"}

func scanDestination(row pgx.Row) (*entity.Destination, error) {
	var d entity.Destination
	err := row.Scan(&d.ID, &d.OrgID, &d.Name, &d.Type, &d.Address, &d.Contact, &d.Phone,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// NewDestinationRepository destinos.
func NewDestinationRepository(q Querier) *CatalogRepo[entity.Destination] {
	return &CatalogRepo[entity.Destination]{q: q, t: catalogTable[entity.Destination]{
		name:    "destinations",
		columns: destinationCols,
		orderBy: "name",
		dupMsg:  "Destino já cadastrado",
		scan:    scanDestination,
		values: func(d *entity.Destination) []any {
			return []any{d.ID, d.OrgID, d.Name, d.Type, d.Address, d.Contact, d.Phone, d.IsActive, d.CreatedAt, d.UpdatedAt}
		},
	}}
}

var employeeCols = []string{"id", "org_id", "name", "cpf", "phone", "is_active", "created_at", "updated_at"}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	if err := row.Scan(&e.ID, &e.OrgID, &e.Name, &e.CPF, &e.Phone, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// NewEmployeeRepository funcionários.
func NewEmployeeRepository(q Querier) *CatalogRepo[entity.Employee] {
	return &CatalogRepo[entity.Employee]{q: q, t: catalogTable[entity.Employee]{
		name:    "employees",
		columns: employeeCols,
		orderBy: "name",
		dupMsg:  "Funcionário já cadastrado",
		scan:    scanEmployee,
		values: func(e *entity.Employee) []any {
			return []any{e.ID, e.OrgID, e.Name, e.CPF, e.Phone, e.IsActive, e.CreatedAt, e.UpdatedAt}
		},
	}}
}
