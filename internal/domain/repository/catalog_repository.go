package repository

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// CatalogRepository puerto común de los catálogos (datos de referencia por organización).
// GetByID devuelve (nil, nil) si la entidad no existe o pertenece a otra organización.
// Deactivate es un borrado lógico (is_active = false).
type CatalogRepository[T any] interface {
	Create(ctx context.Context, e *T) error
	GetByID(ctx context.Context, orgID, id string) (*T, error)
	// List devuelve solo activos, ordenados por nombre.
	List(ctx context.Context, orgID string) ([]*T, error)
	Update(ctx context.Context, e *T) error
	Deactivate(ctx context.Context, orgID, id string) error
}

type (
	MaterialTypeRepository    = CatalogRepository[entity.MaterialType]
	CollectionPointRepository = CatalogRepository[entity.CollectionPoint]
	VehicleRepository         = CatalogRepository[entity.Vehicle]
	DestinationRepository     = CatalogRepository[entity.Destination]
	EmployeeRepository        = CatalogRepository[entity.Employee]
)

// RouteRepository rutas y sus paradas ordenadas. GetByID carga Stops (con Point) por orderIndex.
type RouteRepository interface {
	CatalogRepository[entity.Route]
	ListStops(ctx context.Context, routeID string) ([]entity.RouteStop, error)
	GetStop(ctx context.Context, routeID, stopID string) (*entity.RouteStop, error)
	GetStopByOrder(ctx context.Context, routeID string, orderIndex int) (*entity.RouteStop, error)
	AddStop(ctx context.Context, stop *entity.RouteStop) error
	// ReorderStops aplica stopID → orderIndex en una sola sentencia/transacción.
	ReorderStops(ctx context.Context, routeID string, order map[string]int) error
	RemoveStop(ctx context.Context, routeID, stopID string) error
}

// TeamRepository equipos y sus miembros. GetByID carga Members (con Employee).
type TeamRepository interface {
	CatalogRepository[entity.Team]
	GetMember(ctx context.Context, teamID, memberID string) (*entity.TeamMember, error)
	GetMemberByEmployee(ctx context.Context, teamID, employeeID string) (*entity.TeamMember, error)
	AddMember(ctx context.Context, m *entity.TeamMember) error
	RemoveMember(ctx context.Context, teamID, memberID string) error
}
