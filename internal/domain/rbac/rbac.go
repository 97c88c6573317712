// Package rbac tabla fija rol → permisos. No es configurable en tiempo de ejecución.
package rbac

import (
	"sort"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// Permission acción autorizable con forma "<recurso>:<acción>".
type Permission string

const (
	DashboardView Permission = "dashboard:view"

	CollectionPointsCreate Permission = "collection-points:create"
	CollectionPointsRead   Permission = "collection-points:read"
	CollectionPointsUpdate Permission = "collection-points:update"
	CollectionPointsDelete Permission = "collection-points:delete"

	RoutesCreate Permission = "routes:create"
	RoutesRead   Permission = "routes:read"
	RoutesUpdate Permission = "routes:update"
	RoutesDelete Permission = "routes:delete"

	TeamsCreate Permission = "teams:create"
	TeamsRead   Permission = "teams:read"
	TeamsUpdate Permission = "teams:update"
	TeamsDelete Permission = "teams:delete"

	VehiclesCreate Permission = "vehicles:create"
	VehiclesRead   Permission = "vehicles:read"
	VehiclesUpdate Permission = "vehicles:update"
	VehiclesDelete Permission = "vehicles:delete"

	AssignmentsCreate Permission = "assignments:create"
	AssignmentsRead   Permission = "assignments:read"
	AssignmentsUpdate Permission = "assignments:update"
	AssignmentsDelete Permission = "assignments:delete"

	RunsCreate  Permission = "runs:create"
	RunsRead    Permission = "runs:read"
	RunsUpdate  Permission = "runs:update"
	RunsExecute Permission = "runs:execute"

	SortingCreate Permission = "sorting:create"
	SortingRead   Permission = "sorting:read"
	SortingUpdate Permission = "sorting:update"
	SortingClose  Permission = "sorting:close"

	StockCreate   Permission = "stock:create"
	StockRead     Permission = "stock:read"
	StockUpdate   Permission = "stock:update"
	StockMovement Permission = "stock:movement"

	DestinationsCreate Permission = "destinations:create"
	DestinationsRead   Permission = "destinations:read"
	DestinationsUpdate Permission = "destinations:update"
	DestinationsDelete Permission = "destinations:delete"

	MaterialTypesCreate Permission = "material-types:create"
	MaterialTypesRead   Permission = "material-types:read"
	MaterialTypesUpdate Permission = "material-types:update"
	MaterialTypesDelete Permission = "material-types:delete"

	UsersCreate Permission = "users:create"
	UsersRead   Permission = "users:read"
	UsersUpdate Permission = "users:update"
	UsersDelete Permission = "users:delete"

	EmployeesCreate Permission = "employees:create"
	EmployeesRead   Permission = "employees:read"
	EmployeesUpdate Permission = "employees:update"
	EmployeesDelete Permission = "employees:delete"

	ReportsView Permission = "reports:view"
)

type set map[Permission]struct{}

func newSet(perms ...Permission) set {
	s := make(set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// table no se expone; Permissions devuelve copias.
var table = map[entity.Role]set{
	entity.RoleAdmin: newSet(
		DashboardView,
		CollectionPointsCreate, CollectionPointsRead, CollectionPointsUpdate, CollectionPointsDelete,
		RoutesCreate, RoutesRead, RoutesUpdate, RoutesDelete,
		TeamsCreate, TeamsRead, TeamsUpdate, TeamsDelete,
		VehiclesCreate, VehiclesRead, VehiclesUpdate, VehiclesDelete,
		AssignmentsCreate, AssignmentsRead, AssignmentsUpdate, AssignmentsDelete,
		RunsCreate, RunsRead, RunsUpdate, RunsExecute,
		SortingCreate, SortingRead, SortingUpdate, SortingClose,
		StockCreate, StockRead, StockUpdate, StockMovement,
		DestinationsCreate, DestinationsRead, DestinationsUpdate, DestinationsDelete,
		MaterialTypesCreate, MaterialTypesRead, MaterialTypesUpdate, MaterialTypesDelete,
		UsersCreate, UsersRead, UsersUpdate, UsersDelete,
		EmployeesCreate, EmployeesRead, EmployeesUpdate, EmployeesDelete,
		ReportsView,
	),
	entity.RoleGestorOperacao: newSet(
		DashboardView,
		CollectionPointsCreate, CollectionPointsRead, CollectionPointsUpdate,
		RoutesCreate, RoutesRead, RoutesUpdate, RoutesDelete,
		TeamsCreate, TeamsRead, TeamsUpdate,
		VehiclesRead,
		AssignmentsCreate, AssignmentsRead, AssignmentsUpdate, AssignmentsDelete,
		RunsCreate, RunsRead, RunsUpdate,
		SortingRead,
		StockRead,
		DestinationsRead,
		MaterialTypesRead,
		EmployeesRead,
		ReportsView,
	),
	entity.RoleAlmoxarife: newSet(
		DashboardView,
		StockCreate, StockRead, StockUpdate, StockMovement,
		DestinationsRead,
		MaterialTypesRead,
		SortingRead,
		ReportsView,
	),
	entity.RoleSupervisor: newSet(
		DashboardView,
		CollectionPointsRead,
		RoutesRead,
		TeamsRead,
		VehiclesRead,
		AssignmentsRead,
		RunsRead, RunsUpdate,
		SortingRead, SortingUpdate, SortingClose,
		StockRead,
		DestinationsRead,
		MaterialTypesRead,
		ReportsView,
	),
	entity.RoleColetor: newSet(
		RunsRead, RunsExecute,
		MaterialTypesRead,
	),
	entity.RoleTriagem: newSet(
		DashboardView,
		RunsRead,
		SortingCreate, SortingRead, SortingUpdate,
		MaterialTypesRead,
	),
	entity.RoleVisualizador: newSet(
		DashboardView,
		CollectionPointsRead,
		RoutesRead,
		TeamsRead,
		VehiclesRead,
		AssignmentsRead,
		RunsRead,
		SortingRead,
		StockRead,
		DestinationsRead,
		MaterialTypesRead,
		ReportsView,
	),
}

// Allowed informa si el rol tiene el permiso. Un rol desconocido no tiene ninguno.
func Allowed(role entity.Role, perm Permission) bool {
	_, ok := table[role][perm]
	return ok
}

// Permissions lista ordenada de permisos del rol (vacía para roles desconocidos).
func Permissions(role entity.Role) []Permission {
	s := table[role]
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
