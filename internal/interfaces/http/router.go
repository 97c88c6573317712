package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/auth"
	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/reports"
	"github.com/jhoicas/coleta-api/internal/application/scheduling"
	"github.com/jhoicas/coleta-api/internal/application/sorting"
	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
	"github.com/jhoicas/coleta-api/internal/domain/rbac"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC            *auth.AuthUseCase
	UserUC            *usecase.UserUseCase
	MaterialTypeUC    *usecase.MaterialTypeUseCase
	CollectionPointUC *usecase.CollectionPointUseCase
	VehicleUC         *usecase.VehicleUseCase
	DestinationUC     *usecase.DestinationUseCase
	EmployeeUC        *usecase.EmployeeUseCase
	TeamUC            *usecase.TeamUseCase
	RouteUC           *usecase.RouteUseCase
	SchedulingUC      *scheduling.UseCase
	OperationsUC      *operations.UseCase
	SortingUC         *sorting.UseCase
	StockUC           *stock.UseCase
	ReportsUC         *reports.UseCase
	JWTSecret         string
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/me", authHandler.Me)

	users := protected.Group("/users")
	users.Get("/", RequirePermission(rbac.UsersRead), authHandler.ListUsers)
	users.Post("/", RequirePermission(rbac.UsersCreate), authHandler.CreateUser)
	users.Get("/:id", RequirePermission(rbac.UsersRead), authHandler.GetUser)

	// Catálogo
	mountCatalog[dto.MaterialTypeRequest, dto.MaterialTypeResponse](protected, "/material-types", catalogPerms{
		rbac.MaterialTypesRead, rbac.MaterialTypesCreate, rbac.MaterialTypesUpdate, rbac.MaterialTypesDelete,
	}, deps.MaterialTypeUC, "Tipo de material desativado")
	mountCatalog[dto.CollectionPointRequest, dto.CollectionPointResponse](protected, "/collection-points", catalogPerms{
		rbac.CollectionPointsRead, rbac.CollectionPointsCreate, rbac.CollectionPointsUpdate, rbac.CollectionPointsDelete,
	}, deps.CollectionPointUC, "Ponto de coleta desativado")
	mountCatalog[dto.VehicleRequest, dto.VehicleResponse](protected, "/vehicles", catalogPerms{
		rbac.VehiclesRead, rbac.VehiclesCreate, rbac.VehiclesUpdate, rbac.VehiclesDelete,
	}, deps.VehicleUC, "Veículo desativado")
	mountCatalog[dto.DestinationRequest, dto.DestinationResponse](protected, "/destinations", catalogPerms{
		rbac.DestinationsRead, rbac.DestinationsCreate, rbac.DestinationsUpdate, rbac.DestinationsDelete,
	}, deps.DestinationUC, "Destino desativado")
	mountCatalog[dto.EmployeeRequest, dto.EmployeeResponse](protected, "/employees", catalogPerms{
		rbac.EmployeesRead, rbac.EmployeesCreate, rbac.EmployeesUpdate, rbac.EmployeesDelete,
	}, deps.EmployeeUC, "Funcionário desativado")

	teams := mountCatalog[dto.TeamRequest, dto.TeamResponse](protected, "/teams", catalogPerms{
		rbac.TeamsRead, rbac.TeamsCreate, rbac.TeamsUpdate, rbac.TeamsDelete,
	}, deps.TeamUC, "Equipe desativada")
	teamHandler := NewTeamHandler(deps.TeamUC)
	teams.Post("/:id/members", RequirePermission(rbac.TeamsUpdate), teamHandler.AddMember)
	teams.Delete("/:id/members/:memberId", RequirePermission(rbac.TeamsUpdate), teamHandler.RemoveMember)

	routes := mountCatalog[dto.RouteRequest, dto.RouteResponse](protected, "/routes", catalogPerms{
		rbac.RoutesRead, rbac.RoutesCreate, rbac.RoutesUpdate, rbac.RoutesDelete,
	}, deps.RouteUC, "Rota desativada")
	routeHandler := NewRouteHandler(deps.RouteUC)
	routes.Get("/:id/stops", RequirePermission(rbac.RoutesRead), routeHandler.ListStops)
	routes.Post("/:id/stops", RequirePermission(rbac.RoutesUpdate), routeHandler.AddStop)
	routes.Put("/:id/stops", RequirePermission(rbac.RoutesUpdate), routeHandler.ReorderStops)
	routes.Delete("/:id/stops/:stopId", RequirePermission(rbac.RoutesUpdate), routeHandler.RemoveStop)

	// Agenda
	assignments := protected.Group("/assignments")
	assignmentHandler := NewAssignmentHandler(deps.SchedulingUC)
	assignments.Get("/", RequirePermission(rbac.AssignmentsRead), assignmentHandler.List)
	assignments.Post("/", RequirePermission(rbac.AssignmentsCreate), assignmentHandler.Create)
	assignments.Get("/:id", RequirePermission(rbac.AssignmentsRead), assignmentHandler.GetByID)
	assignments.Delete("/:id", RequirePermission(rbac.AssignmentsDelete), assignmentHandler.Delete)

	// Execução en campo
	runs := protected.Group("/runs")
	runHandler := NewRunHandler(deps.OperationsUC)
	runs.Get("/", RequirePermission(rbac.RunsRead), runHandler.List)
	runs.Post("/start", RequirePermission(rbac.RunsExecute), runHandler.Start)
	runs.Get("/:runId", RequirePermission(rbac.RunsRead), runHandler.GetByID)
	runs.Put("/:runId", RequirePermission(rbac.RunsUpdate), runHandler.Update)
	runs.Post("/:runId/stop/:stopId/arrive", RequirePermission(rbac.RunsExecute), runHandler.Arrive)
	runs.Post("/:runId/stop/:stopId/collect", RequirePermission(rbac.RunsExecute), runHandler.Collect)
	runs.Post("/:runId/stop/:stopId/close", RequirePermission(rbac.RunsExecute), runHandler.Close)
	runs.Post("/:runId/finish", RequirePermission(rbac.RunsExecute), runHandler.Finish)

	// Triagem
	batches := protected.Group("/sorting-batches")
	sortingHandler := NewSortingHandler(deps.SortingUC)
	batches.Get("/", RequirePermission(rbac.SortingRead), sortingHandler.List)
	batches.Post("/", RequirePermission(rbac.SortingCreate), sortingHandler.Create)
	batches.Get("/:id", RequirePermission(rbac.SortingRead), sortingHandler.GetByID)
	batches.Post("/:id/items", RequirePermission(rbac.SortingUpdate), sortingHandler.AddItem)
	batches.Delete("/:id/items", RequirePermission(rbac.SortingUpdate), sortingHandler.RemoveItem)
	batches.Post("/:id/close", RequirePermission(rbac.SortingClose), sortingHandler.Close)

	// Estoque
	st := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	st.Get("/lots", RequirePermission(rbac.StockRead), stockHandler.ListLots)
	st.Post("/lots", RequirePermission(rbac.StockCreate), stockHandler.CreateLot)
	st.Get("/movements", RequirePermission(rbac.StockRead), stockHandler.ListMovements)
	st.Post("/movements", RequirePermission(rbac.StockMovement), stockHandler.RecordMovement)
	st.Get("/movements/:id/manifest", RequirePermission(rbac.StockRead), stockHandler.Manifest)
	st.Get("/summary", RequirePermission(rbac.StockRead), stockHandler.Summary)

	// Relatórios
	rep := protected.Group("/reports", RequirePermission(rbac.ReportsView))
	reportHandler := NewReportHandler(deps.ReportsUC)
	rep.Get("/summary", reportHandler.Summary)
	rep.Get("/summary.pdf", reportHandler.SummaryPDF)
}
