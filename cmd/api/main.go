// @title						Coleta API
// @version					1.0
// @description				Plataforma multi-organização de coleta seletiva: catálogo, agenda, execução, triagem, estoque e relatórios.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/docs"
	"github.com/jhoicas/coleta-api/internal/application/auth"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/ports"
	"github.com/jhoicas/coleta-api/internal/application/reports"
	"github.com/jhoicas/coleta-api/internal/application/scheduling"
	"github.com/jhoicas/coleta-api/internal/application/sorting"
	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
	"github.com/jhoicas/coleta-api/internal/infrastructure/manifest"
	"github.com/jhoicas/coleta-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/coleta-api/internal/infrastructure/pdf"
	"github.com/jhoicas/coleta-api/internal/infrastructure/postgres"
	"github.com/jhoicas/coleta-api/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/coleta-api/internal/interfaces/http"
	"github.com/jhoicas/coleta-api/pkg/config"
	"github.com/jhoicas/coleta-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Cantidades en JSON como números (100.5), no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.App.MigrationsAuto {
		m, err := postgres.NewMigrator(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		n, err := m.Up(ctx)
		_ = m.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Int("applied", n).Msg("migraciones aplicadas")
	}

	// Eventos del flujo operativo: sin RABBITMQ_URL se descartan.
	var publisher ports.EventPublisher = ports.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		pub, err := rabbitmq.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer pub.Close()
		publisher = pub
		log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("publicación de eventos habilitada")
	}
	mtr := metrics.New()

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	materialRepo := postgres.NewMaterialTypeRepository(pool)
	pointRepo := postgres.NewCollectionPointRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	destinationRepo := postgres.NewDestinationRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	runRepo := postgres.NewRunRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	itemRepo := postgres.NewCollectedItemRepository(pool)
	batchRepo := postgres.NewSortingBatchRepository(pool)
	lotRepo := postgres.NewStockLotRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, orgRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	schedulingUC := scheduling.NewUseCase(assignmentRepo, routeRepo, teamRepo, vehicleRepo, runRepo, log)
	operationsUC := operations.NewUseCase(operations.Deps{
		Tx:        txRunner,
		Runs:      runRepo,
		Events:    eventRepo,
		Items:     itemRepo,
		Routes:    routeRepo,
		Materials: materialRepo,
		Publisher: publisher,
		Metrics:   mtr,
		Log:       log,
	})
	sortingUC := sorting.NewUseCase(sorting.Deps{
		Tx:        txRunner,
		Batches:   batchRepo,
		Lots:      lotRepo,
		Materials: materialRepo,
		Publisher: publisher,
		Metrics:   mtr,
		Log:       log,
	})
	stockUC := stock.NewUseCase(stock.Deps{
		Tx:            txRunner,
		Lots:          lotRepo,
		Movements:     movementRepo,
		Materials:     materialRepo,
		Destinations:  destinationRepo,
		Vehicles:      vehicleRepo,
		Organizations: orgRepo,
		Manifests:     manifest.NewBuilder(),
		Publisher:     publisher,
		Metrics:       mtr,
		Log:           log,
	})
	// PDF: resumen operativo del período
	reportsUC := reports.NewUseCase(reportRepo, lotRepo, movementRepo, orgRepo, infrapdf.NewSummaryRenderer())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log, mtr))

	// Swagger UI en local: http://localhost:<port>/docs (requiere `make swagger`)
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Coleta API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(mtr.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:            authUC,
		UserUC:            usecase.NewUserUseCase(userRepo),
		MaterialTypeUC:    usecase.NewMaterialTypeUseCase(materialRepo),
		CollectionPointUC: usecase.NewCollectionPointUseCase(pointRepo),
		VehicleUC:         usecase.NewVehicleUseCase(vehicleRepo),
		DestinationUC:     usecase.NewDestinationUseCase(destinationRepo),
		EmployeeUC:        usecase.NewEmployeeUseCase(employeeRepo),
		TeamUC:            usecase.NewTeamUseCase(teamRepo, employeeRepo),
		RouteUC:           usecase.NewRouteUseCase(routeRepo, pointRepo),
		SchedulingUC:      schedulingUC,
		OperationsUC:      operationsUC,
		SortingUC:         sortingUC,
		StockUC:           stockUC,
		ReportsUC:         reportsUC,
		JWTSecret:         cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
