package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/auth"
	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
	"github.com/jhoicas/coleta-api/internal/application/reports"
	"github.com/jhoicas/coleta-api/internal/application/scheduling"
	"github.com/jhoicas/coleta-api/internal/application/sorting"
	"github.com/jhoicas/coleta-api/internal/application/stock"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/infrastructure/manifest"
	apphttp "github.com/jhoicas/coleta-api/internal/interfaces/http"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/coleta-api/pkg/jwt"
	"github.com/jhoicas/coleta-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre memstore
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app    *fiber.App
	store  *memstore.Store
	fx     *memstore.Fixture
	authUC *auth.AuthUseCase
}

func newTestAPI(t *testing.T, stops int) *testAPI {
	t.Helper()
	s := memstore.New()
	fx := s.Seed(stops)
	log := logger.Nop()
	tx := memstore.NewTxRunner(s)

	authUC := auth.NewAuthUseCase(s.Users(), s.Organizations(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	})
	deps := apphttp.RouterDeps{
		AuthUC:            authUC,
		UserUC:            usecase.NewUserUseCase(s.Users()),
		MaterialTypeUC:    usecase.NewMaterialTypeUseCase(s.MaterialTypes()),
		CollectionPointUC: usecase.NewCollectionPointUseCase(s.CollectionPoints()),
		VehicleUC:         usecase.NewVehicleUseCase(s.Vehicles()),
		DestinationUC:     usecase.NewDestinationUseCase(s.Destinations()),
		EmployeeUC:        usecase.NewEmployeeUseCase(s.Employees()),
		TeamUC:            usecase.NewTeamUseCase(s.Teams(), s.Employees()),
		RouteUC:           usecase.NewRouteUseCase(s.Routes(), s.CollectionPoints()),
		SchedulingUC:      scheduling.NewUseCase(s.Assignments(), s.Routes(), s.Teams(), s.Vehicles(), s.Runs(), log),
		OperationsUC: operations.NewUseCase(operations.Deps{
			Tx: tx, Runs: s.Runs(), Events: s.Events(), Items: s.CollectedItems(),
			Routes: s.Routes(), Materials: s.MaterialTypes(), Log: log,
		}),
		SortingUC: sorting.NewUseCase(sorting.Deps{
			Tx: tx, Batches: s.SortingBatches(), Lots: s.StockLots(), Materials: s.MaterialTypes(), Log: log,
		}),
		StockUC: stock.NewUseCase(stock.Deps{
			Tx: tx, Lots: s.StockLots(), Movements: s.StockMovements(), Materials: s.MaterialTypes(),
			Destinations: s.Destinations(), Vehicles: s.Vehicles(), Organizations: s.Organizations(),
			Manifests: manifest.NewBuilder(), Log: log,
		}),
		ReportsUC: reports.NewUseCase(s.Reports(), s.StockLots(), s.StockMovements(), s.Organizations(), nil),
		JWTSecret: testJWTSecret,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, deps)
	return &testAPI{app: app, store: s, fx: fx, authUC: authUC}
}

// token JWT del admin de la fixture con el rol indicado.
func (a *testAPI) token(t *testing.T, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, a.fx.Admin.ID, a.fx.Org.ID, string(role), testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func call[T any](t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope[T]) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope[T]
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), "respuesta no JSON: %s", raw)
	return resp.StatusCode, env
}

// ──────────────────────────────────────────────────────────────────────────────
// Envoltorios y status
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinSesionRetorna401(t *testing.T) {
	a := newTestAPI(t, 1)
	status, env := call[any](t, a.app, http.MethodGet, "/api/material-types", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestAPI_ListaConEnvoltorioDeExito(t *testing.T) {
	a := newTestAPI(t, 1)
	status, env := call[[]dto.MaterialTypeResponse](t, a.app, http.MethodGet, "/api/material-types", a.token(t, entity.RoleColetor), nil)

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Len(t, env.Data, 3)
}

func TestAPI_PermisoInsuficienteRetorna403(t *testing.T) {
	a := newTestAPI(t, 1)
	body := dto.MaterialTypeRequest{Name: "Vidro"}
	status, env := call[any](t, a.app, http.MethodPost, "/api/material-types", a.token(t, entity.RoleColetor), body)

	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)
	assert.Equal(t, "FORBIDDEN", env.Code)
}

func TestAPI_OtraOrganizacionRetorna404(t *testing.T) {
	a := newTestAPI(t, 1)
	other, err := pkgjwt.Generate(testJWTSecret, a.fx.Admin.ID, "11111111-1111-1111-1111-111111111111", "ADMIN", testIssuer, testExpMin)
	require.NoError(t, err)

	status, env := call[any](t, a.app, http.MethodGet, "/api/routes/"+a.fx.Route.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Rota não encontrada", env.Error)

	status, _ = call[any](t, a.app, http.MethodGet, "/api/routes/"+a.fx.Route.ID, a.token(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_ValidacionRetorna400(t *testing.T) {
	a := newTestAPI(t, 1)
	tok := a.token(t, entity.RoleGestorOperacao)

	status, env := call[any](t, a.app, http.MethodPost, "/api/assignments", tok, dto.CreateAssignmentRequest{
		RouteID: a.fx.Route.ID, TeamID: a.fx.Team.ID, VehicleID: a.fx.Vehicle.ID, Date: "10/05/2024",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/assignments", bytes.NewBufferString("{no-json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, created := call[dto.AssignmentResponse](t, a.app, http.MethodPost, "/api/assignments", tok, dto.CreateAssignmentRequest{
		RouteID: a.fx.Route.ID, TeamID: a.fx.Team.ID, VehicleID: a.fx.Vehicle.ID, Date: "2024-05-10",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "2024-05-10", created.Data.Date)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_LoginYMe(t *testing.T) {
	a := newTestAPI(t, 1)
	_, err := a.authUC.RegisterUser(t.Context(), auth.RegisterInput{
		OrgID: a.fx.Org.ID, Email: "almox@coleta.test", Password: "segredo123", Name: "Almoxarife", Role: entity.RoleAlmoxarife,
	})
	require.NoError(t, err)

	status, env := call[any](t, a.app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "almox@coleta.test", Password: "errada123"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Credenciais inválidas", env.Error)

	status, login := call[dto.LoginResponse](t, a.app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ALMOX@coleta.test", Password: "segredo123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ALMOXARIFE", login.Data.User.Role)

	status, me := call[dto.MeResponse](t, a.app, http.MethodGet, "/api/me", login.Data.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, a.fx.Org.ID, me.Data.Organization.ID)
	assert.Contains(t, me.Data.Permissions, "stock:movement")
	assert.NotContains(t, me.Data.Permissions, "runs:execute")
}

func TestAPI_CrearUsuarioEnLaOrganizacionDeLaSesion(t *testing.T) {
	a := newTestAPI(t, 1)
	body := dto.CreateUserRequest{Email: "coletor@coleta.test", Password: "segredo123", Name: "Coletor", Role: "COLETOR"}

	status, _ := call[any](t, a.app, http.MethodPost, "/api/users", a.token(t, entity.RoleSupervisor), body)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := call[dto.UserResponse](t, a.app, http.MethodPost, "/api/users", a.token(t, entity.RoleAdmin), body)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, a.fx.Org.ID, env.Data.OrgID)
	assert.Equal(t, "COLETOR", env.Data.Role)

	status, dup := call[any](t, a.app, http.MethodPost, "/api/users", a.token(t, entity.RoleAdmin), body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "DUPLICATE", dup.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: coleta → triagem → estoque → relatório
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoCompleto(t *testing.T) {
	a := newTestAPI(t, 2)
	coletor := a.token(t, entity.RoleColetor)
	pet := a.fx.Materials[0].ID

	// Execução
	status, run := call[dto.RunResponse](t, a.app, http.MethodPost, "/api/runs/start", coletor, dto.StartRunRequest{AssignmentID: a.fx.Assignment.ID})
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, run.Data.Events, 2)
	base := "/api/runs/" + run.Data.ID + "/stop/"
	stop0, stop1 := run.Data.Events[0].StopID, run.Data.Events[1].StopID

	status, _ = call[any](t, a.app, http.MethodPost, "/api/runs/start", coletor, dto.StartRunRequest{AssignmentID: a.fx.Assignment.ID})
	assert.Equal(t, http.StatusBadRequest, status, "una sola execução en curso por agendamento")

	status, ev := call[dto.EventResponse](t, a.app, http.MethodPost, base+stop0+"/arrive", coletor, dto.ArriveRequest{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "EM_ANDAMENTO", ev.Data.Status)

	status, ev = call[dto.EventResponse](t, a.app, http.MethodPost, base+stop0+"/collect", coletor, dto.RegisterItemsRequest{
		Items: []dto.CollectedItemInput{{MaterialTypeID: pet, Quantity: decimal.NewFromInt(120)}},
	})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, ev.Data.Items, 1)

	status, ev = call[dto.EventResponse](t, a.app, http.MethodPost, base+stop0+"/close", coletor, dto.CloseStopRequest{Status: "COLETADO"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COLETADO", ev.Data.Status)

	status, _ = call[any](t, a.app, http.MethodPost, "/api/runs/"+run.Data.ID+"/finish", coletor, nil)
	assert.Equal(t, http.StatusBadRequest, status, "parada pendente impede finalizar")

	status, _ = call[dto.EventResponse](t, a.app, http.MethodPost, base+stop1+"/arrive", coletor, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = call[any](t, a.app, http.MethodPost, base+stop1+"/close", coletor, dto.CloseStopRequest{Status: "NAO_COLETADO"})
	assert.Equal(t, http.StatusBadRequest, status, "NAO_COLETADO exige skipReason")
	reason := "Portão fechado"
	status, _ = call[dto.EventResponse](t, a.app, http.MethodPost, base+stop1+"/close", coletor, dto.CloseStopRequest{Status: "NAO_COLETADO", SkipReason: &reason})
	require.Equal(t, http.StatusOK, status)

	status, finished := call[dto.RunResponse](t, a.app, http.MethodPost, "/api/runs/"+run.Data.ID+"/finish", coletor, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CONCLUIDO", finished.Data.Status)

	// Triagem
	triagem := a.token(t, entity.RoleTriagem)
	status, batch := call[dto.BatchResponse](t, a.app, http.MethodPost, "/api/sorting-batches", triagem, dto.CreateBatchRequest{RunID: run.Data.ID})
	require.Equal(t, http.StatusCreated, status)

	status, _ = call[dto.SortedItemResponse](t, a.app, http.MethodPost, "/api/sorting-batches/"+batch.Data.ID+"/items", triagem, dto.AddSortedItemRequest{
		MaterialTypeID: pet, WeightKg: decimal.NewFromInt(100), QualityGrade: "A",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = call[any](t, a.app, http.MethodPost, "/api/sorting-batches/"+batch.Data.ID+"/close", triagem, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, closed := call[dto.BatchResponse](t, a.app, http.MethodPost, "/api/sorting-batches/"+batch.Data.ID+"/close", a.token(t, entity.RoleSupervisor), nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, closed.Data.IsClosed)
	require.Len(t, closed.Data.StockLots, 1)
	lot := closed.Data.StockLots[0]
	assert.True(t, lot.AvailableKg.Equal(decimal.NewFromInt(100)))

	// Estoque
	almox := a.token(t, entity.RoleAlmoxarife)
	status, over := call[any](t, a.app, http.MethodPost, "/api/stock/movements", almox, dto.RecordMovementRequest{
		LotID: lot.ID, Type: "OUT", QuantityKg: decimal.NewFromInt(150),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", over.Code)

	dest := a.fx.Destination.ID
	status, out := call[dto.MovementResponse](t, a.app, http.MethodPost, "/api/stock/movements", almox, dto.RecordMovementRequest{
		LotID: lot.ID, Type: "OUT", QuantityKg: decimal.NewFromInt(40), DestinationID: &dest,
	})
	require.Equal(t, http.StatusCreated, status)

	req := httptest.NewRequest(http.MethodGet, "/api/stock/movements/"+out.Data.ID+"/manifest", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+almox)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	xmlBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "xml")
	assert.NotEmpty(t, resp.Header.Get("X-Manifest-Digest"))
	assert.Contains(t, string(xmlBody), "<MTR")

	status, summary := call[dto.StockSummaryResponse](t, a.app, http.MethodGet, "/api/stock/summary", almox, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, summary.Data.Totals.AvailableKg.Equal(decimal.NewFromInt(60)))

	// Relatório
	status, rep := call[dto.ReportSummaryResponse](t, a.app, http.MethodGet, "/api/reports/summary", a.token(t, entity.RoleVisualizador), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, rep.Data.Collection.TotalRuns)
	assert.Equal(t, 1, rep.Data.Collection.CompletedStops)
	assert.Equal(t, 1, rep.Data.Collection.SkippedStops)
	assert.Equal(t, 50, rep.Data.Collection.CompletionRate)
	assert.True(t, rep.Data.Collection.TotalCollectedKg.Equal(decimal.NewFromInt(120)))
	require.Len(t, rep.Data.SkipReasons, 1)
	assert.Equal(t, reason, rep.Data.SkipReasons[0].Reason)
}

func TestAPI_ReportePDFSinRendererRetorna400(t *testing.T) {
	a := newTestAPI(t, 1)
	status, env := call[any](t, a.app, http.MethodGet, "/api/reports/summary.pdf", a.token(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}
