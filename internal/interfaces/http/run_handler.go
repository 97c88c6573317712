package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/operations"
)

// RunHandler ejecución de coleta en campo.
type RunHandler struct {
	uc *operations.UseCase
}

// NewRunHandler construye el handler.
func NewRunHandler(uc *operations.UseCase) *RunHandler {
	return &RunHandler{uc: uc}
}

// List godoc
// @Summary      Listar execuções
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "EM_ANDAMENTO | CONCLUIDO"
// @Param        from    query  string  false  "AAAA-MM-DD"
// @Param        to      query  string  false  "AAAA-MM-DD"
// @Success      200     {object}  dto.SuccessResponse{data=[]dto.RunResponse}
// @Router       /api/runs [get]
func (h *RunHandler) List(c *fiber.Ctx) error {
	var q dto.RunListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListRuns(c.UserContext(), GetOrgID(c), q)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Execução con eventos e ítems
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Param        runId  path  string  true  "ID"
// @Success      200    {object}  dto.SuccessResponse{data=dto.RunResponse}
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/runs/{runId} [get]
func (h *RunHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetRun(c.UserContext(), GetOrgID(c), c.Params("runId"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

func (h *RunHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRunRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateRunNotes(c.UserContext(), GetOrgID(c), c.Params("runId"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Start godoc
// @Summary      Iniciar execução
// @Tags         runs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartRunRequest  true  "assignmentId"
// @Success      201   {object}  dto.SuccessResponse{data=dto.RunResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/runs/start [post]
func (h *RunHandler) Start(c *fiber.Ctx) error {
	var in dto.StartRunRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.StartRun(c.UserContext(), GetOrgID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Arrive godoc
// @Summary      Llegada a la parada
// @Tags         runs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        runId   path  string            true  "ID de la execução"
// @Param        stopId  path  string            true  "ID de la parada"
// @Param        body    body  dto.ArriveRequest  false  "lat, lng"
// @Success      200     {object}  dto.SuccessResponse{data=dto.EventResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/runs/{runId}/stop/{stopId}/arrive [post]
func (h *RunHandler) Arrive(c *fiber.Ctx) error {
	var in dto.ArriveRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Arrive(c.UserContext(), GetOrgID(c), c.Params("runId"), c.Params("stopId"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Collect godoc
// @Summary      Registrar ítems recogidos (reemplaza la lista)
// @Tags         runs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        runId   path  string                    true  "ID de la execução"
// @Param        stopId  path  string                    true  "ID de la parada"
// @Param        body    body  dto.RegisterItemsRequest  true  "items, notes"
// @Success      200     {object}  dto.SuccessResponse{data=dto.EventResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/runs/{runId}/stop/{stopId}/collect [post]
func (h *RunHandler) Collect(c *fiber.Ctx) error {
	var in dto.RegisterItemsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterCollectedItems(c.UserContext(), GetOrgID(c), c.Params("runId"), c.Params("stopId"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Close godoc
// @Summary      Cerrar parada (COLETADO / NAO_COLETADO)
// @Tags         runs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        runId   path  string                true  "ID de la execução"
// @Param        stopId  path  string                true  "ID de la parada"
// @Param        body    body  dto.CloseStopRequest  true  "status, skipReason"
// @Success      200     {object}  dto.SuccessResponse{data=dto.EventResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/runs/{runId}/stop/{stopId}/close [post]
func (h *RunHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseStopRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CloseStop(c.UserContext(), GetOrgID(c), c.Params("runId"), c.Params("stopId"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Finish godoc
// @Summary      Finalizar execução
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Param        runId  path  string  true  "ID de la execução"
// @Success      200    {object}  dto.SuccessResponse{data=dto.RunResponse}
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/runs/{runId}/finish [post]
func (h *RunHandler) Finish(c *fiber.Ctx) error {
	out, err := h.uc.FinishRun(c.UserContext(), GetOrgID(c), GetUserID(c), c.Params("runId"))
	if err != nil {
		return err
	}
	return ok(c, out)
}
