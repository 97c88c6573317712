package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/scheduling"
)

// AssignmentHandler agenda de rotas.
type AssignmentHandler struct {
	uc *scheduling.UseCase
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(uc *scheduling.UseCase) *AssignmentHandler {
	return &AssignmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear agendamento
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssignmentRequest  true  "routeId, teamId, vehicleId, date, shift"
// @Success      201   {object}  dto.SuccessResponse{data=dto.AssignmentResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/assignments [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssignmentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateAssignment(c.UserContext(), GetOrgID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// List godoc
// @Summary      Listar agendamentos
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "AAAA-MM-DD"
// @Param        to    query  string  false  "AAAA-MM-DD"
// @Success      200   {object}  dto.SuccessResponse{data=[]dto.AssignmentResponse}
// @Router       /api/assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListAssignments(c.UserContext(), GetOrgID(c), q)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Detalle del agendamento con execuções
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SuccessResponse{data=dto.AssignmentResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [get]
func (h *AssignmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetAssignment(c.UserContext(), GetOrgID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Excluir agendamento sin execuções
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteAssignment(c.UserContext(), GetOrgID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, "Agendamento excluído")
}
