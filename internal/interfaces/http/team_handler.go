package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
)

// TeamHandler composición de equipes.
type TeamHandler struct {
	uc *usecase.TeamUseCase
}

func NewTeamHandler(uc *usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

// AddMember godoc
// @Summary      Agregar funcionário a la equipe
// @Tags         teams
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la equipe"
// @Param        body  body  dto.AddTeamMemberRequest  true  "employeeId, role"
// @Success      201   {object}  dto.SuccessResponse{data=dto.TeamMemberResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	var in dto.AddTeamMemberRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddMember(c.UserContext(), GetOrgID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// RemoveMember godoc
// @Summary      Quitar miembro
// @Tags         teams
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "ID de la equipe"
// @Param        memberId  path  string  true  "ID del miembro"
// @Success      200       {object}  dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/teams/{id}/members/{memberId} [delete]
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.uc.RemoveMember(c.UserContext(), GetOrgID(c), c.Params("id"), c.Params("memberId")); err != nil {
		return err
	}
	return message(c, "Membro removido da equipe")
}
