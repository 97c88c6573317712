package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/usecase"
)

// RouteHandler paradas de una rota (el CRUD de la rota va por CatalogHandler).
type RouteHandler struct {
	uc *usecase.RouteUseCase
}

// NewRouteHandler construye el handler.
func NewRouteHandler(uc *usecase.RouteUseCase) *RouteHandler {
	return &RouteHandler{uc: uc}
}

// ListStops godoc
// @Summary      Paradas de la rota ordenadas
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la rota"
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.RouteStopResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/stops [get]
func (h *RouteHandler) ListStops(c *fiber.Ctx) error {
	out, err := h.uc.ListStops(c.UserContext(), GetOrgID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// AddStop godoc
// @Summary      Agregar parada
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la rota"
// @Param        body  body  dto.AddRouteStopRequest  true  "pointId, orderIndex"
// @Success      201   {object}  dto.SuccessResponse{data=dto.RouteStopResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/stops [post]
func (h *RouteHandler) AddStop(c *fiber.Ctx) error {
	var in dto.AddRouteStopRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddStop(c.UserContext(), GetOrgID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// ReorderStops godoc
// @Summary      Reordenar paradas
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la rota"
// @Param        body  body  dto.ReorderStopsRequest  true  "nuevos orderIndex"
// @Success      200   {object}  dto.SuccessResponse{data=[]dto.RouteStopResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/stops [put]
func (h *RouteHandler) ReorderStops(c *fiber.Ctx) error {
	var in dto.ReorderStopsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ReorderStops(c.UserContext(), GetOrgID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// RemoveStop godoc
// @Summary      Quitar parada
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la rota"
// @Param        stopId  path  string  true  "ID de la parada"
// @Success      200     {object}  dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/stops/{stopId} [delete]
func (h *RouteHandler) RemoveStop(c *fiber.Ctx) error {
	if err := h.uc.RemoveStop(c.UserContext(), GetOrgID(c), c.Params("id"), c.Params("stopId")); err != nil {
		return err
	}
	return message(c, "Parada removida")
}
