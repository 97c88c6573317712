package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/sorting"
	"github.com/jhoicas/coleta-api/internal/domain"
)

// SortingHandler lotes de triagem.
type SortingHandler struct {
	uc *sorting.UseCase
}

// NewSortingHandler construye el handler.
func NewSortingHandler(uc *sorting.UseCase) *SortingHandler {
	return &SortingHandler{uc: uc}
}

// List godoc
// @Summary      Listar lotes de triagem
// @Tags         sorting
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "open | closed"
// @Success      200     {object}  dto.SuccessResponse{data=[]dto.BatchResponse}
// @Router       /api/sorting-batches [get]
func (h *SortingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListBatches(c.UserContext(), GetOrgID(c), c.Query("status"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

func (h *SortingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetBatch(c.UserContext(), GetOrgID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Abrir lote de triagem de una execução concluida
// @Tags         sorting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "runId, notes"
// @Success      201   {object}  dto.SuccessResponse{data=dto.BatchResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sorting-batches [post]
func (h *SortingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateBatch(c.UserContext(), GetOrgID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// AddItem godoc
// @Summary      Agregar ítem triado
// @Tags         sorting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del lote"
// @Param        body  body  dto.AddSortedItemRequest  true  "materialTypeId, weightKg, qualityGrade"
// @Success      201   {object}  dto.SuccessResponse{data=dto.SortedItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sorting-batches/{id}/items [post]
func (h *SortingHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddSortedItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddItem(c.UserContext(), GetOrgID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// RemoveItem godoc
// @Summary      Quitar ítem triado
// @Tags         sorting
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID del lote"
// @Param        itemId  query  string  true  "ID del ítem"
// @Success      200     {object}  dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/sorting-batches/{id}/items [delete]
func (h *SortingHandler) RemoveItem(c *fiber.Ctx) error {
	itemID := c.Query("itemId")
	if itemID == "" {
		return domain.Invalid("itemId é obrigatório")
	}
	if err := h.uc.RemoveItem(c.UserContext(), GetOrgID(c), c.Params("id"), itemID); err != nil {
		return err
	}
	return message(c, "Item removido")
}

// Close godoc
// @Summary      Cerrar lote y generar lotes de estoque
// @Tags         sorting
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.SuccessResponse{data=dto.BatchResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sorting-batches/{id}/close [post]
func (h *SortingHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.CloseBatch(c.UserContext(), GetOrgID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}
