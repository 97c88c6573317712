package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/stock"
)

// StockHandler lotes y movimentações de estoque.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListLots godoc
// @Summary      Listar lotes de estoque
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        materialTypeId  query  string  false  "Filtro por material"
// @Param        hasStock        query  bool    false  "Solo lotes con saldo"
// @Success      200             {object}  dto.SuccessResponse{data=[]dto.LotResponse}
// @Router       /api/stock/lots [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	var q dto.LotListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListLots(c.UserContext(), GetOrgID(c), q)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// CreateLot godoc
// @Summary      Crear lote manual (registra movimiento IN)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "materialTypeId, totalKg"
// @Success      201   {object}  dto.SuccessResponse{data=dto.LotResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/lots [post]
func (h *StockHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateLot(c.UserContext(), GetOrgID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// ListMovements godoc
// @Summary      Libro de movimentações
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        lotId  query  string  false  "Lote"
// @Param        type   query  string  false  "IN | OUT | ADJUST"
// @Param        from   query  string  false  "AAAA-MM-DD"
// @Param        to     query  string  false  "AAAA-MM-DD"
// @Success      200    {object}  dto.SuccessResponse{data=[]dto.MovementResponse}
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), GetOrgID(c), q)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// RecordMovement godoc
// @Summary      Registrar movimentação (IN / OUT / ADJUST)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "lotId, type, quantityKg"
// @Success      201   {object}  dto.SuccessResponse{data=dto.MovementResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RecordMovement(c.UserContext(), GetOrgID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

// Manifest godoc
// @Summary      MTR (XML) de una salida con destino
// @Tags         stock
// @Security     Bearer
// @Produce      xml
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {string}  string  "XML del manifiesto"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/manifest [get]
func (h *StockHandler) Manifest(c *fiber.Ctx) error {
	m, err := h.uc.BuildManifest(c.UserContext(), GetOrgID(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+m.Number+`.xml"`)
	c.Set("X-Manifest-Number", m.Number)
	c.Set("X-Manifest-Digest", m.Digest)
	return c.Send(m.XML)
}

// Summary godoc
// @Summary      Existencias por material
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=dto.StockSummaryResponse}
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetOrgID(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}
