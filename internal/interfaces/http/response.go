package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
)

// ok responde 200 con {success:true, data}.
func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.SuccessResponse{Success: true, Data: data})
}

// created responde 201 con {success:true, data}.
func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: data})
}

func message(c *fiber.Ctx, msg string) error {
	return ok(c, dto.MessageResponse{Message: msg})
}

// parseBody decodifica el JSON. Un cuerpo vacío deja in con sus valores cero.
func parseBody(c *fiber.Ctx, in any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(in); err != nil {
		return domain.Invalid("Corpo da requisição inválido")
	}
	return nil
}

func parseQuery(c *fiber.Ctx, q any) error {
	if err := c.QueryParser(q); err != nil {
		return domain.Invalid("Parâmetros de consulta inválidos")
	}
	return nil
}
