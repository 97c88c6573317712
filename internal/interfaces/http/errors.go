package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/pkg/logger"
)

// ErrorHandler traduce los errores devueltos por los handlers al envoltorio {success:false, error, code}.
// Los 500 se registran y el mensaje interno no se expone.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := classify(err)
		msg := domain.Message(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
				Msg("erro interno")
			msg = "Erro interno do servidor"
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
	}
}

// classify status HTTP y código según la categoría del error.
func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusBadRequest, "BUSINESS_RULE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, "DUPLICATE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.As(err, &fe):
		return fe.Code, "HTTP_" + httpCode(fe.Code)
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func httpCode(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "ERROR"
	}
}
