package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/pkg/logger"
)

// requestObserver lo implementa *metrics.Metrics.
type requestObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// RequestLogger log de acceso (método, ruta, status, latencia, organización, request id).
// Invoca el ErrorHandler de la app para registrar el status final; obs puede ser nil.
func RequestLogger(log *logger.Logger, obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		latency := time.Since(start)
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", latency).
			Str("org_id", GetOrgID(c)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("http")

		if obs != nil {
			obs.ObserveHTTP(c.Method(), c.Route().Path, status, latency)
		}
		return nil
	}
}
