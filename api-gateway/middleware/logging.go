package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tair/eco-catalog/pkg/logger"
)

// Logging writes one structured line per request once the response is known.
// The level follows the status: 5xx error, 4xx warn, otherwise info.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Render now so the logged status matches what the client gets.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				c.Status(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ctx := logger.ContextWithRequestID(c.UserContext(), c.GetRespHeader(fiber.HeaderXRequestID))
		log := logger.WithContext(ctx)

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}
		if err != nil {
			event = event.Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("response_size", len(c.Response().Body())).
			Msg("Gateway request completed")
		return nil
	}
}
