package middleware

import (
	"parkwise-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler converts errors that escape the handlers into the standard
// error envelope. Handler-level mapping of domain errors happens before this;
// anything landing here is a routing error or an unexpected failure.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("trace_id", GetTraceID(c)).
			Str("path", c.Path()).
			Msg("unhandled error")
	}

	return response.Error(c, message, code, map[string]interface{}{})
}
