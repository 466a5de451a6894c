package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/usercontext"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.Locals(usercontext.KeyRequestID),
		}
		if uid := usercontext.GetUserID(c); uid != "" {
			fields = append(fields, "user_id", uid)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("request failed", append(fields, "error", err)...)
		case status >= fiber.StatusBadRequest:
			log.Warnw("request rejected", fields...)
		default:
			log.Infow("request", fields...)
		}
		return err
	}
}
