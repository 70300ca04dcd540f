package hosting

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogAllRequestsMiddleware logs all requests
func LogAllRequestsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		if status >= 400 {
			slog.Error("HTTP request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
				"error", err,
			)
		} else {
			slog.Debug("HTTP request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
			)
		}

		return err
	}
}

// UserContextMiddleware reads the authenticated subject from the
// X-User-ID header into the request locals. Authentication itself
// happens upstream at the reverse proxy.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Get("X-User-ID"); id != "" {
			c.Locals("userID", id)
		}
		return c.Next()
	}
}
