package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/database"
	"github.com/scholarsknowledge/api/utils/response"
)

// HandleCheckHealth reports liveness plus database connectivity.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":     false,
			"error":  "database unreachable",
			"status": "degraded",
		})
	}
	return response.OK(c, fiber.Map{"status": "ok"})
}
