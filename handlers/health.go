package handlers

import (
	"github.com/gofiber/fiber/v2"

	"iqroai/database"
)

// HealthCheck reports process and database liveness.
// GET /ping
func HealthCheck(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "down",
				"database": err.Error(),
			})
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "up",
			"database": "up",
		})
	}
}
