package api

import (
	"github.com/gofiber/fiber/v2"
)

// respondError writes the uniform error envelope: a human-readable message
// plus an optional short detail string.
func respondError(c *fiber.Ctx, status int, message, detail string) error {
	body := fiber.Map{"message": message}
	if detail != "" {
		body["error"] = detail
	}
	return c.Status(status).JSON(body)
}
