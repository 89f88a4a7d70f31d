package routes

import (
	"spock.link/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes wires global middleware and every route group.
func SetupRoutes(app *fiber.App, cfg *configs.Config) {
	// --- Global middleware ---
	app.Use(recoverMiddleware.New()) // panic recovery
	app.Use(logger.New())            // request logging
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendOrigin,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Accept",
	}))

	// Uploaded images are served back under /uploads.
	app.Static("/uploads", cfg.UploadDir)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to Spock Admin!!")
	})

	// --- Route groups ---
	registerAPIRoutes(app, cfg) // /v1 routes

	// --- 404 handler ---
	// Last, catches everything that did not match.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Resource not found",
		"error":   "Not found",
	})
}
