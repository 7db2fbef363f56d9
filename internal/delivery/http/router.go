package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/advisory", handler.GetAdvisory)
		api.Get("/forecast", handler.GetForecast)
		api.Post("/advisory/refresh", handler.RefreshForecast)
	}
}
