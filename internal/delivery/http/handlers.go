package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/melakago/backend/internal/domain"
	"github.com/melakago/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	advisorySvc *service.AdvisoryService
	forecastSrc *service.CachedForecastSource
	mlBridge    *service.MLBridge
	history     domain.HistoryRepository
	loc         *time.Location
}

// NewHandler creates a new handler
func NewHandler(
	advisorySvc *service.AdvisoryService,
	forecastSrc *service.CachedForecastSource,
	mlBridge *service.MLBridge,
	history domain.HistoryRepository,
	loc *time.Location,
) *Handler {
	return &Handler{
		advisorySvc: advisorySvc,
		forecastSrc: forecastSrc,
		mlBridge:    mlBridge,
		history:     history,
		loc:         loc,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.Context()

	historyStatus := "ok"
	if err := h.history.Health(ctx); err != nil {
		historyStatus = err.Error()
	}

	modelStatus := "ok"
	if err := h.mlBridge.Health(ctx); err != nil {
		modelStatus = err.Error()
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "melakago-backend",
		"version": "1.0.0",
		"history": historyStatus,
		"models":  modelStatus,
	})
}

// GetAdvisory runs the full advisory pipeline for a (date, hour, location)
// selection. Date defaults to today and hour to the current hour, matching
// the dashboard defaults.
func (h *Handler) GetAdvisory(c *fiber.Ctx) error {
	ctx := c.Context()

	now := time.Now().In(h.loc)
	dateStr := c.Query("date", now.Format("2006-01-02"))
	hour := c.QueryInt("hour", now.Hour())

	tp, err := domain.NewTimePoint(dateStr, hour, h.loc)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	lat := c.QueryFloat("lat", domain.MelakaCenterLat)
	lon := c.QueryFloat("lon", domain.MelakaCenterLon)

	advisory, err := h.advisorySvc.GetAdvisory(ctx, tp, lat, lon)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			return c.Status(fiber.StatusNotFound).JSON(domain.AdvisoryResponse{
				Success: false,
				Message: "No weather data could be found for the selected date and hour. Please try another time.",
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build advisory")
	}

	return c.JSON(domain.AdvisoryResponse{
		Data:    advisory,
		Success: true,
	})
}

// GetForecast returns the cached hourly forecast for one date.
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	ctx := c.Context()

	dateStr := c.Query("date", time.Now().In(h.loc).Format("2006-01-02"))
	if _, err := time.ParseInLocation("2006-01-02", dateStr, h.loc); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid date")
	}

	lat := c.QueryFloat("lat", domain.MelakaCenterLat)
	lon := c.QueryFloat("lon", domain.MelakaCenterLon)

	hourly, err := h.forecastSrc.HourlyForecast(ctx, lat, lon, dateStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch weather data")
	}

	return c.JSON(domain.ForecastResponse{
		Date:    dateStr,
		Hourly:  hourly,
		Success: true,
	})
}

// RefreshForecast drops cached forecasts so the next request fetches fresh
// data. Backs the dashboard's refresh button.
func (h *Handler) RefreshForecast(c *fiber.Ctx) error {
	h.forecastSrc.Invalidate()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Forecast cache cleared",
	})
}
