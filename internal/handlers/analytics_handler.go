package handlers

import (
	"errors"
	"log"

	"kmonitor/internal/repositories"
	"kmonitor/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles HTTP requests for consumption analytics.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	vehicles  *services.VehicleService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics *services.AnalyticsService, vehicles *services.VehicleService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		vehicles:  vehicles,
	}
}

// RegisterRoutes registers the analytics routes with the Fiber app.
func (h *AnalyticsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/analytics/consumption/:id", h.HandleConsumption)
}

// HandleConsumption returns the consumption summary for one of the
// caller's vehicles.
func (h *AnalyticsHandler) HandleConsumption(c *fiber.Ctx) error {
	vehicleID := c.Params("id")
	if _, err := h.vehicles.Get(currentUserID(c), vehicleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Vehicle not found",
			})
		}
		log.Printf("Error resolving vehicle %s for analytics: %v", vehicleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not calculate analytics",
		})
	}

	summary, err := h.analytics.ConsumptionSummary(vehicleID)
	if err != nil {
		log.Printf("Error calculating consumption analytics for vehicle %s: %v", vehicleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not calculate analytics",
		})
	}
	return c.JSON(summary)
}
