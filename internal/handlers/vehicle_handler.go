package handlers

import (
	"errors"
	"log"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
	"kmonitor/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	service  *services.VehicleService
	validate *validator.Validate
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the vehicle routes with the Fiber app.
func (h *VehicleHandler) RegisterRoutes(router fiber.Router) {
	vehicleRoutes := router.Group("/vehicles")
	vehicleRoutes.Get("/", h.HandleListVehicles)
	vehicleRoutes.Post("/", h.HandleCreateVehicle)
	vehicleRoutes.Get("/:id", h.HandleGetVehicle)
	vehicleRoutes.Patch("/:id", h.HandleUpdateVehicle)
	vehicleRoutes.Delete("/:id", h.HandleDeleteVehicle)
}

// HandleListVehicles retrieves the caller's vehicles. No vehicles is a
// normal empty result, never an error.
func (h *VehicleHandler) HandleListVehicles(c *fiber.Ctx) error {
	vehicles, err := h.service.ListByOwner(currentUserID(c))
	if err != nil {
		log.Printf("Error listing vehicles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve vehicles",
		})
	}
	return c.JSON(vehicles)
}

// HandleCreateVehicle creates a new vehicle owned by the caller.
func (h *VehicleHandler) HandleCreateVehicle(c *fiber.Ctx) error {
	var insert models.InsertVehicle
	if err := c.BodyParser(&insert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(insert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid vehicle data",
			"errors":  validationMessages(err),
		})
	}

	vehicle, err := h.service.Create(currentUserID(c), &insert)
	if err != nil {
		log.Printf("Error creating vehicle: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create vehicle",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

// HandleGetVehicle retrieves one of the caller's vehicles. A vehicle that
// exists but belongs to someone else looks exactly like an absent one.
func (h *VehicleHandler) HandleGetVehicle(c *fiber.Ctx) error {
	vehicle, err := h.service.Get(currentUserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Vehicle not found",
			})
		}
		log.Printf("Error getting vehicle %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve vehicle",
		})
	}
	return c.JSON(vehicle)
}

// HandleUpdateVehicle patches one of the caller's vehicles.
func (h *VehicleHandler) HandleUpdateVehicle(c *fiber.Ctx) error {
	var patch models.UpdateVehicle
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid update data",
			"errors":  validationMessages(err),
		})
	}

	vehicle, err := h.service.Update(currentUserID(c), c.Params("id"), &patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Vehicle not found",
			})
		}
		log.Printf("Error updating vehicle %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update vehicle",
		})
	}
	return c.JSON(vehicle)
}

// HandleDeleteVehicle removes one of the caller's vehicles along with all
// of its fuel records.
func (h *VehicleHandler) HandleDeleteVehicle(c *fiber.Ctx) error {
	if err := h.service.Delete(currentUserID(c), c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Vehicle not found",
			})
		}
		log.Printf("Error deleting vehicle %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete vehicle",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
