package handlers

import (
	"errors"
	"log"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
	"kmonitor/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// FuelRecordHandler handles HTTP requests for fuel records, both nested
// under a vehicle and addressed directly by record ID.
type FuelRecordHandler struct {
	service  *services.FuelRecordService
	validate *validator.Validate
}

// NewFuelRecordHandler creates a new FuelRecordHandler.
func NewFuelRecordHandler(service *services.FuelRecordService) *FuelRecordHandler {
	return &FuelRecordHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the fuel record routes with the Fiber app.
func (h *FuelRecordHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/vehicles/:id/fuel-records", h.HandleListByVehicle)
	router.Post("/vehicles/:id/fuel-records", h.HandleCreate)

	recordRoutes := router.Group("/fuel-records")
	recordRoutes.Get("/:id", h.HandleGet)
	recordRoutes.Patch("/:id", h.HandleUpdate)
	recordRoutes.Delete("/:id", h.HandleDelete)
}

// HandleListByVehicle retrieves a vehicle's fuel records, newest first.
func (h *FuelRecordHandler) HandleListByVehicle(c *fiber.Ctx) error {
	records, err := h.service.ListByVehicle(currentUserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Vehicle not found",
			})
		}
		log.Printf("Error listing fuel records for vehicle %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve fuel records",
		})
	}
	return c.JSON(records)
}

// HandleCreate stores a new fuel record under one of the caller's vehicles.
func (h *FuelRecordHandler) HandleCreate(c *fiber.Ctx) error {
	var insert models.InsertFuelRecord
	if err := c.BodyParser(&insert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(insert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid fuel record data",
			"errors":  validationMessages(err),
		})
	}

	// Copy the route param: fiber reuses its buffer after the request,
	// and the service stores this value beyond the handler's lifetime.
	record, err := h.service.Create(currentUserID(c), utils.CopyString(c.Params("id")), &insert)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Vehicle not found",
			})
		}
		log.Printf("Error creating fuel record for vehicle %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create fuel record",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleGet retrieves a fuel record the caller owns through its vehicle.
func (h *FuelRecordHandler) HandleGet(c *fiber.Ctx) error {
	record, err := h.service.Get(currentUserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Fuel record not found",
			})
		}
		log.Printf("Error getting fuel record %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve fuel record",
		})
	}
	return c.JSON(record)
}

// HandleUpdate patches a fuel record the caller owns through its vehicle.
func (h *FuelRecordHandler) HandleUpdate(c *fiber.Ctx) error {
	var patch models.UpdateFuelRecord
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

	record, err := h.service.Update(currentUserID(c), c.Params("id"), &patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Fuel record not found",
			})
		}
		log.Printf("Error updating fuel record %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update fuel record",
		})
	}
	return c.JSON(record)
}

// HandleDelete removes a fuel record the caller owns through its vehicle.
func (h *FuelRecordHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(currentUserID(c), c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Fuel record not found",
			})
		}
		log.Printf("Error deleting fuel record %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete fuel record",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
