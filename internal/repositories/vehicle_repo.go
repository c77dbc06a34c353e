package repositories

import "kmonitor/internal/models"

// VehicleRepository defines the interface for vehicle data access.
type VehicleRepository interface {
	Create(vehicle *models.Vehicle) error
	GetByID(id string) (*models.Vehicle, error)
	// GetByUserID returns the user's vehicles, oldest first.
	GetByUserID(userID string) ([]models.Vehicle, error)
	// Update merges the non-nil patch fields over the stored vehicle.
	// ID, UserID and CreatedAt are immutable after creation.
	Update(id string, patch *models.UpdateVehicle) (*models.Vehicle, error)
	// Delete removes the vehicle and cascades to every fuel record that
	// references it. Deleting an absent vehicle is a no-op.
	Delete(id string) error
}
