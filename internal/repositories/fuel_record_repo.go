package repositories

import "kmonitor/internal/models"

// FuelRecordRepository defines the interface for fuel record data access.
type FuelRecordRepository interface {
	Create(record *models.FuelRecord) error
	GetByID(id string) (*models.FuelRecord, error)
	// GetByVehicleID returns the vehicle's fuel records, newest first.
	GetByVehicleID(vehicleID string) ([]models.FuelRecord, error)
	// Update merges the non-nil patch fields over the stored record.
	// ID, VehicleID and CreatedAt are immutable after creation.
	Update(id string, patch *models.UpdateFuelRecord) (*models.FuelRecord, error)
	// Delete removes the record. Deleting an absent record is a no-op.
	Delete(id string) error
	// DeleteByVehicleID removes every record referencing the vehicle.
	DeleteByVehicleID(vehicleID string) error
}
