package repositories

import (
	"errors"
	"fmt"

	"kmonitor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFuelRecordRepository is a GORM implementation of FuelRecordRepository.
type GORMFuelRecordRepository struct {
	db *gorm.DB
}

// NewGORMFuelRecordRepository creates a new instance of GORMFuelRecordRepository.
func NewGORMFuelRecordRepository(db *gorm.DB) *GORMFuelRecordRepository {
	return &GORMFuelRecordRepository{
		db: db,
	}
}

// Create creates a new fuel record in the database.
func (r *GORMFuelRecordRepository) Create(record *models.FuelRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create fuel record: %w", err)
	}
	return nil
}

// GetByID retrieves a fuel record by its ID from the database.
func (r *GORMFuelRecordRepository) GetByID(id string) (*models.FuelRecord, error) {
	var record models.FuelRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("fuel record %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get fuel record by ID %s: %w", id, err)
	}
	return &record, nil
}

// GetByVehicleID retrieves the vehicle's fuel records, newest first.
func (r *GORMFuelRecordRepository) GetByVehicleID(vehicleID string) ([]models.FuelRecord, error) {
	var records []models.FuelRecord
	if err := r.db.Where("vehicle_id = ?", vehicleID).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get fuel records for vehicle %s: %w", vehicleID, err)
	}
	return records, nil
}

// Update merges the non-nil patch fields over the stored record.
func (r *GORMFuelRecordRepository) Update(id string, patch *models.UpdateFuelRecord) (*models.FuelRecord, error) {
	record, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Liters != nil {
		record.Liters = *patch.Liters
	}
	if patch.PriceTotal != nil {
		record.PriceTotal = *patch.PriceTotal
	}
	if patch.PricePerLiter != nil {
		record.PricePerLiter = *patch.PricePerLiter
	}
	if patch.StationName != nil {
		record.StationName = patch.StationName
	}
	if patch.Odometer != nil {
		record.Odometer = patch.Odometer
	}
	if err := r.db.Save(record).Error; err != nil {
		return nil, fmt.Errorf("failed to update fuel record %s: %w", id, err)
	}
	return record, nil
}

// Delete removes a fuel record. Absent IDs are a no-op.
func (r *GORMFuelRecordRepository) Delete(id string) error {
	if err := r.db.Delete(&models.FuelRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete fuel record %s: %w", id, err)
	}
	return nil
}

// DeleteByVehicleID removes every record referencing the vehicle.
func (r *GORMFuelRecordRepository) DeleteByVehicleID(vehicleID string) error {
	if err := r.db.Delete(&models.FuelRecord{}, "vehicle_id = ?", vehicleID).Error; err != nil {
		return fmt.Errorf("failed to delete fuel records for vehicle %s: %w", vehicleID, err)
	}
	return nil
}
