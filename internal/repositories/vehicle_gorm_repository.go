package repositories

import (
	"errors"
	"fmt"

	"kmonitor/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMVehicleRepository is a GORM implementation of VehicleRepository.
type GORMVehicleRepository struct {
	db *gorm.DB
}

// NewGORMVehicleRepository creates a new instance of GORMVehicleRepository.
func NewGORMVehicleRepository(db *gorm.DB) *GORMVehicleRepository {
	return &GORMVehicleRepository{
		db: db,
	}
}

// Create creates a new vehicle in the database.
func (r *GORMVehicleRepository) Create(vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	if err := r.db.Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetByID retrieves a vehicle by its ID from the database.
func (r *GORMVehicleRepository) GetByID(id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle by ID %s: %w", id, err)
	}
	return &vehicle, nil
}

// GetByUserID retrieves the user's vehicles, oldest first.
func (r *GORMVehicleRepository) GetByUserID(userID string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to get vehicles for user %s: %w", userID, err)
	}
	return vehicles, nil
}

// Update merges the non-nil patch fields over the stored vehicle.
func (r *GORMVehicleRepository) Update(id string, patch *models.UpdateVehicle) (*models.Vehicle, error) {
	vehicle, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		vehicle.Name = *patch.Name
	}
	if patch.Brand != nil {
		vehicle.Brand = patch.Brand
	}
	if patch.Model != nil {
		vehicle.Model = patch.Model
	}
	if patch.Year != nil {
		vehicle.Year = patch.Year
	}
	if err := r.db.Save(vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to update vehicle %s: %w", id, err)
	}
	return vehicle, nil
}

// Delete removes the vehicle and its fuel records in one transaction.
func (r *GORMVehicleRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.FuelRecord{}, "vehicle_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vehicle{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, err)
	}
	return nil
}
