package services

import (
	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
)

// VehicleService handles business logic related to vehicles. Every
// operation is scoped to the owning user.
type VehicleService struct {
	vehicleRepo repositories.VehicleRepository
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicleRepo repositories.VehicleRepository) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
	}
}

// ListByOwner retrieves the user's vehicles, oldest first.
func (s *VehicleService) ListByOwner(userID string) ([]models.Vehicle, error) {
	return s.vehicleRepo.GetByUserID(userID)
}

// Create creates a new vehicle owned by the given user.
func (s *VehicleService) Create(userID string, insert *models.InsertVehicle) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		UserID: userID,
		Name:   insert.Name,
		Brand:  insert.Brand,
		Model:  insert.Model,
		Year:   insert.Year,
	}
	if err := s.vehicleRepo.Create(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Get retrieves a vehicle only when it belongs to the given user.
func (s *VehicleService) Get(userID, vehicleID string) (*models.Vehicle, error) {
	return ownedVehicle(s.vehicleRepo, userID, vehicleID)
}

// Update patches a vehicle the user owns.
func (s *VehicleService) Update(userID, vehicleID string, patch *models.UpdateVehicle) (*models.Vehicle, error) {
	if _, err := ownedVehicle(s.vehicleRepo, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.vehicleRepo.Update(vehicleID, patch)
}

// Delete removes a vehicle the user owns, cascading to its fuel records.
func (s *VehicleService) Delete(userID, vehicleID string) error {
	if _, err := ownedVehicle(s.vehicleRepo, userID, vehicleID); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(vehicleID)
}
