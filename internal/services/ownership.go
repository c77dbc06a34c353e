package services

import (
	"fmt"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
)

// ownedVehicle resolves a vehicle and checks it belongs to the given user.
// "Absent" and "owned by someone else" collapse into the same not-found
// error so callers never learn whether a foreign resource exists.
func ownedVehicle(repo repositories.VehicleRepository, userID, vehicleID string) (*models.Vehicle, error) {
	vehicle, err := repo.GetByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, fmt.Errorf("vehicle %s: %w", vehicleID, repositories.ErrNotFound)
	}
	return vehicle, nil
}
