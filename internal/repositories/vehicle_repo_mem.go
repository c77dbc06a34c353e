package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"kmonitor/internal/models"

	"github.com/google/uuid"
)

// MemVehicleRepository is an in-memory implementation of VehicleRepository.
// It holds a reference to the fuel record store so Delete can cascade.
type MemVehicleRepository struct {
	vehicles    map[string]models.Vehicle
	seq         map[string]uint64 // insertion order, breaks CreatedAt ties
	nextSeq     uint64
	fuelRecords *MemFuelRecordRepository
	mu          sync.RWMutex
}

// NewMemVehicleRepository creates a new instance of MemVehicleRepository.
func NewMemVehicleRepository(fuelRecords *MemFuelRecordRepository) *MemVehicleRepository {
	return &MemVehicleRepository{
		vehicles:    make(map[string]models.Vehicle),
		seq:         make(map[string]uint64),
		fuelRecords: fuelRecords,
	}
}

// Create adds a new vehicle, assigning an ID and creation time.
func (r *MemVehicleRepository) Create(vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	vehicle.CreatedAt = time.Now()
	r.vehicles[vehicle.ID] = *vehicle
	r.nextSeq++
	r.seq[vehicle.ID] = r.nextSeq
	return nil
}

// GetByID returns a vehicle by its ID.
func (r *MemVehicleRepository) GetByID(id string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return &vehicle, nil
}

// GetByUserID returns the user's vehicles, oldest first.
func (r *MemVehicleRepository) GetByUserID(userID string) ([]models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicleList := make([]models.Vehicle, 0)
	for _, v := range r.vehicles {
		if v.UserID == userID {
			vehicleList = append(vehicleList, v)
		}
	}
	sort.Slice(vehicleList, func(i, j int) bool {
		if vehicleList[i].CreatedAt.Equal(vehicleList[j].CreatedAt) {
			return r.seq[vehicleList[i].ID] < r.seq[vehicleList[j].ID]
		}
		return vehicleList[i].CreatedAt.Before(vehicleList[j].CreatedAt)
	})
	return vehicleList, nil
}

// Update merges the non-nil patch fields over the stored vehicle.
func (r *MemVehicleRepository) Update(id string, patch *models.UpdateVehicle) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
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
	r.vehicles[id] = vehicle
	return &vehicle, nil
}

// Delete removes the vehicle and every fuel record referencing it.
func (r *MemVehicleRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.fuelRecords.DeleteByVehicleID(id); err != nil {
		return fmt.Errorf("failed to cascade fuel records for vehicle %s: %w", id, err)
	}
	delete(r.vehicles, id)
	delete(r.seq, id)
	return nil
}
