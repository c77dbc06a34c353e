package services

import (
	"fmt"
	"log"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
)

// EventPublisher publishes refueling events to the message broker.
type EventPublisher interface {
	PublishFuelRecorded(event map[string]interface{}) error
}

// FuelRecordService handles business logic related to fuel records.
// Access always runs through the owning vehicle: a record is visible only
// when the vehicle it references belongs to the caller.
type FuelRecordService struct {
	fuelRepo    repositories.FuelRecordRepository
	vehicleRepo repositories.VehicleRepository
	publisher   EventPublisher // nil disables event publishing
}

// NewFuelRecordService creates a new FuelRecordService.
func NewFuelRecordService(fuelRepo repositories.FuelRecordRepository, vehicleRepo repositories.VehicleRepository, publisher EventPublisher) *FuelRecordService {
	return &FuelRecordService{
		fuelRepo:    fuelRepo,
		vehicleRepo: vehicleRepo,
		publisher:   publisher,
	}
}

// ListByVehicle retrieves a vehicle's fuel records, newest first. The
// vehicle must belong to the given user.
func (s *FuelRecordService) ListByVehicle(userID, vehicleID string) ([]models.FuelRecord, error) {
	if _, err := ownedVehicle(s.vehicleRepo, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.fuelRepo.GetByVehicleID(vehicleID)
}

// Create stores a new fuel record under a vehicle the user owns.
func (s *FuelRecordService) Create(userID, vehicleID string, insert *models.InsertFuelRecord) (*models.FuelRecord, error) {
	if _, err := ownedVehicle(s.vehicleRepo, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.Record(vehicleID, insert)
}

// Record stores a fuel record without an ownership check. Callers must
// have already established that the vehicle belongs to the actor.
func (s *FuelRecordService) Record(vehicleID string, insert *models.InsertFuelRecord) (*models.FuelRecord, error) {
	record := &models.FuelRecord{
		VehicleID:     vehicleID,
		Liters:        insert.Liters,
		PriceTotal:    insert.PriceTotal,
		PricePerLiter: insert.PricePerLiter,
		StationName:   insert.StationName,
		Odometer:      insert.Odometer,
	}
	if err := s.fuelRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create fuel record: %w", err)
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"event":       "fuel.recorded",
			"record_id":   record.ID,
			"vehicle_id":  record.VehicleID,
			"liters":      record.Liters,
			"price_total": record.PriceTotal,
		}
		if err := s.publisher.PublishFuelRecorded(event); err != nil {
			log.Printf("Warning: failed to publish fuel.recorded event for record %s: %v", record.ID, err)
		}
	}

	return record, nil
}

// Get retrieves a fuel record via the two-hop ownership check.
func (s *FuelRecordService) Get(userID, recordID string) (*models.FuelRecord, error) {
	return s.ownedRecord(userID, recordID)
}

// Update patches a fuel record the user owns through its vehicle.
func (s *FuelRecordService) Update(userID, recordID string, patch *models.UpdateFuelRecord) (*models.FuelRecord, error) {
	if _, err := s.ownedRecord(userID, recordID); err != nil {
		return nil, err
	}
	return s.fuelRepo.Update(recordID, patch)
}

// Delete removes a fuel record the user owns through its vehicle.
func (s *FuelRecordService) Delete(userID, recordID string) error {
	if _, err := s.ownedRecord(userID, recordID); err != nil {
		return err
	}
	return s.fuelRepo.Delete(recordID)
}

// ownedRecord resolves a record, then its vehicle, and checks the vehicle
// belongs to the user. Both failure modes look identical to the caller.
func (s *FuelRecordService) ownedRecord(userID, recordID string) (*models.FuelRecord, error) {
	record, err := s.fuelRepo.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedVehicle(s.vehicleRepo, userID, record.VehicleID); err != nil {
		return nil, fmt.Errorf("fuel record %s: %w", recordID, repositories.ErrNotFound)
	}
	return record, nil
}
