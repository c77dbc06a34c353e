package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"kmonitor/internal/models"

	"github.com/google/uuid"
)

// MemFuelRecordRepository is an in-memory implementation of FuelRecordRepository.
type MemFuelRecordRepository struct {
	records map[string]models.FuelRecord
	seq     map[string]uint64 // insertion order, breaks CreatedAt ties
	nextSeq uint64
	mu      sync.RWMutex
}

// NewMemFuelRecordRepository creates a new instance of MemFuelRecordRepository.
func NewMemFuelRecordRepository() *MemFuelRecordRepository {
	return &MemFuelRecordRepository{
		records: make(map[string]models.FuelRecord),
		seq:     make(map[string]uint64),
	}
}

// Create adds a new fuel record, assigning an ID and creation time.
func (r *MemFuelRecordRepository) Create(record *models.FuelRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	r.records[record.ID] = *record
	r.nextSeq++
	r.seq[record.ID] = r.nextSeq
	return nil
}

// GetByID returns a fuel record by its ID.
func (r *MemFuelRecordRepository) GetByID(id string) (*models.FuelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("fuel record %s: %w", id, ErrNotFound)
	}
	return &record, nil
}

// GetByVehicleID returns the vehicle's fuel records, newest first.
func (r *MemFuelRecordRepository) GetByVehicleID(vehicleID string) ([]models.FuelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recordList := make([]models.FuelRecord, 0)
	for _, record := range r.records {
		if record.VehicleID == vehicleID {
			recordList = append(recordList, record)
		}
	}
	sort.Slice(recordList, func(i, j int) bool {
		if recordList[i].CreatedAt.Equal(recordList[j].CreatedAt) {
			return r.seq[recordList[i].ID] > r.seq[recordList[j].ID]
		}
		return recordList[i].CreatedAt.After(recordList[j].CreatedAt)
	})
	return recordList, nil
}

// Update merges the non-nil patch fields over the stored record.
func (r *MemFuelRecordRepository) Update(id string, patch *models.UpdateFuelRecord) (*models.FuelRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("fuel record %s: %w", id, ErrNotFound)
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
	r.records[id] = record
	return &record, nil
}

// Delete removes a fuel record. Absent IDs are a no-op.
func (r *MemFuelRecordRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	delete(r.seq, id)
	return nil
}

// DeleteByVehicleID removes every record referencing the vehicle.
func (r *MemFuelRecordRepository) DeleteByVehicleID(vehicleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, record := range r.records {
		if record.VehicleID == vehicleID {
			delete(r.records, id)
			delete(r.seq, id)
		}
	}
	return nil
}
