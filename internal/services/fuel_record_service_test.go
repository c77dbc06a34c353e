package services_test

import (
	"errors"
	"testing"

	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
	"kmonitor/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishFuelRecorded(event map[string]interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

func newFuelFixture(publisher services.EventPublisher) (*services.FuelRecordService, *repositories.MemVehicleRepository) {
	fuelRepo := repositories.NewMemFuelRecordRepository()
	vehicles := repositories.NewMemVehicleRepository(fuelRepo)
	return services.NewFuelRecordService(fuelRepo, vehicles, publisher), vehicles
}

func TestFuelRecordService_CreatePublishesEvent(t *testing.T) {
	mockPublisher := new(MockEventPublisher)
	service, vehicles := newFuelFixture(mockPublisher)

	vehicle := &models.Vehicle{UserID: "user-1", Name: "Gol"}
	require.NoError(t, vehicles.Create(vehicle))

	mockPublisher.On("PublishFuelRecorded", mock.MatchedBy(func(event map[string]interface{}) bool {
		return event["event"] == "fuel.recorded" && event["vehicle_id"] == vehicle.ID
	})).Return(nil).Once()

	record, err := service.Create("user-1", vehicle.ID, &models.InsertFuelRecord{
		Liters:        40,
		PriceTotal:    200,
		PricePerLiter: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	mockPublisher.AssertExpectations(t)
}

func TestFuelRecordService_CreateSurvivesPublishFailure(t *testing.T) {
	mockPublisher := new(MockEventPublisher)
	service, vehicles := newFuelFixture(mockPublisher)

	vehicle := &models.Vehicle{UserID: "user-1", Name: "Gol"}
	require.NoError(t, vehicles.Create(vehicle))

	mockPublisher.On("PublishFuelRecorded", mock.Anything).Return(errors.New("broker down")).Once()

	// A broker failure must not fail the write.
	record, err := service.Create("user-1", vehicle.ID, &models.InsertFuelRecord{
		Liters:        40,
		PriceTotal:    200,
		PricePerLiter: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	mockPublisher.AssertExpectations(t)
}

func TestFuelRecordService_TwoHopOwnership(t *testing.T) {
	service, vehicles := newFuelFixture(nil)

	vehicle := &models.Vehicle{UserID: "user-a", Name: "Gol"}
	require.NoError(t, vehicles.Create(vehicle))

	record, err := service.Create("user-a", vehicle.ID, &models.InsertFuelRecord{
		Liters:        40,
		PriceTotal:    200,
		PricePerLiter: 5,
	})
	require.NoError(t, err)

	// The owner reaches the record through its vehicle.
	got, err := service.Get("user-a", record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	// Anyone else sees not-found, even with the right record ID.
	_, err = service.Get("user-b", record.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	_, err = service.Update("user-b", record.ID, &models.UpdateFuelRecord{})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	err = service.Delete("user-b", record.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestFuelRecordService_CreateRejectsForeignVehicle(t *testing.T) {
	service, vehicles := newFuelFixture(nil)

	vehicle := &models.Vehicle{UserID: "user-a", Name: "Gol"}
	require.NoError(t, vehicles.Create(vehicle))

	_, err := service.Create("user-b", vehicle.ID, &models.InsertFuelRecord{
		Liters:        40,
		PriceTotal:    200,
		PricePerLiter: 5,
	})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
