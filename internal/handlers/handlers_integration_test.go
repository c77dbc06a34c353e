package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kmonitor/internal/handlers"
	"kmonitor/internal/middleware"
	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
	"kmonitor/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full stack over a fresh in-memory store. Apps are
// built per identity so ownership rules can be exercised from both sides.
type testEnv struct {
	vehicleService   *services.VehicleService
	fuelService      *services.FuelRecordService
	chatService      *services.ChatService
	analyticsService *services.AnalyticsService
}

func newTestEnv() *testEnv {
	fuelRepo := repositories.NewMemFuelRecordRepository()
	vehicleRepo := repositories.NewMemVehicleRepository(fuelRepo)
	messageRepo := repositories.NewMemChatMessageRepository()

	fuelService := services.NewFuelRecordService(fuelRepo, vehicleRepo, nil)
	return &testEnv{
		vehicleService:   services.NewVehicleService(vehicleRepo),
		fuelService:      fuelService,
		chatService:      services.NewChatService(messageRepo, vehicleRepo, fuelService),
		analyticsService: services.NewAnalyticsService(fuelRepo),
	}
}

// appFor builds a Fiber app whose requests all run as the given user.
func (e *testEnv) appFor(userID string) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", middleware.Identity(userID))
	handlers.NewVehicleHandler(e.vehicleService).RegisterRoutes(api)
	handlers.NewFuelRecordHandler(e.fuelService).RegisterRoutes(api)
	handlers.NewChatHandler(e.chatService).RegisterRoutes(api)
	handlers.NewAnalyticsHandler(e.analyticsService, e.vehicleService).RegisterRoutes(api)
	return app
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createVehicle(t *testing.T, app *fiber.App, name string) models.Vehicle {
	t.Helper()
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/vehicles", map[string]interface{}{
		"name":  name,
		"brand": "VW",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var vehicle models.Vehicle
	decodeBody(t, resp, &vehicle)
	return vehicle
}

func TestVehicleCRUD(t *testing.T) {
	app := newTestEnv().appFor("user-a")

	created := createVehicle(t, app, "Gol")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-a", created.UserID)
	require.NotNil(t, created.Brand)
	assert.Equal(t, "VW", *created.Brand)
	assert.Nil(t, created.Model)

	// List
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/vehicles", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var vehicles []models.Vehicle
	decodeBody(t, resp, &vehicles)
	require.Len(t, vehicles, 1)

	// Get
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/vehicles/"+created.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Patch
	resp, err = app.Test(jsonRequest(http.MethodPatch, "/api/vehicles/"+created.ID, map[string]interface{}{
		"name": "Gol 1.0",
		"year": 2010,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Vehicle
	decodeBody(t, resp, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Gol 1.0", updated.Name)
	assert.Equal(t, created.CreatedAt.UTC(), updated.CreatedAt.UTC())
	require.NotNil(t, updated.Year)
	assert.Equal(t, 2010, *updated.Year)

	// Delete
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/vehicles/"+created.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Gone
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/vehicles/"+created.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestVehicleValidation(t *testing.T) {
	app := newTestEnv().appFor("user-a")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/vehicles", map[string]interface{}{
		"brand": "VW",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid vehicle data", body.Message)
	assert.Contains(t, body.Errors, "Name")

	// No vehicles were stored.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/vehicles", nil), -1)
	require.NoError(t, err)
	var vehicles []models.Vehicle
	decodeBody(t, resp, &vehicles)
	assert.Empty(t, vehicles)
}

func TestFuelRecordEndpointsAndOwnership(t *testing.T) {
	env := newTestEnv()
	appA := env.appFor("user-a")
	appB := env.appFor("user-b")

	vehicle := createVehicle(t, appA, "Gol")

	// Create a record under the vehicle.
	resp, err := appA.Test(jsonRequest(http.MethodPost, "/api/vehicles/"+vehicle.ID+"/fuel-records", map[string]interface{}{
		"liters":          40.0,
		"price_total":     200.0,
		"price_per_liter": 5.0,
		"odometer":        15000.0,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var record models.FuelRecord
	decodeBody(t, resp, &record)
	assert.Equal(t, vehicle.ID, record.VehicleID)

	// List under the vehicle.
	resp, err = appA.Test(httptest.NewRequest(http.MethodGet, "/api/vehicles/"+vehicle.ID+"/fuel-records", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var records []models.FuelRecord
	decodeBody(t, resp, &records)
	require.Len(t, records, 1)

	// Patch by record ID.
	resp, err = appA.Test(jsonRequest(http.MethodPatch, "/api/fuel-records/"+record.ID, map[string]interface{}{
		"station_name": "Shell Centro",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var patched models.FuelRecord
	decodeBody(t, resp, &patched)
	assert.Equal(t, vehicle.ID, patched.VehicleID)
	require.NotNil(t, patched.StationName)
	assert.Equal(t, "Shell Centro", *patched.StationName)

	// Another user cannot see the vehicle or the record, even with IDs.
	for _, target := range []string{
		"/api/vehicles/" + vehicle.ID,
		"/api/vehicles/" + vehicle.ID + "/fuel-records",
		"/api/fuel-records/" + record.ID,
	} {
		resp, err = appB.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
		resp.Body.Close()
	}

	// Delete, then the record is gone.
	resp, err = appA.Test(httptest.NewRequest(http.MethodDelete, "/api/fuel-records/"+record.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = appA.Test(httptest.NewRequest(http.MethodGet, "/api/fuel-records/"+record.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestVehicleDeleteCascadesOverHTTP(t *testing.T) {
	env := newTestEnv()
	app := env.appFor("user-a")

	vehicle := createVehicle(t, app, "Gol")
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/vehicles/"+vehicle.ID+"/fuel-records", map[string]interface{}{
		"liters":          40.0,
		"price_total":     200.0,
		"price_per_liter": 5.0,
	}), -1)
	require.NoError(t, err)
	var record models.FuelRecord
	decodeBody(t, resp, &record)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/vehicles/"+vehicle.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/fuel-records/"+record.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestChatProcessEndpoint(t *testing.T) {
	env := newTestEnv()
	app := env.appFor("user-a")

	vehicle := createVehicle(t, app, "Gol")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/chat/process", map[string]interface{}{
		"content": "Abasteci 42,5L no Shell Centro por R$ 255,30",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		UserMessage models.ChatMessage `json:"userMessage"`
		AIMessage   models.ChatMessage `json:"aiMessage"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, models.MessageTypeUser, body.UserMessage.Type)
	assert.Equal(t, models.MessageTypeKmonitor, body.AIMessage.Type)
	require.NotNil(t, body.AIMessage.Metadata)
	assert.Equal(t, models.MetadataAnalysis, body.AIMessage.Metadata.Kind)

	// The parsed refueling was stored against the first vehicle.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/vehicles/"+vehicle.ID+"/fuel-records", nil), -1)
	require.NoError(t, err)
	var records []models.FuelRecord
	decodeBody(t, resp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, 42.5, records[0].Liters)
	assert.Equal(t, 255.30, records[0].PriceTotal)

	// Empty content is rejected before anything is stored.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/chat/process", map[string]interface{}{
		"content": "",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestChatMessagesLimit(t *testing.T) {
	env := newTestEnv()
	app := env.appFor("user-a")

	contents := []string{"um", "dois", "três", "quatro", "cinco"}
	for _, content := range contents {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/chat/messages", map[string]interface{}{
			"type":    "user",
			"content": content,
		}), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/messages?limit=2", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var messages []models.ChatMessage
	decodeBody(t, resp, &messages)
	require.Len(t, messages, 2)
	assert.Equal(t, "quatro", messages[0].Content)
	assert.Equal(t, "cinco", messages[1].Content)

	// An empty history is a normal empty list.
	other := env.appFor("user-b")
	resp, err = other.Test(httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []models.ChatMessage
	decodeBody(t, resp, &empty)
	assert.Empty(t, empty)
}

func TestAnalyticsEndpoint(t *testing.T) {
	env := newTestEnv()
	app := env.appFor("user-a")

	vehicle := createVehicle(t, app, "Gol")

	post := func(liters, total, odometer float64) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/vehicles/"+vehicle.ID+"/fuel-records", map[string]interface{}{
			"liters":          liters,
			"price_total":     total,
			"price_per_liter": total / liters,
			"odometer":        odometer,
		}), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	post(10, 50, 100)

	// One record is not enough.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/analytics/consumption/"+vehicle.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var insufficient services.ConsumptionSummary
	decodeBody(t, resp, &insufficient)
	assert.Equal(t, 1, insufficient.TotalRecords)
	assert.NotEmpty(t, insufficient.Message)

	post(10, 60, 220)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/analytics/consumption/"+vehicle.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var summary services.ConsumptionSummary
	decodeBody(t, resp, &summary)
	assert.Equal(t, 2, summary.TotalRecords)
	assert.Equal(t, 20.0, summary.TotalLiters)
	assert.Equal(t, 110.0, summary.TotalCost)
	assert.Equal(t, 5.5, summary.AvgPricePerLiter)
	require.NotNil(t, summary.TotalDistance)
	assert.Equal(t, 120.0, *summary.TotalDistance)
	require.NotNil(t, summary.AvgConsumption)
	assert.Equal(t, 6.0, *summary.AvgConsumption)
	assert.Equal(t, services.EfficiencyRegular, summary.Efficiency)

	// Foreign users cannot read another owner's analytics.
	appB := env.appFor("user-b")
	resp, err = appB.Test(httptest.NewRequest(http.MethodGet, "/api/analytics/consumption/"+vehicle.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
