package services

import (
	"kmonitor/internal/models"
	"kmonitor/internal/repositories"
)

// Efficiency classifications for average consumption (km per liter).
const (
	EfficiencyExcellent = "excellent" // above 12 km/L
	EfficiencyGood      = "good"      // above 10, up to 12 km/L
	EfficiencyRegular   = "regular"   // 10 km/L or below
)

// ConsumptionSummary aggregates a vehicle's fuel history. TotalDistance
// and AvgConsumption are nil when fewer than two records carry an
// odometer reading; Message is set only for the degenerate cases.
type ConsumptionSummary struct {
	Message          string   `json:"message,omitempty"`
	TotalRecords     int      `json:"total_records"`
	TotalLiters      float64  `json:"total_liters"`
	TotalCost        float64  `json:"total_cost"`
	AvgPricePerLiter float64  `json:"avg_price_per_liter"`
	TotalDistance    *float64 `json:"total_distance"`
	AvgConsumption   *float64 `json:"avg_consumption"`
	Efficiency       string   `json:"efficiency,omitempty"`
}

// AnalyticsService computes read-only aggregations over fuel records.
type AnalyticsService struct {
	fuelRepo repositories.FuelRecordRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(fuelRepo repositories.FuelRecordRepository) *AnalyticsService {
	return &AnalyticsService{
		fuelRepo: fuelRepo,
	}
}

// ConsumptionSummary aggregates the vehicle's fuel history. Too little
// data is a normal result, never an error.
func (s *AnalyticsService) ConsumptionSummary(vehicleID string) (*ConsumptionSummary, error) {
	records, err := s.fuelRepo.GetByVehicleID(vehicleID)
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return &ConsumptionSummary{
			Message:      "Need at least 2 fuel records to calculate consumption",
			TotalRecords: len(records),
		}, nil
	}

	var totalLiters, totalCost float64
	for _, record := range records {
		totalLiters += record.Liters
		totalCost += record.PriceTotal
	}

	if totalLiters == 0 {
		return &ConsumptionSummary{
			Message:      "No fuel consumption data available",
			TotalRecords: len(records),
		}, nil
	}

	summary := &ConsumptionSummary{
		TotalRecords:     len(records),
		TotalLiters:      totalLiters,
		TotalCost:        totalCost,
		AvgPricePerLiter: totalCost / totalLiters,
	}

	// The repository returns records newest first; walk backwards for the
	// chronological odometer sequence.
	var withOdometer []models.FuelRecord
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Odometer != nil {
			withOdometer = append(withOdometer, records[i])
		}
	}
	if len(withOdometer) >= 2 {
		first := withOdometer[0]
		last := withOdometer[len(withOdometer)-1]
		totalDistance := *last.Odometer - *first.Odometer
		avgConsumption := totalDistance / totalLiters
		summary.TotalDistance = &totalDistance
		summary.AvgConsumption = &avgConsumption
		summary.Efficiency = classifyEfficiency(avgConsumption)
	}

	return summary, nil
}

func classifyEfficiency(avgConsumption float64) string {
	switch {
	case avgConsumption > 12:
		return EfficiencyExcellent
	case avgConsumption > 10:
		return EfficiencyGood
	default:
		return EfficiencyRegular
	}
}
