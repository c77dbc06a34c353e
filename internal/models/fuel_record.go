package models

import "time"

// FuelRecord represents a single refueling of a vehicle.
type FuelRecord struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	VehicleID     string    `json:"vehicle_id" gorm:"index;type:varchar(36)"`
	Liters        float64   `json:"liters"`
	PriceTotal    float64   `json:"price_total"`
	PricePerLiter float64   `json:"price_per_liter"`
	StationName   *string   `json:"station_name" gorm:"type:varchar(100)"`
	Odometer      *float64  `json:"odometer"`
	CreatedAt     time.Time `json:"created_at"`
}

// InsertFuelRecord is the payload accepted when creating a fuel record.
// The vehicle is taken from the route, never from the body.
type InsertFuelRecord struct {
	Liters        float64  `json:"liters" validate:"required,gt=0"`
	PriceTotal    float64  `json:"price_total" validate:"required,gt=0"`
	PricePerLiter float64  `json:"price_per_liter" validate:"required,gt=0"`
	StationName   *string  `json:"station_name" validate:"omitempty,max=100"`
	Odometer      *float64 `json:"odometer" validate:"omitempty,gte=0"`
}

// UpdateFuelRecord is the partial payload accepted when patching a fuel
// record. VehicleID stays immutable after creation.
type UpdateFuelRecord struct {
	Liters        *float64 `json:"liters" validate:"omitempty,gt=0"`
	PriceTotal    *float64 `json:"price_total" validate:"omitempty,gt=0"`
	PricePerLiter *float64 `json:"price_per_liter" validate:"omitempty,gt=0"`
	StationName   *string  `json:"station_name" validate:"omitempty,max=100"`
	Odometer      *float64 `json:"odometer" validate:"omitempty,gte=0"`
}
