package models

import "time"

// Vehicle represents a vehicle tracked by a user.
// Brand, Model and Year are optional; absent values are stored as NULL,
// never as an ambiguous zero value.
type Vehicle struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Brand     *string   `json:"brand" gorm:"type:varchar(100)"`
	Model     *string   `json:"model" gorm:"type:varchar(100)"`
	Year      *int      `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

// InsertVehicle is the payload accepted when creating a vehicle. The owner
// is taken from the request context, never from the body.
type InsertVehicle struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Brand *string `json:"brand" validate:"omitempty,max=100"`
	Model *string `json:"model" validate:"omitempty,max=100"`
	Year  *int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
}

// UpdateVehicle is the partial payload accepted when patching a vehicle.
// Nil fields are left untouched. ID, UserID and CreatedAt cannot appear
// here and stay immutable after creation.
type UpdateVehicle struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Brand *string `json:"brand" validate:"omitempty,max=100"`
	Model *string `json:"model" validate:"omitempty,max=100"`
	Year  *int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
}
