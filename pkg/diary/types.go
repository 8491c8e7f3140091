package diary

import (
	"github.com/google/uuid"
)

// NewEntry is what the capture workflow hands to storage.
// Temperature and Humidity are either both nil (no reading available) or both set.
type NewEntry struct {
	UserID          string   `json:"user_id"`
	Action          string   `json:"action"`
	Note            *string  `json:"note"`
	Temperature     *float64 `json:"temperature"`
	Humidity        *float64 `json:"humidity"`
	WeatherLocation string   `json:"weather_location"`
}

// Entry is a persisted diary record.
type Entry struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	Action          string    `json:"action"`
	Note            *string   `json:"note"`
	Temperature     *float64  `json:"temperature"`
	Humidity        *float64  `json:"humidity"`
	WeatherLocation string    `json:"weather_location"`
	CreatedAt       float64   `json:"created_at"` // unix seconds, assigned by the database
}

// HasReading reports whether the entry carries an environmental reading.
func (e Entry) HasReading() bool {
	return e.Temperature != nil && e.Humidity != nil
}
