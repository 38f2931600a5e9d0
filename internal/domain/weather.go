package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrMissingField is returned when the raw payload lacks a field the record needs.
var ErrMissingField = errors.New("missing field")

// RawWeather is the subset of the OpenWeather current-weather response read by
// the transform. Pointers distinguish an absent object from a zero value.
type RawWeather struct {
	Name    *string        `json:"name"`
	Main    *RawMain       `json:"main"`
	Weather []RawCondition `json:"weather"`
}

// RawMain holds the "main" block of the response.
type RawMain struct {
	Temp     *json.Number `json:"temp"`
	Humidity *json.Number `json:"humidity"`
	Pressure *json.Number `json:"pressure"`
}

// RawCondition is one entry of the "weather" array.
type RawCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WeatherRecord is the flat record handed from transform to load.
type WeatherRecord struct {
	City        string      `json:"city"`
	Temperature json.Number `json:"temperature"`
	Humidity    json.Number `json:"humidity"`
	Pressure    json.Number `json:"pressure"`
	Weather     string      `json:"weather"`
}

// Observation is a record stamped for delivery to a load sink.
type Observation struct {
	WeatherRecord
	RunID    string    `json:"run_id"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewObservation stamps rec with the run ID and the current clock time.
func NewObservation(runID string, rec WeatherRecord) Observation {
	return Observation{WeatherRecord: rec, RunID: runID, LoadedAt: Now()}
}
