package features

import (
	"context"

	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
)

// #region diet

// DietType is the diet category label entered by the user.
type DietType string

const (
	Vegetarian DietType = "Vegetarian"
	Mixed      DietType = "Mixed"
	Vegan      DietType = "Vegan"
	NonVeg     DietType = "Non-Veg"
)

// dietCodes is the Diet Encoder table. Read-only after init.
var dietCodes = map[DietType]int{
	Vegetarian: 0,
	Mixed:      1,
	Vegan:      2,
	NonVeg:     3,
}

// Code returns the encoder value for d. Unrecognized labels encode as Vegetarian (0).
func (d DietType) Code() int {
	return dietCodes[d]
}

// Known reports whether d is one of the four diet labels.
func (d DietType) Known() bool {
	_, ok := dietCodes[d]
	return ok
}

// #endregion diet

// #region vector

// Vector is one analysis request's lifestyle metrics. It is passed by value.
type Vector struct {
	HeartRate  int      `json:"heart_rate"`
	SleepHours float64  `json:"sleep_hours"`
	Diet       DietType `json:"diet_type"`
	Stress     int      `json:"stress"`
	Mood       int      `json:"mood"`
	Water      int      `json:"water"`
}

// #endregion vector

// #region form

// Form holds raw, unvalidated field values as captured by a prompt or flag set.
type Form struct {
	HeartRate  string
	SleepHours string
	Diet       string
	Stress     string
	Mood       string
	Water      string
}

// #endregion form

// #region sensor-interface

// Sensor abstracts the reading source so Producer can be tested without a device.
type Sensor interface {
	Read(ctx context.Context) (sensor.Reading, error)
}

// #endregion sensor-interface

// #region config

// ProducerConfig holds the coercion fallbacks.
type ProducerConfig struct {
	DefaultMood int // used when mood is missing or malformed
}

// DefaultProducerConfig returns the form-layer defaults.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{DefaultMood: 3}
}

// #endregion config
