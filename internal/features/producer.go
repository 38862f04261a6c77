package features

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// #region producer

// Producer turns raw form input into a Vector, optionally taking heart rate from a sensor.
type Producer struct {
	sensor Sensor
	config ProducerConfig
}

// NewProducer creates a Producer. sensor may be nil (heart rate always comes from the form).
func NewProducer(sensor Sensor, config ProducerConfig) *Producer {
	return &Producer{sensor: sensor, config: config}
}

// #endregion producer

// #region produce

// Produce coerces the form. When useSensor is set and a sensor is attached, the live
// heart rate replaces the form value; a sensor error degrades to the form value.
func (p *Producer) Produce(ctx context.Context, form Form, useSensor bool) Vector {
	v := CoerceWith(form, p.config)
	if !useSensor || p.sensor == nil {
		return v
	}
	r, err := p.sensor.Read(ctx)
	if err != nil {
		return v
	}
	v.HeartRate = r.HeartRate
	return v
}

// #endregion produce

// #region coerce

// Coerce converts a form using DefaultProducerConfig.
func Coerce(form Form) Vector {
	return CoerceWith(form, DefaultProducerConfig())
}

// CoerceWith converts a form. Missing or malformed numbers fall back to zero,
// except mood which falls back to config.DefaultMood. Values are not range-checked.
func CoerceWith(form Form, config ProducerConfig) Vector {
	return Vector{
		HeartRate:  parseInt(form.HeartRate, 0),
		SleepHours: parseFloat(form.SleepHours, 0),
		Diet:       DietType(strings.TrimSpace(form.Diet)),
		Stress:     parseInt(form.Stress, 0),
		Mood:       parseInt(form.Mood, config.DefaultMood),
		Water:      parseInt(form.Water, 0),
	}
}

// #endregion coerce

// #region helpers

// parseInt accepts integers and truncates decimals ("72.6" → 72).
func parseInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return int(f)
}

func parseFloat(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// #endregion helpers
