package sensor

import (
	"context"
	"time"
)

// #region reading

// Reading is one simulated device sample.
type Reading struct {
	HeartRate   int       `json:"heart_rate"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	At          time.Time `json:"at"`
}

// #endregion reading

// #region source

// Source produces readings. Implemented by Simulator and by the remote feed client.
type Source interface {
	Read(ctx context.Context) (Reading, error)
}

// #endregion source

// #region config

// SimulatorConfig holds the distribution parameters.
type SimulatorConfig struct {
	HeartRateMean   float64
	HeartRateStdDev float64
	TempMean        float64
	TempStdDev      float64
	HumidityMin     int
	HumidityMax     int // inclusive
}

// DefaultSimulatorConfig returns the resting-adult profile.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		HeartRateMean:   75,
		HeartRateStdDev: 6,
		TempMean:        36.6,
		TempStdDev:      0.4,
		HumidityMin:     30,
		HumidityMax:     70,
	}
}

// DefaultInterval is the delay between streamed readings.
const DefaultInterval = 450 * time.Millisecond

// #endregion config

// #region emission

// Emission is one reading delivered by a Streamer run.
type Emission struct {
	Seq     int // 1-based
	Reading Reading
}

// #endregion emission
