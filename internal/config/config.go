// Package config loads process configuration from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
	"github.com/joho/godotenv"
)

// #region config
// Config holds every tunable of the controller and CLI.
type Config struct {
	DBPath         string        `env:"DOSHA_DB"              envDefault:"dosha_history.db"`
	FeedbackDBPath string        `env:"DOSHA_FEEDBACK_DB"     envDefault:"dosha_feedback.db"`
	SensorAddr     string        `env:"DOSHA_SENSOR_ADDR"`
	StreamInterval time.Duration `env:"DOSHA_STREAM_INTERVAL" envDefault:"450ms"`

	// SensorSeed seeds the simulator; 0 draws a random seed.
	SensorSeed       uint64 `env:"DOSHA_SENSOR_SEED"       envDefault:"0"`
	FeedbackCapacity int    `env:"DOSHA_FEEDBACK_CAPACITY" envDefault:"50"`
	ChartWindow      int    `env:"DOSHA_CHART_WINDOW"      envDefault:"12"`

	Rules RuleThresholds `envPrefix:"DOSHA_RULE_"`
}

// RuleThresholds mirrors rules.RuleConfig with env bindings.
type RuleThresholds struct {
	HighHeartRate int     `env:"HIGH_HEART_RATE" envDefault:"85"`
	HighStress    int     `env:"HIGH_STRESS"     envDefault:"7"`
	ShortSleep    float64 `env:"SHORT_SLEEP"     envDefault:"6"`
	SlowHeartRate int     `env:"SLOW_HEART_RATE" envDefault:"70"`
	LongSleep     float64 `env:"LONG_SLEEP"      envDefault:"8"`
	BurnoutStress int     `env:"BURNOUT_STRESS"  envDefault:"8"`
	BurnoutSleep  float64 `env:"BURNOUT_SLEEP"   envDefault:"5"`
}

// #endregion config

// #region load
// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	switch {
	case c.StreamInterval <= 0:
		return fmt.Errorf("DOSHA_STREAM_INTERVAL must be positive, got %s", c.StreamInterval)
	case c.FeedbackCapacity <= 0:
		return fmt.Errorf("DOSHA_FEEDBACK_CAPACITY must be positive, got %d", c.FeedbackCapacity)
	case c.ChartWindow <= 0:
		return fmt.Errorf("DOSHA_CHART_WINDOW must be positive, got %d", c.ChartWindow)
	}
	return nil
}

// #endregion load

// RuleConfig converts the thresholds for the rule engine.
func (c Config) RuleConfig() rules.RuleConfig {
	t := c.Rules
	return rules.RuleConfig{
		HighHeartRate: t.HighHeartRate,
		HighStress:    t.HighStress,
		ShortSleep:    t.ShortSleep,
		SlowHeartRate: t.SlowHeartRate,
		LongSleep:     t.LongSleep,
		BurnoutStress: t.BurnoutStress,
		BurnoutSleep:  t.BurnoutSleep,
	}
}
