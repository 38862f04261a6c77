package logging

import (
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
)

// Trigger types written to provenance_log.trigger_type.
const (
	TriggerUserAnalysis = "user_analysis"
	TriggerReplay       = "replay"
)

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	AnalysisID  string
	TriggerType string
	SignalsJSON string
	Decision    string // final category name
	Reason      string
	CreatedAt   time.Time
}

// #endregion provenance-entry

// #region analysis-record
// AnalysisRecord captures the complete decision inputs for one analysis.
// Serialized as JSON into provenance_log.signals_json for deterministic replay.
type AnalysisRecord struct {
	Features features.Vector `json:"features"`
	Source   string          `json:"source"`

	// Scorer output
	Scores dosha.ScoreMap `json:"scores"`
	Base   dosha.Category `json:"base_prediction"`

	// Rule overlay
	Votes      dosha.VoteMap     `json:"votes"`
	Fired      []rules.FiredRule `json:"fired_rules"`
	Thresholds RecordThresholds  `json:"thresholds"`

	Final dosha.Category `json:"final_prediction"`
}

// RecordThresholds captures the rule config active at decision time.
type RecordThresholds struct {
	HighHeartRate int     `json:"high_heart_rate"`
	HighStress    int     `json:"high_stress"`
	ShortSleep    float64 `json:"short_sleep"`
	SlowHeartRate int     `json:"slow_heart_rate"`
	LongSleep     float64 `json:"long_sleep"`
	BurnoutStress int     `json:"burnout_stress"`
	BurnoutSleep  float64 `json:"burnout_sleep"`
}

// ThresholdsFrom copies a rule config into its JSON form.
func ThresholdsFrom(c rules.RuleConfig) RecordThresholds {
	return RecordThresholds{
		HighHeartRate: c.HighHeartRate,
		HighStress:    c.HighStress,
		ShortSleep:    c.ShortSleep,
		SlowHeartRate: c.SlowHeartRate,
		LongSleep:     c.LongSleep,
		BurnoutStress: c.BurnoutStress,
		BurnoutSleep:  c.BurnoutSleep,
	}
}

// RuleConfig converts the recorded thresholds back to a rule config.
func (t RecordThresholds) RuleConfig() rules.RuleConfig {
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

// #endregion analysis-record
