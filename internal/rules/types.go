package rules

import "github.com/danielpatrickdp/dosha-lens/internal/dosha"

// #region rule-id
// RuleID enumerates the override rules.
type RuleID string

const (
	RuleHeatStress   RuleID = "heat_stress"   // heart rate or stress high → Pitta
	RuleDepletion    RuleID = "depletion"     // short sleep or mixed diet → Vata
	RuleHeavyRest    RuleID = "heavy_rest"    // slow heart and long sleep → Kapha
	RuleAcuteBurnout RuleID = "acute_burnout" // very high stress and very short sleep → Vata
)

// #endregion rule-id

// #region fired-rule
// FiredRule records a rule whose condition held.
type FiredRule struct {
	ID     RuleID         `json:"id"`
	Target dosha.Category `json:"target"`
	Reason string         `json:"reason"`
}

// #endregion fired-rule

// #region rule-config
// RuleConfig holds the thresholds for the override rules.
type RuleConfig struct {
	HighHeartRate int     // rule 1: heart rate strictly above
	HighStress    int     // rule 1: stress at or above
	ShortSleep    float64 // rule 2: sleep strictly below
	SlowHeartRate int     // rule 3: heart rate strictly below
	LongSleep     float64 // rule 3: sleep at or above
	BurnoutStress int     // rule 4: stress at or above
	BurnoutSleep  float64 // rule 4: sleep strictly below
}

// DefaultRuleConfig returns the standard thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		HighHeartRate: 85,
		HighStress:    7,
		ShortSleep:    6,
		SlowHeartRate: 70,
		LongSleep:     8,
		BurnoutStress: 8,
		BurnoutSleep:  5,
	}
}

// #endregion rule-config

// #region decision
// Decision is the output of the rule overlay.
type Decision struct {
	Base  dosha.Category `json:"base_prediction"`
	Final dosha.Category `json:"final_prediction"`
	Votes dosha.VoteMap  `json:"votes"`
	Fired []FiredRule    `json:"fired,omitempty"`
}

// #endregion decision
