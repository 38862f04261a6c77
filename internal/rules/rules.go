package rules

import (
	"fmt"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
)

// #region engine
// Engine applies the override rules on top of the scorer's base prediction.
type Engine struct {
	config RuleConfig
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(config RuleConfig) *Engine {
	return &Engine{config: config}
}

// Config returns the thresholds in effect.
func (e *Engine) Config() RuleConfig {
	return e.config
}

// Evaluate seeds one vote for base, then checks every rule independently.
// Each rule that holds adds one vote to its target; the final prediction is the vote leader.
func (e *Engine) Evaluate(v features.Vector, base dosha.Category) Decision {
	var votes dosha.VoteMap
	votes.Add(base)

	var fired []FiredRule
	c := e.config

	// 1. Heat and stress
	if v.HeartRate > c.HighHeartRate || v.Stress >= c.HighStress {
		fired = append(fired, FiredRule{
			ID:     RuleHeatStress,
			Target: dosha.Pitta,
			Reason: fmt.Sprintf("heart rate %d > %d or stress %d >= %d", v.HeartRate, c.HighHeartRate, v.Stress, c.HighStress),
		})
	}

	// 2. Short sleep or irregular diet
	if v.SleepHours < c.ShortSleep || v.Diet == features.Mixed {
		fired = append(fired, FiredRule{
			ID:     RuleDepletion,
			Target: dosha.Vata,
			Reason: fmt.Sprintf("sleep %.1fh < %.1fh or diet %q", v.SleepHours, c.ShortSleep, v.Diet),
		})
	}

	// 3. Slow heart with long sleep
	if v.HeartRate < c.SlowHeartRate && v.SleepHours >= c.LongSleep {
		fired = append(fired, FiredRule{
			ID:     RuleHeavyRest,
			Target: dosha.Kapha,
			Reason: fmt.Sprintf("heart rate %d < %d and sleep %.1fh >= %.1fh", v.HeartRate, c.SlowHeartRate, v.SleepHours, c.LongSleep),
		})
	}

	// 4. Acute burnout stacks with rule 2
	if v.Stress >= c.BurnoutStress && v.SleepHours < c.BurnoutSleep {
		fired = append(fired, FiredRule{
			ID:     RuleAcuteBurnout,
			Target: dosha.Vata,
			Reason: fmt.Sprintf("stress %d >= %d and sleep %.1fh < %.1fh", v.Stress, c.BurnoutStress, v.SleepHours, c.BurnoutSleep),
		})
	}

	for _, f := range fired {
		votes.Add(f.Target)
	}

	return Decision{
		Base:  base,
		Final: votes.Top(),
		Votes: votes,
		Fired: fired,
	}
}

// #endregion engine

// #region default
var defaultEngine = NewEngine(DefaultRuleConfig())

// Evaluate runs the rule overlay with the default thresholds.
func Evaluate(v features.Vector, base dosha.Category) Decision {
	return defaultEngine.Evaluate(v, base)
}

// #endregion default
