package scoring

import (
	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
)

// #region domains

// Domain is a closed [Min, Max] range used for normalization.
type Domain struct {
	Min float64
	Max float64
}

// Feature domains for the weighted model.
var (
	HeartRateDomain = Domain{50, 110}
	SleepDomain     = Domain{0, 12}
	StressDomain    = Domain{0, 10}
	MoodDomain      = Domain{1, 5}
	WaterDomain     = Domain{0, 4000}
)

// #endregion domains

// #region prediction

// Prediction is the output of the weighted scorer.
type Prediction struct {
	Scores dosha.ScoreMap `json:"scores"`
	Base   dosha.Category `json:"base_prediction"`
	Ranked []dosha.Ranked `json:"ranked_scores"`
}

// #endregion prediction

// #region normalize

// Normalize maps value into [0,1] relative to [min,max]. It does not clamp: values
// outside the domain produce results below 0 or above 1. A degenerate domain returns 0.5.
func Normalize(value, min, max float64) float64 {
	if min == max {
		return 0.5
	}
	return (value - min) / (max - min)
}

func (d Domain) normalize(value float64) float64 {
	return Normalize(value, d.Min, d.Max)
}

// #endregion normalize

// #region predict

// Predict computes a weighted score per category and picks the highest.
// Deterministic: the same vector always yields the same scores.
func Predict(v features.Vector) Prediction {
	hr := HeartRateDomain.normalize(float64(v.HeartRate))
	sleep := SleepDomain.normalize(v.SleepHours)
	stress := StressDomain.normalize(float64(v.Stress))
	mood := MoodDomain.normalize(float64(v.Mood))
	water := WaterDomain.normalize(float64(v.Water))
	diet := v.Diet.Code()

	var scores dosha.ScoreMap

	// Pitta: heart rate and stress, short sleep, a small bonus for elevated mood
	scores[dosha.Pitta] = 0.5*hr + 0.6*stress + 0.3*(1-sleep) + 0.1*ifElse(mood > 0.6, 0.4, 0)

	// Vata: short sleep, stress, mixed diet, low mood
	scores[dosha.Vata] = 0.5*(1-sleep) + 0.4*stress + 0.3*ifElse(diet == 1, 1, 0) + 0.2*(1-mood)

	// Kapha: low heart rate, long sleep, vegetarian diet, hydration
	scores[dosha.Kapha] = 0.6*(1-hr) + 0.5*sleep + 0.3*ifElse(diet == 0, 0.5, 0) + 0.2*water

	return Prediction{
		Scores: scores,
		Base:   scores.Top(),
		Ranked: scores.Rank(),
	}
}

// #endregion predict

// #region helpers
func ifElse(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// #endregion helpers
