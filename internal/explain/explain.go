package explain

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
)

// #region thresholds
const (
	highHeartRate = 85
	lowHeartRate  = 65
	shortSleep    = 6.0
	longSleep     = 8.0
	highStress    = 7
	lowMood       = 2
)

// ScoreOrderLabel is the label of the trailing entry produced by Generate.
const ScoreOrderLabel = "Model scores"

// #endregion thresholds

// #region entry

// Entry is one human-readable reason behind an analysis.
type Entry struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// #endregion entry

// #region generate

// Generate describes which inputs stand out, one entry per true condition, in a fixed
// order, followed by an entry listing the ranked scores. It is descriptive only.
func Generate(v features.Vector, ranked []dosha.Ranked) []Entry {
	var out []Entry

	// 1. Heart rate
	switch {
	case v.HeartRate > highHeartRate:
		out = append(out, Entry{
			Label:  "High heart rate",
			Reason: fmt.Sprintf("Resting heart rate of %d bpm is above %d, a sign of excess heat (Pitta).", v.HeartRate, highHeartRate),
		})
	case v.HeartRate < lowHeartRate:
		out = append(out, Entry{
			Label:  "Low heart rate",
			Reason: fmt.Sprintf("Resting heart rate of %d bpm is below %d, pointing to a slower, steadier constitution (Kapha).", v.HeartRate, lowHeartRate),
		})
	}

	// 2. Sleep
	switch {
	case v.SleepHours < shortSleep:
		out = append(out, Entry{
			Label:  "Short sleep",
			Reason: fmt.Sprintf("%.1f hours of sleep is under %.0f, which aggravates Vata.", v.SleepHours, shortSleep),
		})
	case v.SleepHours >= longSleep:
		out = append(out, Entry{
			Label:  "Long sleep",
			Reason: fmt.Sprintf("%.1f hours of sleep is %.0f or more, typical of Kapha.", v.SleepHours, longSleep),
		})
	}

	// 3. Stress
	if v.Stress >= highStress {
		out = append(out, Entry{
			Label:  "High stress",
			Reason: fmt.Sprintf("Stress level %d/10 raises both Pitta and Vata.", v.Stress),
		})
	}

	// 4. Mood
	if v.Mood <= lowMood {
		out = append(out, Entry{
			Label:  "Low mood",
			Reason: fmt.Sprintf("Mood of %d/5 is associated with Vata imbalance.", v.Mood),
		})
	}

	// 5. Diet
	if v.Diet == features.Mixed {
		out = append(out, Entry{
			Label:  "Mixed diet",
			Reason: "An irregular, mixed diet tends to unsettle Vata.",
		})
	}

	return append(out, Entry{Label: ScoreOrderLabel, Reason: ScoreOrder(ranked)})
}

// ScoreOrder formats ranked scores as "Vata (1.10) > Pitta (1.01) > Kapha (0.42)".
func ScoreOrder(ranked []dosha.Ranked) string {
	parts := make([]string, len(ranked))
	for i, r := range ranked {
		parts[i] = fmt.Sprintf("%s (%.2f)", r.Category, r.Score)
	}
	return strings.Join(parts, " > ")
}

// #endregion generate
