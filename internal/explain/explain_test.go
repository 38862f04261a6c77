package explain

import (
	"testing"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
)

func labels(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label
	}
	return out
}

func TestGenerate_ScenarioA(t *testing.T) {
	v := features.Vector{HeartRate: 90, SleepHours: 4, Stress: 8, Mood: 2, Water: 1000, Diet: features.Mixed}
	ranked := dosha.ScoreMap{1.10, 1.01, 0.42}.Rank()

	got := labels(Generate(v, ranked))

	want := []string{"High heart rate", "Short sleep", "High stress", "Low mood", "Mixed diet", ScoreOrderLabel}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGenerate_NoConditionsStillHasScoreOrder(t *testing.T) {
	v := features.Vector{HeartRate: 75, SleepHours: 7, Stress: 3, Mood: 4, Diet: features.Vegan}
	entries := Generate(v, dosha.ScoreMap{0.3, 0.2, 0.1}.Rank())

	if len(entries) != 1 {
		t.Fatalf("expected only the score entry, got %v", labels(entries))
	}
	if entries[0].Label != ScoreOrderLabel {
		t.Fatalf("expected %q, got %q", ScoreOrderLabel, entries[0].Label)
	}
	if entries[0].Reason != "Vata (0.30) > Pitta (0.20) > Kapha (0.10)" {
		t.Fatalf("unexpected score order: %q", entries[0].Reason)
	}
}

func TestGenerate_LowHeartLongSleep(t *testing.T) {
	v := features.Vector{HeartRate: 60, SleepHours: 8, Stress: 0, Mood: 3}
	got := labels(Generate(v, dosha.ScoreMap{}.Rank()))

	want := []string{"Low heart rate", "Long sleep", ScoreOrderLabel}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGenerate_BoundariesExcluded(t *testing.T) {
	// 85 and 65 are inside the normal band; 6h sleep is neither short nor long
	v := features.Vector{HeartRate: 85, SleepHours: 6, Stress: 6, Mood: 3}
	if n := len(Generate(v, nil)); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
	v.HeartRate = 65
	if n := len(Generate(v, nil)); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}
