package replay

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
)

// #region fixture-tests

// TestFixture_Scenarios replays the reference scenarios and compares base and final
// predictions. If weights or rule thresholds change, this catches drift.
func TestFixture_Scenarios(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results := Replay(f.ToCases(), f.RuleConfig())
	if len(results) != len(f.Cases) {
		t.Fatalf("expected %d results, got %d", len(f.Cases), len(results))
	}
	for i, r := range results {
		if r.ID != f.Cases[i].ID {
			t.Errorf("case %d: expected id=%s, got %s", i, f.Cases[i].ID, r.ID)
		}
		if !r.Match {
			t.Errorf("case %s: %s", r.ID, r.Reason)
		}
	}

	s := Summarize(results)
	if s.Diverged() != 0 {
		t.Fatalf("expected no divergence, got %d", s.Diverged())
	}
}

func TestFixture_DefaultThresholds(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.RuleConfig() != rules.DefaultRuleConfig() {
		t.Fatalf("expected default thresholds, got %+v", f.RuleConfig())
	}
}

func TestParseFixture_Thresholds(t *testing.T) {
	f, err := ParseFixture([]byte(`{
		"thresholds": {"high_heart_rate": 95, "high_stress": 9, "short_sleep": 5, "slow_heart_rate": 60, "long_sleep": 9, "burnout_stress": 9, "burnout_sleep": 4},
		"cases": [{"id": "x", "features": {"heart_rate": 70}, "expected": {"base": "Vata", "final": "Vata"}}]
	}`))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if got := f.RuleConfig().HighHeartRate; got != 95 {
		t.Fatalf("expected high_heart_rate 95, got %d", got)
	}
	if f.Cases[0].Features.HeartRate != 70 {
		t.Fatalf("expected heart_rate 70, got %d", f.Cases[0].Features.HeartRate)
	}
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := map[string]string{
		"syntax":       `{"cases": [`,
		"no cases":     `{"description": "empty", "cases": []}`,
		"missing id":   `{"cases": [{"expected": {"base": "Vata", "final": "Vata"}}]}`,
		"duplicate id": `{"cases": [{"id": "a", "expected": {"base": "Vata", "final": "Vata"}}, {"id": "a", "expected": {"base": "Vata", "final": "Vata"}}]}`,
		"bad category": `{"cases": [{"id": "a", "expected": {"base": "Ojas", "final": "Vata"}}]}`,
		"no expected":  `{"cases": [{"id": "a"}]}`,
		"no base":      `{"cases": [{"id": "a", "expected": {"final": "Pitta"}}]}`,
		"no final":     `{"cases": [{"id": "a", "expected": {"base": "Pitta"}}]}`,
		"null final":   `{"cases": [{"id": "a", "expected": {"base": "Pitta", "final": null}}]}`,
	}
	for name, data := range tests {
		if _, err := ParseFixture([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseFixture_MissingExpectationNamesCase(t *testing.T) {
	_, err := ParseFixture([]byte(`{"cases": [
		{"id": "ok", "expected": {"base": "Kapha", "final": "Kapha"}},
		{"id": "typo", "expected": {"base": "Kapha", "finale": "Kapha"}}
	]}`))
	if err == nil {
		t.Fatal("expected error for missing expected.final")
	}
	if !strings.Contains(err.Error(), `"typo"`) || !strings.Contains(err.Error(), "expected.final") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "read fixture") {
		t.Fatalf("expected read error, got %v", err)
	}
}

// #endregion fixture-tests

func TestFixture_TieBreakCase(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	for _, r := range Replay(f.ToCases(), f.RuleConfig()) {
		if r.ID != "mixed-diet-tie" {
			continue
		}
		if r.Votes != (dosha.VoteMap{1, 1, 0}) {
			t.Fatalf("expected votes {1,1,0}, got %v", r.Votes)
		}
		if r.Final != dosha.Vata {
			t.Fatalf("expected tie to resolve to Vata, got %s", r.Final)
		}
		return
	}
	t.Fatal("mixed-diet-tie case not found")
}
