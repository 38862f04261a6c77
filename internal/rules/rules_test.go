package rules

import (
	"testing"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
)

func neutral() features.Vector {
	return features.Vector{HeartRate: 75, SleepHours: 7, Diet: features.Vegetarian, Stress: 3, Mood: 3, Water: 2000}
}

func firedIDs(d Decision) []RuleID {
	ids := make([]RuleID, len(d.Fired))
	for i, f := range d.Fired {
		ids[i] = f.ID
	}
	return ids
}

func TestEvaluate_NoRulesKeepsBase(t *testing.T) {
	for _, base := range dosha.All {
		d := Evaluate(neutral(), base)
		if d.Final != base {
			t.Fatalf("expected final %s, got %s", base, d.Final)
		}
		if d.Votes.Total() != 1 || d.Votes.Get(base) != 1 {
			t.Fatalf("expected single base vote, got %v", d.Votes)
		}
		if len(d.Fired) != 0 {
			t.Fatalf("expected no fired rules, got %v", firedIDs(d))
		}
	}
}

func TestEvaluate_ScenarioA(t *testing.T) {
	v := features.Vector{HeartRate: 90, SleepHours: 4, Stress: 8, Mood: 2, Water: 1000, Diet: features.Mixed}

	d := Evaluate(v, dosha.Vata)

	want := dosha.VoteMap{3, 1, 0} // Vata, Pitta, Kapha
	if d.Votes != want {
		t.Fatalf("expected votes %v, got %v", want, d.Votes)
	}
	if d.Final != dosha.Vata {
		t.Fatalf("expected final Vata, got %s", d.Final)
	}
	ids := firedIDs(d)
	wantIDs := []RuleID{RuleHeatStress, RuleDepletion, RuleAcuteBurnout}
	if len(ids) != len(wantIDs) {
		t.Fatalf("expected %v, got %v", wantIDs, ids)
	}
	for i := range wantIDs {
		if ids[i] != wantIDs[i] {
			t.Fatalf("expected %v, got %v", wantIDs, ids)
		}
	}
}

func TestEvaluate_ScenarioAWithPittaBase(t *testing.T) {
	v := features.Vector{HeartRate: 90, SleepHours: 4, Stress: 8, Mood: 2, Water: 1000, Diet: features.Mixed}

	d := Evaluate(v, dosha.Pitta)

	want := dosha.VoteMap{2, 2, 0}
	if d.Votes != want {
		t.Fatalf("expected votes %v, got %v", want, d.Votes)
	}
	if d.Final != dosha.Vata {
		t.Fatalf("expected tie to resolve to Vata, got %s", d.Final)
	}
}

func TestEvaluate_ScenarioB(t *testing.T) {
	v := features.Vector{HeartRate: 65, SleepHours: 8.5, Stress: 2, Mood: 4, Water: 2500, Diet: features.Vegan}

	d := Evaluate(v, dosha.Kapha)

	if d.Votes != (dosha.VoteMap{0, 0, 2}) {
		t.Fatalf("expected Kapha 2, got %v", d.Votes)
	}
	if d.Final != dosha.Kapha {
		t.Fatalf("expected final Kapha, got %s", d.Final)
	}
}

func TestEvaluate_VoteSumMatchesFiredRules(t *testing.T) {
	vectors := []features.Vector{
		neutral(),
		{HeartRate: 90, SleepHours: 4, Stress: 8, Mood: 2, Diet: features.Mixed},
		{HeartRate: 60, SleepHours: 9, Stress: 9, Diet: features.Vegan},
		{HeartRate: 86, SleepHours: 5.9, Stress: 0, Diet: features.NonVeg},
		{HeartRate: 69, SleepHours: 8, Stress: 7, Diet: features.Mixed},
	}
	for i, v := range vectors {
		for _, base := range dosha.All {
			d := Evaluate(v, base)
			if d.Votes.Total() != 1+len(d.Fired) {
				t.Fatalf("vector %d base %s: total %d != 1+%d", i, base, d.Votes.Total(), len(d.Fired))
			}
			if d.Votes.Get(base) < 1 {
				t.Fatalf("vector %d: base %s lost its vote", i, base)
			}
		}
	}
}

func TestEvaluate_BoundaryThresholds(t *testing.T) {
	cases := []struct {
		name string
		v    features.Vector
		want []RuleID
	}{
		{"hr exactly 85 does not fire", features.Vector{HeartRate: 85, SleepHours: 7, Stress: 0}, nil},
		{"stress exactly 7 fires", features.Vector{HeartRate: 75, SleepHours: 7, Stress: 7}, []RuleID{RuleHeatStress}},
		{"sleep exactly 6 does not fire", features.Vector{HeartRate: 75, SleepHours: 6}, nil},
		{"hr 70 sleep 8 does not fire", features.Vector{HeartRate: 70, SleepHours: 8}, nil},
		{"hr 69 sleep 8 fires", features.Vector{HeartRate: 69, SleepHours: 8}, []RuleID{RuleHeavyRest}},
		{"burnout needs both", features.Vector{HeartRate: 75, SleepHours: 5, Stress: 8}, []RuleID{RuleHeatStress, RuleDepletion}},
	}
	for _, tc := range cases {
		got := firedIDs(Evaluate(tc.v, dosha.Vata))
		if len(got) != len(tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
			}
		}
	}
}

func TestEngine_CustomConfig(t *testing.T) {
	cfg := DefaultRuleConfig()
	cfg.HighHeartRate = 100
	e := NewEngine(cfg)

	d := e.Evaluate(features.Vector{HeartRate: 90, SleepHours: 7, Stress: 0}, dosha.Kapha)
	if len(d.Fired) != 0 {
		t.Fatalf("expected no rules with raised threshold, got %v", firedIDs(d))
	}
	if e.Config().HighHeartRate != 100 {
		t.Fatalf("expected config to be retained")
	}
}
