package logging

import (
	"database/sql"
	"testing"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TABLE provenance_log (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id  TEXT NOT NULL,
		trigger_type TEXT NOT NULL,
		signals_json TEXT,
		decision     TEXT NOT NULL,
		reason       TEXT,
		created_at   TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-decision-tests
func TestLogDecision_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := ProvenanceEntry{
		AnalysisID:  "a1",
		TriggerType: TriggerUserAnalysis,
		SignalsJSON: `{"final_prediction":"Vata"}`,
		Decision:    "Vata",
		Reason:      "rules fired: depletion",
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	err := LogDecision(db, entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM provenance_log").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var analysisID, decision string
	db.QueryRow("SELECT analysis_id, decision FROM provenance_log").Scan(&analysisID, &decision)
	if analysisID != "a1" {
		t.Errorf("expected analysis_id 'a1', got %q", analysisID)
	}
	if decision != "Vata" {
		t.Errorf("expected decision 'Vata', got %q", decision)
	}
}

func TestLogDecision_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	before := time.Now().UTC()
	err := LogDecision(db, ProvenanceEntry{
		AnalysisID:  "a2",
		TriggerType: TriggerReplay,
		Decision:    "Kapha",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM provenance_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogDecision_EmptyOptionalFields(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	err := LogDecision(db, ProvenanceEntry{
		AnalysisID:  "a3",
		TriggerType: TriggerUserAnalysis,
		Decision:    "Pitta",
		CreatedAt:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var signalsJSON, reason sql.NullString
	db.QueryRow("SELECT signals_json, reason FROM provenance_log").Scan(&signalsJSON, &reason)
	if signalsJSON.Valid {
		t.Error("expected NULL signals_json for empty string")
	}
	if reason.Valid {
		t.Error("expected NULL reason for empty string")
	}
}

func TestLogDecision_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	err := LogDecision(db, ProvenanceEntry{AnalysisID: "a4", TriggerType: TriggerUserAnalysis, Decision: "Vata"})
	if err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-decision-tests

// #region log-analysis-tests
func TestLogAnalysis_RoundTrip(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	rec := AnalysisRecord{
		Features:   features.Vector{HeartRate: 90, SleepHours: 4, Diet: features.Mixed, Stress: 8, Mood: 2, Water: 1000},
		Source:     "form",
		Scores:     dosha.ScoreMap{1.1, 1.0, 0.4},
		Base:       dosha.Vata,
		Votes:      dosha.VoteMap{3, 1, 0},
		Fired:      []rules.FiredRule{{ID: rules.RuleDepletion, Target: dosha.Vata, Reason: "short sleep"}},
		Thresholds: ThresholdsFrom(rules.DefaultRuleConfig()),
		Final:      dosha.Vata,
	}

	if err := LogAnalysis(db, "a5", TriggerUserAnalysis, "fired: depletion", rec); err != nil {
		t.Fatalf("LogAnalysis: %v", err)
	}

	var signals, decision string
	db.QueryRow("SELECT signals_json, decision FROM provenance_log WHERE analysis_id = 'a5'").Scan(&signals, &decision)
	if decision != "Vata" {
		t.Fatalf("expected decision Vata, got %q", decision)
	}

	got, err := ParseAnalysisRecord(signals)
	if err != nil {
		t.Fatalf("ParseAnalysisRecord: %v", err)
	}
	if got.Features != rec.Features {
		t.Errorf("features: expected %+v, got %+v", rec.Features, got.Features)
	}
	if got.Votes != rec.Votes || got.Scores != rec.Scores {
		t.Errorf("votes/scores mismatch: %v %v", got.Votes, got.Scores)
	}
	if got.Thresholds.RuleConfig() != rules.DefaultRuleConfig() {
		t.Errorf("thresholds did not round trip: %+v", got.Thresholds)
	}
	if len(got.Fired) != 1 || got.Fired[0].ID != rules.RuleDepletion {
		t.Errorf("fired rules mismatch: %+v", got.Fired)
	}
}

func TestParseAnalysisRecord_Invalid(t *testing.T) {
	if _, err := ParseAnalysisRecord("{not json"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseAnalysisRecord(`{"base_prediction":"Ojas"}`); err == nil {
		t.Fatal("expected unknown category error")
	}
}

// #endregion log-analysis-tests

// #region null-if-empty-tests
func TestNullIfEmpty_Empty(t *testing.T) {
	result := nullIfEmpty("")
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestNullIfEmpty_NonEmpty(t *testing.T) {
	result := nullIfEmpty("hello")
	if result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
