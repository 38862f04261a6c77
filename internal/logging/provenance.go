package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout matches the fixed-width created_at format of the analyses table.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table.
func LogDecision(db Execer, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (analysis_id, trigger_type, signals_json, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.AnalysisID,
		entry.TriggerType,
		nullIfEmpty(entry.SignalsJSON),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region log-analysis
// LogAnalysis serializes rec into signals_json and writes the provenance row.
func LogAnalysis(db Execer, analysisID, triggerType, reason string, rec AnalysisRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal analysis record: %w", err)
	}
	return LogDecision(db, ProvenanceEntry{
		AnalysisID:  analysisID,
		TriggerType: triggerType,
		SignalsJSON: string(data),
		Decision:    rec.Final.String(),
		Reason:      reason,
	})
}

// ParseAnalysisRecord decodes a signals_json payload.
func ParseAnalysisRecord(signalsJSON string) (AnalysisRecord, error) {
	var rec AnalysisRecord
	if err := json.Unmarshal([]byte(signalsJSON), &rec); err != nil {
		return AnalysisRecord{}, fmt.Errorf("parse analysis record: %w", err)
	}
	return rec, nil
}

// #endregion log-analysis

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
