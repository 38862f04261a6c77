package replay

import (
	"database/sql"
	"fmt"

	"github.com/danielpatrickdp/dosha-lens/internal/logging"
)

// #region db-extract

// FromProvenance builds cases from user_analysis rows in provenance_log, oldest first.
// Each case carries the thresholds recorded with it. Rows whose signals_json is
// missing or unreadable are skipped and counted.
func FromProvenance(db *sql.DB) ([]Case, int, error) {
	rows, err := db.Query(
		`SELECT analysis_id, signals_json FROM provenance_log
		 WHERE trigger_type = ? ORDER BY created_at ASC, id ASC`,
		logging.TriggerUserAnalysis,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query provenance: %w", err)
	}
	defer rows.Close()

	var cases []Case
	skipped := 0
	for rows.Next() {
		var id string
		var signals sql.NullString
		if err := rows.Scan(&id, &signals); err != nil {
			return nil, 0, fmt.Errorf("scan row: %w", err)
		}
		if !signals.Valid || signals.String == "" {
			skipped++
			continue
		}
		rec, err := logging.ParseAnalysisRecord(signals.String)
		if err != nil {
			skipped++
			continue
		}
		cfg := rec.Thresholds.RuleConfig()
		cases = append(cases, Case{
			ID:       id,
			Features: rec.Features,
			Expected: Expectation{Base: rec.Base, Final: rec.Final},
			Config:   &cfg,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return cases, skipped, nil
}

// #endregion db-extract
