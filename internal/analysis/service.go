package analysis

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/history"
	"github.com/danielpatrickdp/dosha-lens/internal/logging"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
)

// #region service
// Service runs analyses and records each one with its provenance.
type Service struct {
	pipeline *Pipeline
	store    *history.Store
}

// NewService creates a service. store may be nil, in which case nothing is persisted.
func NewService(pipeline *Pipeline, store *history.Store) *Service {
	return &Service{pipeline: pipeline, store: store}
}

// Run analyzes req.Features and, when a store is attached, saves the analysis and its
// provenance row in one transaction. The returned id is empty when nothing was persisted.
// A persistence failure still returns the computed result alongside the error.
func (s *Service) Run(req Request) (Result, string, error) {
	res := s.pipeline.Analyze(req.Features)
	if s.store == nil {
		return res, "", nil
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = logging.TriggerUserAnalysis
	}
	record := ProvenanceRecord(req.Source, res, s.pipeline.RuleConfig())

	rec, err := s.store.SaveWith(history.Record{
		Source:   req.Source,
		Features: res.Features,
		Scores:   res.Prediction.Scores,
		Base:     res.Prediction.Base,
		Votes:    res.Decision.Votes,
		Final:    res.Decision.Final,
	}, func(tx *sql.Tx, rec history.Record) error {
		if err := logging.LogAnalysis(tx, rec.AnalysisID, trigger, Reason(res.Decision), record); err != nil {
			return fmt.Errorf("log provenance: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, "", fmt.Errorf("save analysis: %w", err)
	}
	return res, rec.AnalysisID, nil
}

// #endregion service

// #region request
// Request is one analysis invocation.
type Request struct {
	Features features.Vector
	Source   string // "form" | "sensor" | "replay"
	Trigger  string // provenance trigger type, defaults to user_analysis
}

// #endregion request

// #region provenance
// ProvenanceRecord builds the JSON payload stored in provenance_log.signals_json.
func ProvenanceRecord(source string, res Result, config rules.RuleConfig) logging.AnalysisRecord {
	return logging.AnalysisRecord{
		Features:   res.Features,
		Source:     source,
		Scores:     res.Prediction.Scores,
		Base:       res.Prediction.Base,
		Votes:      res.Decision.Votes,
		Fired:      res.Decision.Fired,
		Thresholds: logging.ThresholdsFrom(config),
		Final:      res.Decision.Final,
	}
}

// Reason summarizes why the final prediction was reached.
func Reason(d rules.Decision) string {
	if len(d.Fired) == 0 {
		return fmt.Sprintf("base prediction %s kept: no rules fired", d.Base)
	}
	ids := make([]string, len(d.Fired))
	for i, f := range d.Fired {
		ids[i] = string(f.ID)
	}
	return fmt.Sprintf("base %s, rules fired: %s → %s", d.Base, strings.Join(ids, ", "), d.Final)
}

// #endregion provenance
