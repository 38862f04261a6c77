package history

import (
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
)

// #region analysis-record
// Record is one persisted analysis.
type Record struct {
	AnalysisID string
	Source     string // "form" | "sensor" | "replay"
	Features   features.Vector
	Scores     dosha.ScoreMap
	Base       dosha.Category
	Votes      dosha.VoteMap
	Final      dosha.Category
	CreatedAt  time.Time
}

// #endregion analysis-record

// #region record-with-provenance
// RecordWithProvenance pairs an analysis with its provenance row fields.
type RecordWithProvenance struct {
	Record
	Decision    string
	Reason      string
	SignalsJSON string
}

// #endregion record-with-provenance
