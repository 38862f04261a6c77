package cmd

import (
	"database/sql"
	"fmt"

	"github.com/danielpatrickdp/dosha-lens/internal/explain"
	"github.com/danielpatrickdp/dosha-lens/internal/history"
	"github.com/danielpatrickdp/dosha-lens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	historyLast int
	historyID   string
	historyJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded analyses",
	Long:  "Lists recent analyses newest first, or shows one analysis with its provenance record.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVar(&historyLast, "last", 20, "Show N most recent analyses (0 = all)")
	f.StringVar(&historyID, "id", "", "Show a single analysis in detail")
	f.BoolVar(&historyJSON, "json", false, "Output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if historyID != "" {
		return runHistoryDetail(cmd, store, historyID)
	}

	rows, err := store.ListWithProvenance(historyLast)
	if err != nil {
		return err
	}
	if historyJSON {
		return writer(cmd).JSON(rows)
	}
	writer(cmd).History(rows)
	return nil
}

// #region detail

type historyDetail struct {
	AnalysisID string                  `json:"analysis_id"`
	Source     string                  `json:"source"`
	CreatedAt  string                  `json:"created_at"`
	Decision   string                  `json:"decision"`
	Reason     string                  `json:"reason"`
	Record     *logging.AnalysisRecord `json:"record,omitempty"`
}

func runHistoryDetail(cmd *cobra.Command, store *history.Store, id string) error {
	rec, err := store.Get(id)
	if err != nil {
		return err
	}
	out := historyDetail{
		AnalysisID: rec.AnalysisID,
		Source:     rec.Source,
		CreatedAt:  rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Decision:   rec.Final.String(),
	}

	// latest provenance row for this analysis
	var signals, reason sql.NullString
	err = store.DB().QueryRow(
		`SELECT signals_json, reason FROM provenance_log WHERE analysis_id = ? ORDER BY id DESC LIMIT 1`, id,
	).Scan(&signals, &reason)
	if err == nil {
		out.Reason = reason.String
		if ar, perr := logging.ParseAnalysisRecord(signals.String); signals.Valid && perr == nil {
			out.Record = &ar
		}
	}

	w := writer(cmd)
	if historyJSON {
		return w.JSON(out)
	}

	o := cmd.OutOrStdout()
	fmt.Fprintf(o, "Analysis:  %s\n", out.AnalysisID)
	fmt.Fprintf(o, "Source:    %s\n", out.Source)
	fmt.Fprintf(o, "Created:   %s\n", out.CreatedAt)
	fmt.Fprintf(o, "Final:     %s\n", out.Decision)
	fmt.Fprintf(o, "Reason:    %s\n", out.Reason)
	if out.Record != nil {
		r := out.Record
		fmt.Fprintf(o, "\nRecorded:\n")
		fmt.Fprintf(o, "  Base:    %s\n", r.Base)
		fmt.Fprintf(o, "  Scores:  %s\n", explain.ScoreOrder(r.Scores.Rank()))
		for _, fr := range r.Fired {
			fmt.Fprintf(o, "  Rule:    %s → %s\n", fr.ID, fr.Target)
		}
	}
	return nil
}

// #endregion detail
