package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/danielpatrickdp/dosha-lens/internal/analysis"
	"github.com/danielpatrickdp/dosha-lens/internal/history"
	"github.com/danielpatrickdp/dosha-lens/internal/logging"
	"github.com/danielpatrickdp/dosha-lens/internal/replay"
	"github.com/spf13/cobra"
)

var (
	replayFixture string
	replayDB      string
	replayWatch   bool
	replayRecord  bool
)

var (
	exportOut  string
	exportLast int
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Recompute predictions and compare",
	Long: "Fixture mode recomputes each case of a JSON fixture; DB mode recomputes every recorded\n" +
		"user analysis with the thresholds it was recorded with. Exits 1 on any divergence.",
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFixture, "fixture", "", "Path to fixture JSON (fixture mode)")
	f.StringVar(&replayDB, "db", "", "Path to history DB (DB mode)")
	f.BoolVar(&replayWatch, "watch", false, "Re-run the fixture whenever it changes")
	f.BoolVar(&replayRecord, "record", false, "Record fixture cases in history as replay analyses")
	replayCmd.MarkFlagsMutuallyExclusive("fixture", "db")
	replayCmd.MarkFlagsOneRequired("fixture", "db")
	replayCmd.MarkFlagsMutuallyExclusive("db", "watch")

	ef := replayExportCmd.Flags()
	ef.StringVar(&exportOut, "out", "", "Output fixture JSON path")
	ef.IntVar(&exportLast, "last", 0, "Export only the N most recent analyses (0 = all)")
	replayExportCmd.MarkFlagRequired("out")
	replayCmd.AddCommand(replayExportCmd)
}

var replayExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write recorded analyses to a fixture",
	Long:  "Turns recorded user analyses from the history DB into a fixture usable with --fixture.",
	Args:  cobra.NoArgs,
	RunE:  runReplayExport,
}

func runReplayExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	cases, _, err := replay.FromProvenance(store.DB())
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no %s entries found in provenance_log", logging.TriggerUserAnalysis)
	}
	if exportLast > 0 && exportLast < len(cases) {
		cases = cases[len(cases)-exportLast:]
	}

	f, err := replay.ExportFixture(fmt.Sprintf("Exported from %s", cfg.DBPath), cases)
	if err != nil {
		return err
	}
	if err := replay.WriteFixture(exportOut, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cases to %s\n", len(cases), exportOut)
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if replayDB != "" {
		return exitFor(runDBMode(out, replayDB))
	}
	if !replayWatch {
		return exitFor(runFixtureMode(out, replayFixture))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	run := func() {
		if _, err := runFixtureMode(out, replayFixture); err != nil {
			log.Printf("replay: %v", err)
		}
	}
	run()
	fmt.Fprintf(out, "\nwatching %s (Ctrl-C to stop)\n", replayFixture)
	return replay.Watch(ctx, replayFixture, func() {
		fmt.Fprintln(out)
		run()
	})
}

// exitFor maps a replay summary to the command's exit status.
func exitFor(s replay.Summary, err error) error {
	if err != nil {
		return err
	}
	if s.Diverged() > 0 {
		return exitErr{code: 1}
	}
	return nil
}

// #region modes

func runFixtureMode(out io.Writer, path string) (replay.Summary, error) {
	f, err := replay.LoadFixture(path)
	if err != nil {
		return replay.Summary{}, err
	}
	cases := f.ToCases()
	results := replay.Replay(cases, f.RuleConfig())

	if replayRecord {
		if err := recordCases(cases, f); err != nil {
			return replay.Summary{}, err
		}
	}
	if f.Description != "" {
		fmt.Fprintf(out, "%s\n\n", f.Description)
	}
	return printComparison(out, results), nil
}

func runDBMode(out io.Writer, path string) (replay.Summary, error) {
	store, err := history.NewStore(path)
	if err != nil {
		return replay.Summary{}, fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	cases, skipped, err := replay.FromProvenance(store.DB())
	if err != nil {
		return replay.Summary{}, err
	}
	if len(cases) == 0 {
		return replay.Summary{}, fmt.Errorf("no %s entries found in provenance_log", logging.TriggerUserAnalysis)
	}
	if skipped > 0 {
		log.Printf("skipped %d provenance rows without a readable analysis record", skipped)
	}
	return printComparison(out, replay.Replay(cases, cfg.RuleConfig())), nil
}

// recordCases stores every fixture case through the analysis service so replays
// show up in history with trigger type replay.
func recordCases(cases []replay.Case, f *replay.Fixture) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := analysis.NewService(analysis.NewPipeline(f.RuleConfig()), store)
	for _, c := range cases {
		if _, _, err := svc.Run(analysis.Request{Features: c.Features, Source: "replay", Trigger: logging.TriggerReplay}); err != nil {
			return fmt.Errorf("record case %s: %w", c.ID, err)
		}
	}
	return nil
}

// #endregion modes

// #region output

// printComparison outputs a comparison table and returns the summary.
func printComparison(out io.Writer, results []replay.Result) replay.Summary {
	fmt.Fprintf(out, "%-24s| %-15s| %-15s| %s\n", "Case", "Expected", "Replayed", "Match")
	fmt.Fprintf(out, "%-24s+%-15s+%-15s+%s\n",
		"------------------------", "----------------", "----------------", "------")

	for _, r := range results {
		match := "OK"
		if !r.Match {
			match = "DIFF (" + r.Reason + ")"
		}
		exp := fmt.Sprintf("%s/%s", r.Expected.Base, r.Expected.Final)
		got := fmt.Sprintf("%s/%s", r.Base, r.Final)
		fmt.Fprintf(out, "%-24s| %-15s| %-15s| %s\n", shortCaseID(r.ID), exp, got, match)
	}

	s := replay.Summarize(results)
	fmt.Fprintf(out, "\nSummary: %d total, %d match, %d diverge\n", s.Total, s.Matches, s.Diverged())
	return s
}

func shortCaseID(id string) string {
	if len(id) > 24 {
		return id[:24]
	}
	return id
}

// #endregion output
