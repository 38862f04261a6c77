// Package report renders analyses, stream readings and logs for terminals.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danielpatrickdp/dosha-lens/internal/analysis"
	"github.com/danielpatrickdp/dosha-lens/internal/chart"
	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/feedback"
	"github.com/danielpatrickdp/dosha-lens/internal/history"
	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// #region printer

// Writer formats output with locale-aware number grouping.
type Writer struct {
	w io.Writer
	p *message.Printer
}

// New creates a Writer using English number formatting.
func New(w io.Writer) *Writer {
	return NewWithLanguage(w, language.English)
}

// NewWithLanguage creates a Writer for the given locale.
func NewWithLanguage(w io.Writer, tag language.Tag) *Writer {
	return &Writer{w: w, p: message.NewPrinter(tag)}
}

func (r *Writer) printf(format string, args ...any) {
	r.p.Fprintf(r.w, format, args...)
}

// JSON writes v as indented JSON.
func (r *Writer) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(r.w, string(data))
	return err
}

// #endregion printer

// #region analysis

// Analysis prints the prediction, the rule overlay, the recommendation and the explanations.
func (r *Writer) Analysis(res analysis.Result) {
	f := res.Features
	r.printf("Inputs:     %d bpm | %.1f h sleep | %s diet | stress %d/10 | mood %d/5 | %d ml water\n",
		f.HeartRate, f.SleepHours, f.Diet, f.Stress, f.Mood, f.Water)

	r.printf("\nScores:\n")
	for _, rk := range res.Prediction.Ranked {
		r.printf("  %-6s %8.4f\n", rk.Category, rk.Score)
	}
	r.printf("Base:       %s\n", res.Prediction.Base)

	d := res.Decision
	r.printf("Votes:      Vata %d | Pitta %d | Kapha %d\n", d.Votes.Get(dosha.Vata), d.Votes.Get(dosha.Pitta), d.Votes.Get(dosha.Kapha))
	if len(d.Fired) == 0 {
		r.printf("Rules:      none fired\n")
	}
	for _, fr := range d.Fired {
		r.printf("Rule:       %-14s → %-6s (%s)\n", fr.ID, fr.Target, fr.Reason)
	}
	r.printf("Final:      %s\n", d.Final)

	rec := res.Recommendation
	r.printf("\n%s\n", rec.Summary)
	r.list("Characteristics", rec.Characteristics)
	r.list("Diet", rec.Diet)
	r.list("Herbs", rec.Herbs)
	r.list("Yoga", rec.Yoga)
	r.list("Routine", rec.Routine)

	r.printf("\nWhy:\n")
	for _, e := range res.Explanations {
		r.printf("  %s: %s\n", e.Label, e.Reason)
	}
}

func (r *Writer) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	r.printf("%s:\n", title)
	for _, it := range items {
		r.printf("  - %s\n", it)
	}
}

// #endregion analysis

// #region stream

// Reading prints one streamed reading as a log line.
func (r *Writer) Reading(e sensor.Emission) {
	rd := e.Reading
	r.printf("[%s] #%d HR: %d bpm | Temp: %.1f°C | Humidity: %d%%\n",
		rd.At.Local().Format("15:04:05"), e.Seq, rd.HeartRate, rd.Temperature, rd.Humidity)
}

// Chart prints the chart window as a text sparkline of heart rate.
func (r *Writer) Chart(points []chart.Point) {
	if len(points) == 0 {
		r.printf("Chart: no data\n")
		return
	}
	lo, hi := heartRange(points)
	r.printf("Chart (%d points, HR %d–%d bpm, sleep %.1f h): %s\n",
		len(points), lo, hi, points[len(points)-1].SleepHours, Sparkline(points))
}

var bars = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps each point's heart rate onto eight block heights.
func Sparkline(points []chart.Point) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := heartRange(points)
	var sb strings.Builder
	for _, p := range points {
		idx := 0
		if hi > lo {
			idx = (p.HeartRate - lo) * (len(bars) - 1) / (hi - lo)
		}
		sb.WriteRune(bars[idx])
	}
	return sb.String()
}

func heartRange(points []chart.Point) (lo, hi int) {
	lo, hi = points[0].HeartRate, points[0].HeartRate
	for _, p := range points[1:] {
		lo = min(lo, p.HeartRate)
		hi = max(hi, p.HeartRate)
	}
	return lo, hi
}

// #endregion stream

// #region feedback

// Feedback prints the feedback log, oldest first.
func (r *Writer) Feedback(records []feedback.Record) {
	if len(records) == 0 {
		r.printf("No feedback recorded.\n")
		return
	}
	sum := 0
	for _, rec := range records {
		sum += rec.Value
		r.printf("  %-30s %d\n", rec.Timestamp, rec.Value)
	}
	r.printf("%d entries, average %.2f\n", len(records), float64(sum)/float64(len(records)))
}

// #endregion feedback

// #region history

// History prints analyses as a table, newest first.
func (r *Writer) History(rows []history.RecordWithProvenance) {
	if len(rows) == 0 {
		r.printf("No analyses recorded.\n")
		return
	}
	r.printf("%-10s  %-6s  %-6s  %-6s  %-7s  %s\n", "Analysis", "Source", "Base", "Final", "Votes", "Time")
	r.printf("%-10s+-%-6s+-%-6s+-%-6s+-%-7s+-%s\n", "----------", "------", "------", "------", "-------", "--------------------")
	for _, row := range rows {
		v := row.Votes
		r.printf("%-10s  %-6s  %-6s  %-6s  %d/%d/%d    %s\n",
			ShortID(row.AnalysisID), row.Source, row.Base, row.Final,
			v.Get(dosha.Vata), v.Get(dosha.Pitta), v.Get(dosha.Kapha),
			row.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	r.printf("\n%d analyses\n", len(rows))
}

// ShortID truncates an id for table display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion history
