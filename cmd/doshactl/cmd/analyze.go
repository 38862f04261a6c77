package cmd

import (
	"context"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/analysis"
	"github.com/danielpatrickdp/dosha-lens/internal/feed"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/spf13/cobra"
)

var (
	analyzeForm      features.Form
	analyzeUseSensor bool
	analyzeNoSave    bool
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate the dominant dosha",
	Long: "Scores the given metrics, applies the override rules and prints the recommendation.\n" +
		"Missing or malformed numbers count as zero (mood as 3); values are not range-checked.",
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeForm.HeartRate, "heart-rate", "", "Resting heart rate (bpm)")
	f.StringVar(&analyzeForm.SleepHours, "sleep", "", "Sleep last night (hours)")
	f.StringVar(&analyzeForm.Diet, "diet", string(features.Vegetarian), "Diet: Vegetarian, Mixed, Vegan or Non-Veg")
	f.StringVar(&analyzeForm.Stress, "stress", "", "Stress level (0-10)")
	f.StringVar(&analyzeForm.Mood, "mood", "", "Mood (1-5)")
	f.StringVar(&analyzeForm.Water, "water", "", "Water intake (ml)")
	f.BoolVar(&analyzeUseSensor, "sensor", false, "Take heart rate from the sensor")
	f.BoolVar(&analyzeNoSave, "no-save", false, "Do not record the analysis in history")
	f.BoolVar(&analyzeJSON, "json", false, "Output as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var producer *features.Producer
	source := "form"
	if analyzeUseSensor {
		src, closeSrc, err := feed.OpenSource(cfg.SensorAddr, cfg.SensorSeed)
		if err != nil {
			return err
		}
		defer closeSrc()
		producer = features.NewProducer(src, features.DefaultProducerConfig())
		source = "sensor"
	} else {
		producer = features.NewProducer(nil, features.DefaultProducerConfig())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	v := producer.Produce(ctx, analyzeForm, analyzeUseSensor)

	pipeline := analysis.NewPipeline(cfg.RuleConfig())
	svc := analysis.NewService(pipeline, nil)
	if !analyzeNoSave {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		svc = analysis.NewService(pipeline, store)
	}

	res, id, err := svc.Run(analysis.Request{Features: v, Source: source})
	if err != nil {
		return err
	}

	out := writer(cmd)
	if analyzeJSON {
		return out.JSON(struct {
			AnalysisID string `json:"analysis_id,omitempty"`
			analysis.Result
		}{id, res})
	}
	out.Analysis(res)
	return nil
}
