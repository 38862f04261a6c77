package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/danielpatrickdp/dosha-lens/internal/chart"
	"github.com/danielpatrickdp/dosha-lens/internal/feed"
	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
	"github.com/spf13/cobra"
)

var (
	streamCount int
	streamSleep float64
	streamJSON  bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream sensor readings",
	Long: "Prints sensor readings at the configured interval and a chart of the most recent ones.\n" +
		"Uses the remote feed when DOSHA_SENSOR_ADDR is set, the local simulator otherwise. Ctrl-C stops the stream.",
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	f := streamCmd.Flags()
	f.IntVarP(&streamCount, "count", "n", 10, "Number of readings")
	f.Float64Var(&streamSleep, "sleep", 0, "Sleep hours plotted alongside heart rate")
	f.BoolVar(&streamJSON, "json", false, "Output readings as JSON lines")
}

func runStream(cmd *cobra.Command, args []string) error {
	if streamCount <= 0 {
		return fmt.Errorf("--count must be positive, got %d", streamCount)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := writer(cmd)
	enc := json.NewEncoder(cmd.OutOrStdout())
	window := chart.NewWindow(cfg.ChartWindow)
	var encErr error
	emit := func(e sensor.Emission) {
		window.Push(chart.Point{At: e.Reading.At, HeartRate: e.Reading.HeartRate, SleepHours: streamSleep})
		if streamJSON {
			if err := enc.Encode(struct {
				Seq int `json:"seq"`
				sensor.Reading
			}{e.Seq, e.Reading}); err != nil && encErr == nil {
				encErr = err
			}
			return
		}
		out.Reading(e)
	}

	var err error
	if cfg.SensorAddr != "" {
		err = streamRemote(ctx, emit)
	} else {
		err = streamLocal(ctx, emit)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}
	if encErr != nil {
		return encErr
	}
	if !streamJSON {
		out.Chart(window.Points())
	}
	return nil
}

// streamLocal ticks the simulator here.
func streamLocal(ctx context.Context, emit func(sensor.Emission)) error {
	sim, err := feed.NewSimulator(cfg.SensorSeed)
	if err != nil {
		return err
	}
	return sensor.NewStreamer(sim, cfg.StreamInterval).Run(ctx, streamCount, emit)
}

// streamRemote lets the server pace the readings.
func streamRemote(ctx context.Context, emit func(sensor.Emission)) error {
	client, err := feed.NewClient(cfg.SensorAddr)
	if err != nil {
		return err
	}
	defer client.Close()
	if err := client.Stream(ctx, streamCount, emit); err != nil {
		if ctx.Err() != nil {
			return context.Canceled
		}
		return fmt.Errorf("stream from %s: %w", cfg.SensorAddr, err)
	}
	return nil
}

// parseCount reads an optional positional count.
func parseCount(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("count must be a positive integer, got %q", args[0])
	}
	return n, nil
}
