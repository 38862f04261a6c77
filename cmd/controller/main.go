package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/analysis"
	"github.com/danielpatrickdp/dosha-lens/internal/chart"
	"github.com/danielpatrickdp/dosha-lens/internal/config"
	"github.com/danielpatrickdp/dosha-lens/internal/feed"
	"github.com/danielpatrickdp/dosha-lens/internal/feedback"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/history"
	"github.com/danielpatrickdp/dosha-lens/internal/report"
	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
)

const defaultStreamCount = 10

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := history.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer store.Close()

	fb, err := feedback.NewStore(cfg.FeedbackDBPath, cfg.FeedbackCapacity)
	if err != nil {
		log.Fatalf("failed to open feedback store: %v", err)
	}
	defer fb.Close()

	src, closeSrc, err := feed.OpenSource(cfg.SensorAddr, cfg.SensorSeed)
	if err != nil {
		log.Fatalf("failed to open sensor at %q: %v", cfg.SensorAddr, err)
	}
	defer closeSrc()

	s := &session{
		producer: features.NewProducer(src, features.DefaultProducerConfig()),
		service:  analysis.NewService(analysis.NewPipeline(cfg.RuleConfig()), store),
		streamer: sensor.NewStreamer(src, cfg.StreamInterval),
		window:   chart.NewWindow(cfg.ChartWindow),
		feedback: fb,
		out:      report.New(os.Stdout),
		in:       bufio.NewScanner(os.Stdin),
	}

	sensorDesc := "simulator"
	if cfg.SensorAddr != "" {
		sensorDesc = cfg.SensorAddr
	}
	fmt.Println("Dosha controller ready.")
	fmt.Printf("  DB: %s | Feedback: %s | Sensor: %s\n", cfg.DBPath, cfg.FeedbackDBPath, sensorDesc)
	fmt.Println("Commands: analyze | stream [n] | feedback <1-5> | feedback | quit")

	for {
		fmt.Print("> ")
		if !s.in.Scan() {
			break
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "analyze", "a":
			s.analyze()
		case "stream", "s":
			s.stream(fields[1:])
		case "feedback", "f":
			s.rate(fields[1:])
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

// #endregion main

// #region session
type session struct {
	producer *features.Producer
	service  *analysis.Service
	streamer *sensor.Streamer
	window   *chart.Window
	feedback *feedback.Store
	out      *report.Writer
	in       *bufio.Scanner

	lastSleep float64
}

func (s *session) analyze() {
	form := features.Form{
		HeartRate:  s.ask("Heart rate (bpm)", "72"),
		SleepHours: s.ask("Sleep (hours)", "7"),
		Diet:       s.ask("Diet (Vegetarian/Mixed/Vegan/Non-Veg)", string(features.Vegetarian)),
		Stress:     s.ask("Stress (0-10)", "5"),
		Mood:       s.ask("Mood (1-5)", "3"),
		Water:      s.ask("Water (ml)", "2000"),
	}
	useSensor := strings.HasPrefix(strings.ToLower(s.ask("Use sensor heart rate? (y/N)", "n")), "y")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	v := s.producer.Produce(ctx, form, useSensor)
	cancel()

	source := "form"
	if useSensor {
		source = "sensor"
	}
	res, id, err := s.service.Run(analysis.Request{Features: v, Source: source})
	if err != nil {
		log.Printf("persist analysis: %v", err)
	}
	s.lastSleep = v.SleepHours

	fmt.Println()
	s.out.Analysis(res)
	if id != "" {
		fmt.Printf("\n[%s] final=%s\n", report.ShortID(id), res.Decision.Final)
	}
}

func (s *session) stream(args []string) {
	count := defaultStreamCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Println("usage: stream [n]  (n > 0)")
			return
		}
		count = n
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := s.streamer.Run(ctx, count, func(e sensor.Emission) {
		s.out.Reading(e)
		s.window.Push(chart.Point{At: e.Reading.At, HeartRate: e.Reading.HeartRate, SleepHours: s.lastSleep})
	})
	if err != nil {
		log.Printf("stream stopped: %v", err)
	}
	s.out.Chart(s.window.Points())
}

func (s *session) rate(args []string) {
	if len(args) == 0 {
		records, err := s.feedback.List()
		if err != nil {
			log.Printf("list feedback: %v", err)
			return
		}
		s.out.Feedback(records)
		return
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("usage: feedback <1-5>")
		return
	}
	if _, err := s.feedback.Append(v, time.Now()); err != nil {
		log.Printf("save feedback: %v", err)
		return
	}
	fmt.Println("Thanks for your feedback!")
}

// ask prompts for one value; an empty answer returns def.
func (s *session) ask(label, def string) string {
	fmt.Printf("  %s [%s]: ", label, def)
	if !s.in.Scan() {
		return def
	}
	if v := strings.TrimSpace(s.in.Text()); v != "" {
		return v
	}
	return def
}

// #endregion session
