package sensor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSuperseded is returned by a run that was cancelled because another run started.
var ErrSuperseded = errors.New("stream superseded by a newer run")

// #region streamer

// Streamer emits readings from a Source at a fixed interval. At most one run is
// active: starting a run cancels the previous one.
type Streamer struct {
	src      Source
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelCauseFunc
	runID  uint64
}

// NewStreamer creates a streamer. A non-positive interval uses DefaultInterval.
func NewStreamer(src Source, interval time.Duration) *Streamer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Streamer{src: src, interval: interval}
}

// Run emits count readings, one per interval tick, calling emit synchronously for each.
// It returns nil after the last emission, or the cancellation cause if ctx is done,
// Stop is called, or a newer Run supersedes it.
func (s *Streamer) Run(ctx context.Context, count int, emit func(Emission)) error {
	ctx, id := s.begin(ctx)
	defer s.end(id)

	if count <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 1; i <= count; i++ {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-ticker.C:
		}

		r, err := s.src.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			return fmt.Errorf("read sensor %d/%d: %w", i, count, err)
		}
		emit(Emission{Seq: i, Reading: r})
	}
	return nil
}

// Stop cancels the active run, if any.
func (s *Streamer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(context.Canceled)
		s.cancel = nil
	}
}

// Active reports whether a run is in progress.
func (s *Streamer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// #endregion streamer

// #region lifecycle
func (s *Streamer) begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	ctx, cancel := context.WithCancelCause(parent)
	s.runID++
	s.cancel = cancel
	return ctx, s.runID
}

func (s *Streamer) end(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == id && s.cancel != nil {
		s.cancel(nil)
		s.cancel = nil
	}
}

// #endregion lifecycle
