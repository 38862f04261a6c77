// Package chart keeps the rolling series plotted next to the sensor log.
package chart

import (
	"sync"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/bounded"
)

// DefaultCapacity is the number of points kept on screen.
const DefaultCapacity = 12

// Point is one plotted sample.
type Point struct {
	At         time.Time `json:"at"`
	HeartRate  int       `json:"heart_rate"`
	SleepHours float64   `json:"sleep_hours"`
}

// Window retains the most recent points. Safe for concurrent use.
type Window struct {
	mu       sync.Mutex
	capacity int
	points   []Point
}

// NewWindow creates a window. A non-positive capacity uses DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{capacity: capacity}
}

// Push appends a point, evicting the oldest beyond capacity.
func (w *Window) Push(p Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = bounded.Append(w.points, p, w.capacity)
}

// Points returns a copy of the retained points, oldest first.
func (w *Window) Points() []Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Point, len(w.points))
	copy(out, w.points)
	return out
}

// Len returns the number of retained points.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.points)
}
