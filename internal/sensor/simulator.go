package sensor

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// #region simulator

// Simulator generates synthetic readings. Safe for concurrent use.
type Simulator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	config SimulatorConfig
	now    func() time.Time
}

// NewSimulator creates a simulator seeded with seed. The same seed yields the same sequence.
func NewSimulator(seed uint64, config SimulatorConfig) *Simulator {
	return &Simulator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		config: config,
		now:    time.Now,
	}
}

// NewSeed returns a high-entropy seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Generate draws one reading: heart rate and temperature are normal, humidity is uniform.
func (s *Simulator) Generate() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.config
	hr := c.HeartRateMean + s.rng.NormFloat64()*c.HeartRateStdDev
	temp := c.TempMean + s.rng.NormFloat64()*c.TempStdDev
	span := c.HumidityMax - c.HumidityMin + 1
	humidity := c.HumidityMin
	if span > 0 {
		humidity += s.rng.IntN(span)
	}

	return Reading{
		HeartRate:   int(math.Round(hr)),
		Temperature: math.Round(temp*10) / 10,
		Humidity:    humidity,
		At:          s.now().UTC(),
	}
}

// Read implements Source. It never fails unless ctx is already done.
func (s *Simulator) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	return s.Generate(), nil
}

// #endregion simulator
