package feed

import (
	"fmt"

	"github.com/danielpatrickdp/dosha-lens/internal/sensor"
)

// #region open-source

// OpenSource returns the remote feed at addr, or a local simulator when addr is
// empty. A zero seed draws a random one. The returned close func is never nil.
func OpenSource(addr string, seed uint64) (sensor.Source, func() error, error) {
	if addr != "" {
		c, err := NewClient(addr)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	sim, err := NewSimulator(seed)
	if err != nil {
		return nil, nil, err
	}
	return sim, func() error { return nil }, nil
}

// NewSimulator creates a simulator with the default profile. A zero seed draws a random one.
func NewSimulator(seed uint64) (*sensor.Simulator, error) {
	if seed == 0 {
		s, err := sensor.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed simulator: %w", err)
		}
		seed = s
	}
	return sensor.NewSimulator(seed, sensor.DefaultSimulatorConfig()), nil
}

// #endregion open-source
