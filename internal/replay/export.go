package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danielpatrickdp/dosha-lens/internal/logging"
)

// ErrMixedThresholds is returned when exported cases were recorded under different rule thresholds.
var ErrMixedThresholds = errors.New("cases recorded with different thresholds")

// #region export

// ExportFixture turns recorded cases into a fixture. Cases carrying a Config must
// all share it; it becomes the fixture's thresholds.
func ExportFixture(description string, cases []Case) (*Fixture, error) {
	f := &Fixture{Description: description, Cases: make([]FixtureCase, len(cases))}
	for i, c := range cases {
		if c.Config != nil {
			t := logging.ThresholdsFrom(*c.Config)
			if f.Thresholds == nil {
				f.Thresholds = &t
			} else if *f.Thresholds != t {
				return nil, fmt.Errorf("case %s: %w", c.ID, ErrMixedThresholds)
			}
		}
		f.Cases[i] = FixtureCase{ID: c.ID, Features: c.Features, Expected: c.Expected}
	}
	return f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion export
